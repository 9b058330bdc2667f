// Package sheets implements the session.RowStore capability on a Google
// Sheets worksheet, authenticated with a service account.
package sheets

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"tat-igra-bot/internal/session"
)

// callTimeout bounds every Sheets API call so a hung transport surfaces
// as a storage error instead of blocking an update handler.
const callTimeout = 30 * time.Second

type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	sheetID       int64 // numeric ID, needed for row deletion
}

// NewClient authenticates with the service-account credentials JSON and
// binds to one worksheet of the spreadsheet. The numeric sheet ID is
// resolved once here; it never changes for the worksheet's lifetime.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string) (*Client, error) {
	jwt, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheet {
			log.Printf("connected to spreadsheet %s, worksheet %q", spreadsheetID, worksheet)
			return &Client{
				svc:           svc,
				spreadsheetID: spreadsheetID,
				worksheet:     worksheet,
				sheetID:       sh.Properties.SheetId,
			}, nil
		}
	}
	return nil, fmt.Errorf("worksheet %q not found in spreadsheet %s", worksheet, spreadsheetID)
}

func (c *Client) AppendRow(ctx context.Context, cells []string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(cells)}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.worksheet+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// FindRow scans column A for the identity and returns the 1-based row
// index, or session.ErrNotFound.
func (c *Client) FindRow(ctx context.Context, identity string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.worksheet+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read identity column: %w", err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == identity {
			return i + 1, nil
		}
	}
	return 0, session.ErrNotFound
}

func (c *Client) ReadRow(ctx context.Context, row int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	rng := fmt.Sprintf("%s!A%d:%s%d", c.worksheet, row, columnLetter(session.ColumnCount), row)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read row %d: %w", row, err)
	}
	if len(resp.Values) == 0 {
		return nil, session.ErrNotFound
	}
	return toStrings(resp.Values[0]), nil
}

func (c *Client) UpdateCell(ctx context.Context, row, col int, value string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	rng := fmt.Sprintf("%s!%s%d", c.worksheet, columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", rng, err)
	}
	return nil
}

func (c *Client) DeleteRow(ctx context.Context, row int) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    c.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", row, err)
	}
	return nil
}

func (c *Client) ReadAllRows(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	rng := fmt.Sprintf("%s!A:%s", c.worksheet, columnLetter(session.ColumnCount))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read all rows: %w", err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = toStrings(row)
	}
	return out, nil
}

// columnLetter converts a 1-based column number to its A1-notation
// letter(s).
func columnLetter(col int) string {
	var out []byte
	for col > 0 {
		col--
		out = append([]byte{byte('A' + col%26)}, out...)
		col /= 26
	}
	return string(out)
}

func toInterfaces(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}
