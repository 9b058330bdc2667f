package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
)

// ErrNotFound reports that no row exists for the given identity. It is
// distinct from any other storage failure so callers can branch on it
// with errors.Is.
var ErrNotFound = errors.New("participant row not found")

// timeLayout matches the createdAt format the sheet has always used.
const timeLayout = "2006-01-02 15:04:05"

// RowStore is the storage capability the session layer is built on: a
// table addressed by 1-based (row, column) coordinates with the identity
// in column 1. Implementations must return ErrNotFound (possibly
// wrapped) when a lookup misses, and are expected to enforce their own
// transport timeouts.
type RowStore interface {
	AppendRow(ctx context.Context, cells []string) error
	FindRow(ctx context.Context, identity string) (int, error)
	ReadRow(ctx context.Context, row int) ([]string, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
	DeleteRow(ctx context.Context, row int) error
	ReadAllRows(ctx context.Context) ([][]string, error)
}

// Store exposes the typed session operations over a RowStore. It owns
// all column arithmetic; nothing above it sees raw coordinates.
type Store struct {
	rows RowStore
}

func NewStore(rows RowStore) *Store {
	return &Store{rows: rows}
}

// Create appends a fresh row for identity. A pending row for the same
// identity is deleted first, so re-starting a quiz resets it and the
// table never holds two rows for one participant.
func (s *Store) Create(ctx context.Context, identity string, createdAt time.Time) error {
	row, err := s.rows.FindRow(ctx, identity)
	switch {
	case err == nil:
		log.Printf("resetting pending session for %s", identity)
		if err := s.rows.DeleteRow(ctx, row); err != nil {
			return fmt.Errorf("reset pending row for %s: %w", identity, err)
		}
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("check pending row for %s: %w", identity, err)
	}
	cells := EncodeNew(identity, createdAt.Format(timeLayout))
	if err := s.rows.AppendRow(ctx, cells); err != nil {
		return fmt.Errorf("append row for %s: %w", identity, err)
	}
	return nil
}

// UpdateAnswer writes the label and points for one question into the
// identity's row. The locate-then-write pair is not atomic; distinct
// questions target disjoint columns and a repeated question overwrites
// its own cells, so last-write-wins is the worst case.
func (s *Store) UpdateAnswer(ctx context.Context, identity string, question int, label string, points int) error {
	row, err := s.rows.FindRow(ctx, identity)
	if err != nil {
		return fmt.Errorf("find row for %s: %w", identity, err)
	}
	if err := s.rows.UpdateCell(ctx, row, AnswerColumn(question), label); err != nil {
		return fmt.Errorf("write answer %d for %s: %w", question, identity, err)
	}
	if err := s.rows.UpdateCell(ctx, row, PointsColumn(question), strconv.Itoa(points)); err != nil {
		return fmt.Errorf("write points %d for %s: %w", question, identity, err)
	}
	return nil
}

// ReadAll returns the decoded record for identity.
func (s *Store) ReadAll(ctx context.Context, identity string) (Record, error) {
	row, err := s.rows.FindRow(ctx, identity)
	if err != nil {
		return Record{}, fmt.Errorf("find row for %s: %w", identity, err)
	}
	cells, err := s.rows.ReadRow(ctx, row)
	if err != nil {
		return Record{}, fmt.Errorf("read row for %s: %w", identity, err)
	}
	return DecodeRow(cells), nil
}

// FinalizeTotal writes the computed total into its fixed column.
// Writing the same total again is a no-op at the data level, so the call
// is idempotent.
func (s *Store) FinalizeTotal(ctx context.Context, identity string, total int) error {
	row, err := s.rows.FindRow(ctx, identity)
	if err != nil {
		return fmt.Errorf("find row for %s: %w", identity, err)
	}
	if err := s.rows.UpdateCell(ctx, row, TotalColumn, strconv.Itoa(total)); err != nil {
		return fmt.Errorf("write total for %s: %w", identity, err)
	}
	return nil
}

// Delete removes the identity's row. A missing row surfaces as a
// wrapped ErrNotFound so the caller can treat it as already gone.
func (s *Store) Delete(ctx context.Context, identity string) error {
	row, err := s.rows.FindRow(ctx, identity)
	if err != nil {
		return fmt.Errorf("find row for %s: %w", identity, err)
	}
	if err := s.rows.DeleteRow(ctx, row); err != nil {
		return fmt.Errorf("delete row for %s: %w", identity, err)
	}
	return nil
}

// SweepStale deletes rows whose createdAt is older than ttl: sessions
// abandoned mid-quiz and rows left behind by a failed finalize-path
// delete. Returns how many rows were removed. Rows with an unparseable
// timestamp are left alone.
func (s *Store) SweepStale(ctx context.Context, ttl time.Duration, now time.Time) (int, error) {
	all, err := s.rows.ReadAllRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("read rows for sweep: %w", err)
	}
	cutoff := now.Add(-ttl)
	var stale []int
	for i, cells := range all {
		raw := cellAt(cells, createdAtColumn)
		if raw == "" {
			continue
		}
		created, err := time.Parse(timeLayout, raw)
		if err != nil {
			continue
		}
		if created.Before(cutoff) {
			stale = append(stale, i+1)
		}
	}
	// Delete bottom-up so earlier deletions do not shift pending indexes.
	removed := 0
	for i := len(stale) - 1; i >= 0; i-- {
		if err := s.rows.DeleteRow(ctx, stale[i]); err != nil {
			log.Printf("sweep: failed to delete row %d: %v", stale[i], err)
			continue
		}
		removed++
	}
	return removed, nil
}
