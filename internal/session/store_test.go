package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

// memRows is an in-memory RowStore used across the session tests.
type memRows struct {
	mu   sync.Mutex
	rows [][]string

	failAppend bool
	failUpdate bool
	failDelete bool
}

var errStorage = errors.New("storage exploded")

func (m *memRows) AppendRow(_ context.Context, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend {
		return errStorage
	}
	row := make([]string, len(cells))
	copy(row, cells)
	m.rows = append(m.rows, row)
	return nil
}

func (m *memRows) FindRow(_ context.Context, identity string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if len(r) > 0 && r[0] == identity {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

func (m *memRows) ReadRow(_ context.Context, row int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 1 || row > len(m.rows) {
		return nil, ErrNotFound
	}
	out := make([]string, len(m.rows[row-1]))
	copy(out, m.rows[row-1])
	return out, nil
}

func (m *memRows) UpdateCell(_ context.Context, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return errStorage
	}
	if row < 1 || row > len(m.rows) {
		return ErrNotFound
	}
	r := m.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	m.rows[row-1] = r
	return nil
}

func (m *memRows) DeleteRow(_ context.Context, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return errStorage
	}
	if row < 1 || row > len(m.rows) {
		return ErrNotFound
	}
	m.rows = append(m.rows[:row-1], m.rows[row:]...)
	return nil
}

func (m *memRows) ReadAllRows(_ context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		c := make([]string, len(r))
		copy(c, r)
		out[i] = c
	}
	return out, nil
}

var testTime = time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

func TestStoreCreateAndReadAll(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)

	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := s.ReadAll(ctx, "42")
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if rec.Identity != "42" || rec.Sum() != 0 || rec.Total != nil {
		t.Fatalf("unexpected fresh record: %+v", rec)
	}
	if len(m.rows[0]) != ColumnCount {
		t.Fatalf("row width %d, want %d", len(m.rows[0]), ColumnCount)
	}
}

func TestStoreCreateResetsPendingRow(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)

	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateAnswer(ctx, "42", 3, "C", 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Create(ctx, "42", testTime.Add(time.Hour)); err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if len(m.rows) != 1 {
		t.Fatalf("duplicate rows after re-create: %d", len(m.rows))
	}
	rec, err := s.ReadAll(ctx, "42")
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if rec.Sum() != 0 {
		t.Fatalf("re-created session kept old answers: %+v", rec)
	}
}

func TestStoreUpdateAnswerWritesBothCells(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)
	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateAnswer(ctx, "42", 7, "C", 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	row := m.rows[0]
	if row[AnswerColumn(7)-1] != "C" || row[PointsColumn(7)-1] != "4" {
		t.Fatalf("cells for question 7: %q / %q", row[AnswerColumn(7)-1], row[PointsColumn(7)-1])
	}
	// Neighbouring questions untouched.
	if row[AnswerColumn(6)-1] != "" || row[AnswerColumn(8)-1] != "" {
		t.Fatalf("neighbouring answer cells corrupted: %v", row)
	}
}

func TestStoreUpdateAnswerNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&memRows{})
	err := s.UpdateAnswer(ctx, "ghost", 1, "A", 4)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStoreFinalizeTotalIdempotent(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)
	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.FinalizeTotal(ctx, "42", 33); err != nil {
			t.Fatalf("finalize #%d: %v", i+1, err)
		}
	}
	if got := m.rows[0][TotalColumn-1]; got != "33" {
		t.Fatalf("total cell = %q, want \"33\"", got)
	}
	rec, _ := s.ReadAll(ctx, "42")
	if rec.Total == nil || *rec.Total != 33 {
		t.Fatalf("decoded total: %+v", rec.Total)
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)
	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.ReadAll(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestStoreSweepStale(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)

	old := testTime.Add(-48 * time.Hour)
	if err := s.Create(ctx, "old-1", old); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, "fresh", testTime.Add(-time.Hour)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, "old-2", old.Add(time.Minute)); err != nil {
		t.Fatalf("create: %v", err)
	}

	removed, err := s.SweepStale(ctx, 24*time.Hour, testTime)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 2 {
		t.Fatalf("swept %d rows, want 2", removed)
	}
	if _, err := s.ReadAll(ctx, "fresh"); err != nil {
		t.Fatalf("fresh row swept away: %v", err)
	}
	for _, id := range []string{"old-1", "old-2"} {
		if _, err := s.ReadAll(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("stale row %s survived sweep: %v", id, err)
		}
	}
}

func TestStoreLastWriteWinsOnRepeatedQuestion(t *testing.T) {
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)
	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateAnswer(ctx, "42", 5, "A", 4); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if err := s.UpdateAnswer(ctx, "42", 5, "D", 2); err != nil {
		t.Fatalf("second answer: %v", err)
	}
	rec, _ := s.ReadAll(ctx, "42")
	if rec.Answers[4] != (Answer{Label: "D", Points: 2}) {
		t.Fatalf("question 5 = %+v, want the second write", rec.Answers[4])
	}
	if rec.Sum() != 2 {
		t.Fatalf("sum = %d, want 2 (no double count)", rec.Sum())
	}
}

func TestStoreWidthStableAfterPartialUpdates(t *testing.T) {
	// A row written through UpdateAnswer must keep positional addressing
	// intact for all later columns.
	ctx := context.Background()
	m := &memRows{}
	s := NewStore(m)
	if err := s.Create(ctx, "42", testTime); err != nil {
		t.Fatalf("create: %v", err)
	}
	for n := 1; n <= 10; n++ {
		if err := s.UpdateAnswer(ctx, "42", n, "A", n); err != nil {
			t.Fatalf("answer %d: %v", n, err)
		}
	}
	rec, _ := s.ReadAll(ctx, "42")
	want := 0
	for n := 1; n <= 10; n++ {
		want += n
		if rec.Answers[n-1].Points != n {
			t.Fatalf("question %d points = %d, want %d", n, rec.Answers[n-1].Points, n)
		}
	}
	if rec.Sum() != want {
		t.Fatalf("sum = %d, want %d", rec.Sum(), want)
	}
	if got := m.rows[0][PointsColumn(10)-1]; got != strconv.Itoa(10) {
		t.Fatalf("points cell for question 10 = %q", got)
	}
}
