package session

import (
	"strconv"

	"tat-igra-bot/internal/quiz"
)

// Row layout, 1-based columns:
//
//	1                identity
//	2n / 2n+1        answer / points for question n, n in [1,10]
//	22               total (set at finalize)
//	23               createdAt
//
// The layout is positional; every row keeps all 23 cells so that cell
// addressing never shifts.
const (
	identityColumn  = 1
	TotalColumn     = 22
	createdAtColumn = 23
	ColumnCount     = 23
)

// AnswerColumn returns the 1-based column holding the answer label for
// question n.
func AnswerColumn(n int) int { return 2 * n }

// PointsColumn returns the 1-based column holding the points for
// question n.
func PointsColumn(n int) int { return 2*n + 1 }

// Answer is one answered question slot. The zero value means the
// question has not been answered yet.
type Answer struct {
	Label  string
	Points int
}

// Record is the decoded per-participant row. Answers is indexed by
// question number minus one. Total is nil until finalize has run.
type Record struct {
	Identity  string
	Answers   [quiz.QuestionCount]Answer
	Total     *int
	CreatedAt string
}

// Sum adds up the points of all answered questions. Unanswered slots
// contribute 0.
func (r Record) Sum() int {
	total := 0
	for _, a := range r.Answers {
		total += a.Points
	}
	return total
}

// EncodeNew builds the initial 23-cell row for a fresh session: identity
// and timestamp set, all answer/points cells and the total explicitly
// empty.
func EncodeNew(identity, createdAt string) []string {
	cells := make([]string, ColumnCount)
	cells[identityColumn-1] = identity
	cells[createdAtColumn-1] = createdAt
	return cells
}

// DecodeRow turns a raw cell sequence back into a Record. Short rows are
// tolerated (missing trailing cells read as empty), and points or total
// cells that fail numeric parsing are skipped rather than failing the
// decode. Partial data yields a partial record, never an error.
func DecodeRow(cells []string) Record {
	rec := Record{
		Identity:  cellAt(cells, identityColumn),
		CreatedAt: cellAt(cells, createdAtColumn),
	}
	for n := 1; n <= quiz.QuestionCount; n++ {
		label := cellAt(cells, AnswerColumn(n))
		points := 0
		if raw := cellAt(cells, PointsColumn(n)); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				points = v
			}
		}
		rec.Answers[n-1] = Answer{Label: label, Points: points}
	}
	if raw := cellAt(cells, TotalColumn); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			rec.Total = &v
		}
	}
	return rec
}

func cellAt(cells []string, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}
