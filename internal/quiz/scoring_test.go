package quiz

import "testing"

func TestScoreKnownPairs(t *testing.T) {
	cases := []struct {
		question int
		answer   string
		want     int
	}{
		{1, "A", 4},
		{1, "B", 1},
		{2, "B", 4},
		{3, "C", 4},
		{4, "D", 4},
		{5, "C", 3},
		{10, "A", 1},
		{10, "B", 4},
	}
	for _, c := range cases {
		if got := Score(c.question, c.answer); got != c.want {
			t.Errorf("Score(%d, %q) = %d, want %d", c.question, c.answer, got, c.want)
		}
	}
}

func TestScoreFullTable(t *testing.T) {
	for q := 1; q <= QuestionCount; q++ {
		for _, label := range []string{"A", "B", "C", "D"} {
			got := Score(q, label)
			if got < 1 || got > 4 {
				t.Errorf("Score(%d, %q) = %d, outside [1,4]", q, label, got)
			}
		}
	}
}

func TestScoreUnknownPairs(t *testing.T) {
	cases := []struct {
		question int
		answer   string
	}{
		{0, "A"},
		{11, "A"},
		{-1, "B"},
		{5, "E"},
		{5, ""},
		{5, "a"},
	}
	for _, c := range cases {
		if got := Score(c.question, c.answer); got != 0 {
			t.Errorf("Score(%d, %q) = %d, want 0", c.question, c.answer, got)
		}
	}
}
