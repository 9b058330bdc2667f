package quiz

// QuestionCount is the fixed length of the quiz. The whole row layout and
// the completion trigger depend on it; it is not configurable.
const QuestionCount = 10

const (
	MaxScore = 4 * QuestionCount
	MinScore = 1 * QuestionCount
)

// scoringSchema maps question number -> answer label -> points.
// Points per answer are in [1,4]; anything outside the table scores 0.
var scoringSchema = map[int]map[string]int{
	1:  {"A": 4, "B": 1, "C": 3, "D": 2},
	2:  {"A": 1, "B": 4, "C": 2, "D": 3},
	3:  {"A": 3, "B": 2, "C": 4, "D": 1},
	4:  {"A": 2, "B": 3, "C": 1, "D": 4},
	5:  {"A": 4, "B": 1, "C": 3, "D": 2},
	6:  {"A": 1, "B": 4, "C": 2, "D": 3},
	7:  {"A": 3, "B": 2, "C": 4, "D": 1},
	8:  {"A": 2, "B": 3, "C": 1, "D": 4},
	9:  {"A": 4, "B": 1, "C": 3, "D": 2},
	10: {"A": 1, "B": 4, "C": 2, "D": 3},
}

// Score returns the points for the given question and answer label.
// Unknown question numbers or labels score 0; this is policy, not an error.
func Score(question int, answer string) int {
	return scoringSchema[question][answer]
}
