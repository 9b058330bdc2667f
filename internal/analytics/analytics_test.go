package analytics

import (
	"strings"
	"testing"
	"time"

	"tat-igra-bot/internal/storage"
)

func TestAnalyzeDailyEvents(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		{Timestamp: testDate.Add(2 * time.Hour), Kind: storage.KindSessionStarted, Identity: "123"},
		{Timestamp: testDate.Add(2*time.Hour + time.Minute), Kind: storage.KindAnswerScored, Identity: "123", Question: 1, Label: "A", Points: 4},
		{Timestamp: testDate.Add(2*time.Hour + 2*time.Minute), Kind: storage.KindAnswerScored, Identity: "123", Question: 2, Label: "B", Points: 4},
		{Timestamp: testDate.Add(3 * time.Hour), Kind: storage.KindProfileDelivered, Identity: "123", Total: 38},
		{Timestamp: testDate.Add(5 * time.Hour), Kind: storage.KindSessionStarted, Identity: "456"},
		{Timestamp: testDate.Add(5*time.Hour + time.Minute), Kind: storage.KindAnswerScored, Identity: "456", Question: 1, Label: "B", Points: 1},
		// Next day, must not be counted.
		{Timestamp: testDate.AddDate(0, 0, 1), Kind: storage.KindSessionStarted, Identity: "789"},
	}

	stats := AnalyzeDailyEvents(events, testDate)

	if stats.Date != "2024-01-15" {
		t.Errorf("date = %q, want 2024-01-15", stats.Date)
	}
	if stats.SessionsStarted != 2 {
		t.Errorf("sessions started = %d, want 2", stats.SessionsStarted)
	}
	if stats.SessionsCompleted != 1 {
		t.Errorf("sessions completed = %d, want 1", stats.SessionsCompleted)
	}
	if stats.UniqueParticipants != 2 {
		t.Errorf("unique participants = %d, want 2", stats.UniqueParticipants)
	}
	if stats.AnswersScored != 3 {
		t.Errorf("answers scored = %d, want 3", stats.AnswersScored)
	}
	if stats.AnswersByLabel["B"] != 2 {
		t.Errorf("label B count = %d, want 2", stats.AnswersByLabel["B"])
	}
	if stats.AverageTotal != 38 {
		t.Errorf("average total = %v, want 38", stats.AverageTotal)
	}
}

func TestGenerateReportSummary(t *testing.T) {
	stats := &DailyStats{
		Date:               "2024-01-15",
		SessionsStarted:    3,
		SessionsCompleted:  2,
		UniqueParticipants: 3,
		AnswersScored:      25,
		AnswersByLabel:     map[string]int{"A": 10, "B": 15},
		AverageTotal:       28.5,
	}
	out := stats.GenerateReportSummary()
	for _, want := range []string{"2024-01-15", "Pokrenutih sesija: 3", "Prosečan skor: 28.5", "A: 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("report misses %q:\n%s", want, out)
		}
	}
}
