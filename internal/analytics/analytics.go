package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tat-igra-bot/internal/storage"
)

// DailyStats aggregates quiz activity for one day.
type DailyStats struct {
	Date               string         `json:"date"`
	SessionsStarted    int            `json:"sessions_started"`
	SessionsCompleted  int            `json:"sessions_completed"`
	UniqueParticipants int            `json:"unique_participants"`
	AnswersScored      int            `json:"answers_scored"`
	AnswersByLabel     map[string]int `json:"answers_by_label"`
	AverageTotal       float64        `json:"average_total"`
}

// AnalyzeDailyEvents aggregates recorded quiz events for the given date.
func AnalyzeDailyEvents(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:           startOfDay.Format("2006-01-02"),
		AnswersByLabel: make(map[string]int),
	}

	participants := make(map[string]bool)
	totalSum := 0

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		participants[event.Identity] = true

		switch event.Kind {
		case storage.KindSessionStarted:
			stats.SessionsStarted++
		case storage.KindAnswerScored:
			stats.AnswersScored++
			if event.Label != "" {
				stats.AnswersByLabel[event.Label]++
			}
		case storage.KindProfileDelivered:
			stats.SessionsCompleted++
			totalSum += event.Total
		}
	}

	stats.UniqueParticipants = len(participants)
	if stats.SessionsCompleted > 0 {
		stats.AverageTotal = float64(totalSum) / float64(stats.SessionsCompleted)
	}
	return stats
}

// GenerateReportSummary renders the stats as the plain-text daily report
// sent to the admin chat.
func (ds *DailyStats) GenerateReportSummary() string {
	summary := fmt.Sprintf(`TAT igra — statistika za %s:

- Pokrenutih sesija: %d
- Završenih sesija: %d
- Jedinstvenih učesnika: %d
- Ocenjenih odgovora: %d
`, ds.Date, ds.SessionsStarted, ds.SessionsCompleted, ds.UniqueParticipants, ds.AnswersScored)

	if ds.SessionsCompleted > 0 {
		summary += fmt.Sprintf("- Prosečan skor: %.1f\n", ds.AverageTotal)
	}
	if len(ds.AnswersByLabel) > 0 {
		labels := make([]string, 0, len(ds.AnswersByLabel))
		for label := range ds.AnswersByLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		summary += "\nRaspodela odgovora:\n"
		for _, label := range labels {
			summary += fmt.Sprintf("- %s: %d\n", label, ds.AnswersByLabel[label])
		}
	}
	return summary
}

// ToJSON serializes the stats for detailed inspection.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
