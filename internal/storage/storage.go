package storage

import "time"

// Event kinds recorded over a session's lifetime.
const (
	KindSessionStarted   = "session_started"
	KindAnswerScored     = "answer_scored"
	KindProfileDelivered = "profile_delivered"
)

// Event is one recorded quiz happening. Events are appended in
// chronological order; Question/Label/Points are only meaningful for
// answer events and Total only for delivery events.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Identity  string    `json:"identity"`
	Question  int       `json:"question,omitempty"`
	Label     string    `json:"label,omitempty"`
	Points    int       `json:"points,omitempty"`
	Total     int       `json:"total,omitempty"`
}

// Recorder abstracts persistence of quiz events. Implementations can be
// file-based, database, etc. AppendEvent should atomically append a new
// event; LoadEvents should return them in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
