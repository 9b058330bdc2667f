package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tat-igra-bot/internal/quiz"
	"tat-igra-bot/internal/storage"
)

// State of one participant's session.
type State int

const (
	StateActive State = iota
	StateCompleting
	StateDone
)

// lastQuestion is the completion trigger: the quiz finishes when the
// fixed last question is answered, not when a counter reaches ten,
// because answers may arrive out of order or repeat.
const lastQuestion = quiz.QuestionCount

// ErrFinalizing reports an answer event that arrived while the session
// was already completing or done; it is dropped so the narrative cannot
// be delivered twice.
var ErrFinalizing = errors.New("session is already finalizing")

// Notifier delivers the finished profile back to the participant. The
// transport implements it.
type Notifier interface {
	DeliverProfile(ctx context.Context, identity string, profile quiz.Profile, total int) error
}

type participantSession struct {
	state    State
	answered map[int]bool
}

// Orchestrator drives participants through the quiz: scoring,
// persistence, completion detection and purge. It is safe for
// concurrent events on the same identity; the store's column-disjoint
// writes carry the rest of the concurrency argument.
type Orchestrator struct {
	store    *Store
	notifier Notifier
	recorder storage.Recorder // optional

	mu       sync.Mutex
	sessions map[string]*participantSession
	now      func() time.Time
}

func NewOrchestrator(store *Store, notifier Notifier, recorder storage.Recorder) *Orchestrator {
	return &Orchestrator{
		store:    store,
		notifier: notifier,
		recorder: recorder,
		sessions: make(map[string]*participantSession),
		now:      time.Now,
	}
}

// Start begins a session for identity. A pending session for the same
// identity is reset. On storage failure no session exists afterwards and
// the error is returned for the transport to report.
func (o *Orchestrator) Start(ctx context.Context, identity string, startedAt time.Time) error {
	if err := o.store.Create(ctx, identity, startedAt); err != nil {
		return fmt.Errorf("start session for %s: %w", identity, err)
	}
	o.mu.Lock()
	o.sessions[identity] = &participantSession{state: StateActive, answered: make(map[int]bool)}
	o.mu.Unlock()
	o.record(storage.Event{Timestamp: startedAt, Kind: storage.KindSessionStarted, Identity: identity})
	return nil
}

// Answer processes one answer event. Scores the label, persists it, and
// finalizes the session when the last question lands. Duplicate delivery
// of the last answer is dropped with ErrFinalizing.
func (o *Orchestrator) Answer(ctx context.Context, identity string, question int, label string) error {
	if question < 1 || question > quiz.QuestionCount || label == "" {
		return fmt.Errorf("malformed answer event for %s: question=%d label=%q", identity, question, label)
	}

	o.mu.Lock()
	s := o.sessions[identity]
	if s == nil {
		// The process may have restarted mid-quiz; the row in the store
		// decides whether the session really exists.
		s = &participantSession{state: StateActive, answered: make(map[int]bool)}
		o.sessions[identity] = s
	}
	if s.state != StateActive {
		o.mu.Unlock()
		return ErrFinalizing
	}
	if question == lastQuestion {
		// Claim completion before the write so a concurrent duplicate of
		// the last answer cannot finalize twice.
		s.state = StateCompleting
	}
	o.mu.Unlock()

	points := quiz.Score(question, label)
	if err := o.store.UpdateAnswer(ctx, identity, question, label, points); err != nil {
		o.mu.Lock()
		if errors.Is(err, ErrNotFound) {
			// No row means no session; drop any speculative entry.
			delete(o.sessions, identity)
		} else if s.state == StateCompleting {
			s.state = StateActive
		}
		o.mu.Unlock()
		return fmt.Errorf("answer %d for %s: %w", question, identity, err)
	}

	o.mu.Lock()
	s.answered[question] = true
	answered := len(s.answered)
	o.mu.Unlock()

	log.Printf("participant %s answered question %d with %s (%d points, %d/%d distinct)",
		identity, question, label, points, answered, quiz.QuestionCount)
	o.record(storage.Event{Timestamp: o.now(), Kind: storage.KindAnswerScored, Identity: identity,
		Question: question, Label: label, Points: points})

	if question == lastQuestion {
		return o.finalize(ctx, identity)
	}
	return nil
}

// finalize reads the full record, sums the points, persists the total,
// delivers the narrative and purges the row. A failed delete does not
// undo delivery; the stale row is the sweeper's problem.
func (o *Orchestrator) finalize(ctx context.Context, identity string) error {
	rec, err := o.store.ReadAll(ctx, identity)
	if err != nil {
		o.reopen(identity)
		return fmt.Errorf("finalize read for %s: %w", identity, err)
	}
	total := rec.Sum()
	if err := o.store.FinalizeTotal(ctx, identity, total); err != nil {
		o.reopen(identity)
		return fmt.Errorf("finalize total for %s: %w", identity, err)
	}

	profile := quiz.GenerateProfile(total)
	if err := o.notifier.DeliverProfile(ctx, identity, profile, total); err != nil {
		o.reopen(identity)
		return fmt.Errorf("deliver profile to %s: %w", identity, err)
	}
	o.record(storage.Event{Timestamp: o.now(), Kind: storage.KindProfileDelivered, Identity: identity, Total: total})

	if err := o.store.Delete(ctx, identity); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("row for %s already gone at purge", identity)
		} else {
			log.Printf("WARNING: row for %s was not purged: %v", identity, err)
		}
	}

	o.mu.Lock()
	if s := o.sessions[identity]; s != nil {
		s.state = StateDone
	}
	delete(o.sessions, identity)
	o.mu.Unlock()
	log.Printf("session for %s finished with total %d and was purged", identity, total)
	return nil
}

// reopen returns a completing session to Active after a recoverable
// finalize failure, so a retried last answer can try again.
func (o *Orchestrator) reopen(identity string) {
	o.mu.Lock()
	if s := o.sessions[identity]; s != nil && s.state == StateCompleting {
		s.state = StateActive
	}
	o.mu.Unlock()
}

func (o *Orchestrator) record(ev storage.Event) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.AppendEvent(ev); err != nil {
		log.Printf("failed to record %s event: %v", ev.Kind, err)
	}
}
