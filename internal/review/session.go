// Package review implements the state machine that drives one review pass
// over the due entries.
package review

import (
	"fmt"

	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/inbox"
	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/sm2"
)

// State identifies where a session is in its lifecycle.
type State int

const (
	Idle State = iota
	Presenting
	Completed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress reports the position within the due set, 1-based.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Session orchestrates one review pass. It holds only in-memory position
// state; the persisted store remains the single source of truth, and the
// due-set snapshot taken at Start is never written back wholesale.
//
// A Session is not safe for concurrent use; the caller serializes access.
type Session struct {
	store *inbox.Store
	due   []*models.EntryRecord
	idx   int
	state State
}

// New creates an idle session over the given store.
func New(store *inbox.Store) *Session {
	return &Session{store: store}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Start loads the due set and begins presenting. An empty due set reports
// apperr.ErrNothingDue and leaves the session idle.
func (s *Session) Start() error {
	due, err := s.store.ListDue(s.store.Now())
	if err != nil {
		s.state = Idle
		return err
	}
	if len(due) == 0 {
		s.state = Idle
		return apperr.ErrNothingDue
	}
	s.due = due
	s.idx = 0
	s.state = Presenting
	return nil
}

// Current returns the entry being presented and the progress counter.
func (s *Session) Current() (*models.EntryRecord, Progress, error) {
	if s.state != Presenting {
		return nil, Progress{}, apperr.ErrNoActiveEntry
	}
	return s.due[s.idx], Progress{Current: s.idx + 1, Total: len(s.due)}, nil
}

// SubmitRating applies a quality rating to the current entry: the
// scheduling fields are recomputed from the entry's current persisted
// state (re-read at rating time, so a manual edit made mid-session is
// honored rather than overwritten), the next review date is set from now,
// and the record is persisted. On success the session advances; on any
// failure it stays parked on the same entry so the caller can retry.
func (s *Session) SubmitRating(rating sm2.Rating) error {
	return s.SubmitRatingWithContent(rating, "")
}

// SubmitRatingWithContent is SubmitRating with a replacement body; an
// empty newBody keeps the persisted content.
func (s *Session) SubmitRatingWithContent(rating sm2.Rating, newBody string) error {
	if s.state != Presenting {
		return apperr.ErrNoActiveEntry
	}
	if !rating.IsValid() {
		return fmt.Errorf("review: %q is not a valid rating", rating)
	}

	current := s.due[s.idx]
	rec, err := s.store.Read(current.Path)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("review: %s: %w", current.Path, apperr.ErrNotFound)
	}

	now := s.store.Now()
	res := sm2.Calculate(int(rating), rec.Repetitions, rec.EaseFactor, rec.Interval)
	rec.Interval = res.Interval
	rec.Repetitions = res.Repetitions
	rec.EaseFactor = res.EaseFactor
	rec.LastReviewedAt = now
	rec.NextReviewAt = sm2.NextReviewDate(now, res.Interval)

	body := newBody
	if body == "" {
		body = rec.Content
	}
	if err := s.store.Write(rec, body); err != nil {
		return err
	}

	s.advance()
	return nil
}

// SubmitArchive archives the current entry without rescheduling it,
// removes it from the in-memory due set, and re-clamps the position. On
// failure the session stays parked on the same entry.
func (s *Session) SubmitArchive() error {
	if s.state != Presenting {
		return apperr.ErrNoActiveEntry
	}
	if err := s.store.Archive(s.due[s.idx].Path); err != nil {
		return err
	}

	s.due = append(s.due[:s.idx], s.due[s.idx+1:]...)
	if s.idx >= len(s.due) {
		// Everything before idx was already reviewed.
		s.state = Completed
	}
	return nil
}

// Stop discards in-memory progress from any state without touching
// persisted records: already-rated entries stay rated, unrated entries
// remain due for the next pass.
func (s *Session) Stop() {
	s.due = nil
	s.idx = 0
	s.state = Idle
}

func (s *Session) advance() {
	s.idx++
	if s.idx >= len(s.due) {
		s.state = Completed
	}
}
