package api

import (
	"context"
	"sync"

	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/inbox"
	"github.com/jonathanyeong/inkwell/internal/index"
	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/review"
	"github.com/jonathanyeong/inkwell/internal/sm2"
	"github.com/jonathanyeong/inkwell/internal/sse"
	"github.com/jonathanyeong/inkwell/internal/storage"
)

// Service coordinates the entry store, the review session, and the index
// for the API layer. It owns the single active review session: the system
// is single-writer, so one session at a time is enforced here with a
// mutex rather than inside the state machine.
type Service struct {
	provider storage.Provider
	store    *inbox.Store
	db       *index.DB
	broker   *sse.Broker // may be nil (no event fan-out)

	mu      sync.Mutex
	session *review.Session
}

// NewService creates a new API service. broker may be nil.
func NewService(provider storage.Provider, store *inbox.Store, db *index.DB, broker *sse.Broker) *Service {
	return &Service{provider: provider, store: store, db: db, broker: broker}
}

// AddEntry creates a new entry and indexes it.
func (s *Service) AddEntry(_ context.Context, content string) (*models.EntryRecord, error) {
	rec, err := s.store.Create(content)
	if err != nil {
		return nil, err
	}
	s.reindex(rec.Path)
	s.publish("created", rec.Path)
	return rec, nil
}

// GetEntry reads a single entry from storage.
func (s *Service) GetEntry(_ context.Context, path string) (*models.EntryRecord, error) {
	rec, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.ErrNotFound
	}
	return rec, nil
}

// ListEntries returns paginated index rows with an optional status filter.
func (s *Service) ListEntries(_ context.Context, limit, offset int, status string) ([]index.EntryRow, int, error) {
	return s.db.ListEntries(limit, offset, status)
}

// DueEntries returns the entries due now, read from the files directly.
func (s *Service) DueEntries(_ context.Context) ([]*models.EntryRecord, error) {
	return s.store.ListDue(s.store.Now())
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Stats returns inbox counters from the index.
func (s *Service) Stats(_ context.Context) (index.Stats, error) {
	return s.db.GetStats(sm2.EndOfDay(s.store.Now()))
}

// StartReview begins a review pass and returns the first due entry.
// apperr.ErrNothingDue means there is nothing to review today;
// apperr.ErrConflict means a pass is already in progress.
func (s *Service) StartReview(_ context.Context) (*models.EntryRecord, review.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.session.State() == review.Presenting {
		return nil, review.Progress{}, apperr.ErrConflict
	}

	sess := review.New(s.store)
	if err := sess.Start(); err != nil {
		return nil, review.Progress{}, err
	}
	s.session = sess
	rec, prog, err := sess.Current()
	return rec, prog, err
}

// CurrentReview returns the entry currently being presented.
func (s *Service) CurrentReview(_ context.Context) (*models.EntryRecord, review.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, review.Progress{}, apperr.ErrNoActiveEntry
	}
	return s.session.Current()
}

// SubmitRating rates the current entry, optionally replacing its body.
// It returns the next entry to present, or done=true when the pass
// completed. On failure the session stays parked on the same entry.
func (s *Service) SubmitRating(_ context.Context, rating sm2.Rating, newBody string) (*models.EntryRecord, review.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, review.Progress{}, false, apperr.ErrNoActiveEntry
	}

	rated, _, err := s.session.Current()
	if err != nil {
		return nil, review.Progress{}, false, err
	}
	if err := s.session.SubmitRatingWithContent(rating, newBody); err != nil {
		return nil, review.Progress{}, false, err
	}
	s.reindex(rated.Path)
	s.publish("updated", rated.Path)

	if s.session.State() == review.Completed {
		return nil, review.Progress{}, true, nil
	}
	rec, prog, err := s.session.Current()
	return rec, prog, false, err
}

// SubmitArchive archives the current entry. Returns the next entry, or
// done=true when the pass completed.
func (s *Service) SubmitArchive(_ context.Context) (*models.EntryRecord, review.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, review.Progress{}, false, apperr.ErrNoActiveEntry
	}

	archived, _, err := s.session.Current()
	if err != nil {
		return nil, review.Progress{}, false, err
	}
	if err := s.session.SubmitArchive(); err != nil {
		return nil, review.Progress{}, false, err
	}

	newPath := inbox.ArchiveDir + archived.Path[len(inbox.EntriesDir):]
	_ = s.db.DeleteEntry(archived.Path)
	s.reindex(newPath)
	s.publish("archived", newPath)

	if s.session.State() == review.Completed {
		return nil, review.Progress{}, true, nil
	}
	rec, prog, err := s.session.Current()
	return rec, prog, false, err
}

// StopReview abandons the in-memory review state without touching
// persisted records.
func (s *Service) StopReview(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Stop()
		s.session = nil
	}
}

// reindex re-reads path and upserts it into the index; best effort, since
// the watcher reconciles eventually when running as a server.
func (s *Service) reindex(path string) {
	data, err := s.provider.Read(path)
	if err != nil {
		return
	}
	_ = index.IndexData(s.db, path, data)
}

func (s *Service) publish(kind, path string) {
	if s.broker != nil {
		s.broker.PublishEntryEvent(kind, path)
	}
}
