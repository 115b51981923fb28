// Package inbox owns the translation between entry records and their
// persisted form, and the entries/archive folder split.
package inbox

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/parser"
	"github.com/jonathanyeong/inkwell/internal/sm2"
	"github.com/jonathanyeong/inkwell/internal/storage"
)

// Folder layout inside the inbox root.
const (
	EntriesDir = "entries"
	ArchiveDir = "archive"
)

// idFormat is the opaque entry identifier: a second-granularity local
// timestamp token, assigned once at creation and never recomputed.
const idFormat = "20060102150405"

// editSlack absorbs the gap between the lastModified value stamped into
// the metadata block and the moment the file actually lands on disk.
// Only modification times beyond this window count as manual edits.
const editSlack = time.Second

// Store maps entry records onto a storage.Provider.
type Store struct {
	store storage.Provider
	limit int // max entries per due listing, 0 = unlimited

	now func() time.Time // swapped out in tests
}

// NewStore creates a Store over the given provider. dailyLimit caps the
// size of a due listing; zero means no cap.
func NewStore(store storage.Provider, dailyLimit int) *Store {
	return &Store{store: store, limit: dailyLimit, now: time.Now}
}

// Create persists a new entry with initial scheduling values. The file
// name is derived from the local date and the slugified first line of the
// content; the entry id from the local timestamp at second granularity.
func (s *Store) Create(content string) (*models.EntryRecord, error) {
	now := s.now()
	name := fmt.Sprintf("%s-%s.md", now.Format("2006-01-02"), slug(content))
	path := EntriesDir + "/" + name

	if _, err := s.store.Read(path); err == nil {
		return nil, fmt.Errorf("inbox: create %s: %w", path, apperr.ErrAlreadyExists)
	}

	init := sm2.InitialValues()
	rec := &models.EntryRecord{
		ID:             now.Format(idFormat),
		Path:           path,
		Content:        strings.TrimSpace(content),
		CreatedAt:      now,
		LastReviewedAt: now,
		NextReviewAt:   now,
		LastModifiedAt: now,
		Interval:       init.Interval,
		EaseFactor:     init.EaseFactor,
		Repetitions:    init.Repetitions,
		Status:         models.StatusActive,
		Quality:        models.QualityUntouched,
	}

	if err := s.store.Write(path, parser.Render(metadataOf(rec), rec.Content)); err != nil {
		return nil, fmt.Errorf("inbox: persist %s: %w", path, err)
	}
	return rec, nil
}

// Read loads and parses the entry at path. Files that are not managed
// entries (no metadata block, no id, broken metadata) yield a nil record
// and no error so callers can skip them.
//
// Manual-edit detection: when the file's modification time is newer than
// the recorded lastModified, the external time becomes the effective
// LastModifiedAt and Quality is set to the edited sentinel. The sentinel
// is informational only and is never submitted to the scheduler.
func (s *Store) Read(path string) (*models.EntryRecord, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("inbox: read %s: %w", path, apperr.ErrNotFound)
	}
	meta, body, err := parser.Parse(data)
	if err != nil || meta == nil {
		return nil, nil
	}

	rec := &models.EntryRecord{
		ID:             meta.ID,
		Path:           path,
		Content:        strings.TrimSpace(body),
		CreatedAt:      createdAtFromID(meta.ID, meta.LastReviewed),
		LastReviewedAt: meta.LastReviewed,
		NextReviewAt:   meta.NextReview,
		LastModifiedAt: meta.LastModified,
		Interval:       meta.Interval,
		EaseFactor:     meta.EaseFactor,
		Repetitions:    meta.Repetitions,
		Status:         meta.Status,
		Quality:        models.QualityUntouched,
	}

	if modTime, statErr := s.store.Stat(path); statErr == nil {
		if modTime.Sub(meta.LastModified) > editSlack {
			rec.LastModifiedAt = modTime
			rec.Quality = models.QualityEdited
		}
	}
	return rec, nil
}

// Write regenerates the metadata block from the record's current
// scheduling fields with a fresh lastModified and persists it together
// with newBody in a single call. This is the only path by which
// lastModified advances under system control.
func (s *Store) Write(rec *models.EntryRecord, newBody string) error {
	rec.LastModifiedAt = s.now()
	rec.Content = strings.TrimSpace(newBody)
	if err := s.store.Write(rec.Path, parser.Render(metadataOf(rec), rec.Content)); err != nil {
		return fmt.Errorf("inbox: persist %s: %w", rec.Path, err)
	}
	return nil
}

// Archive marks the entry archived, writes the metadata back, then moves
// the file from entries/ to archive/. If the move fails after the
// metadata write succeeded the entry is archived in place; callers should
// treat that as a recoverable inconsistency, not data loss.
func (s *Store) Archive(path string) error {
	rec, err := s.Read(path)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("inbox: archive %s: %w", path, apperr.ErrNotFound)
	}

	rec.Status = models.StatusArchived
	if err := s.Write(rec, rec.Content); err != nil {
		return err
	}

	newPath := strings.Replace(path, EntriesDir+"/", ArchiveDir+"/", 1)
	if err := s.store.Move(path, newPath); err != nil {
		return fmt.Errorf("inbox: move %s to %s: %w (%v)", path, newPath, apperr.ErrRelocate, err)
	}
	return nil
}

// ListActive returns every valid, active record in the entries folder.
func (s *Store) ListActive() ([]*models.EntryRecord, error) {
	metas, err := s.store.List(EntriesDir)
	if err != nil {
		return nil, fmt.Errorf("inbox: list: %w", err)
	}
	var out []*models.EntryRecord
	for _, m := range metas {
		rec, err := s.Read(m.Path)
		if err != nil || rec == nil {
			continue
		}
		if rec.Active() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListDue returns the active records due by the end of ref's local day,
// earliest-due first, ties broken by id. The configured daily limit caps
// the result.
func (s *Store) ListDue(ref time.Time) ([]*models.EntryRecord, error) {
	active, err := s.ListActive()
	if err != nil {
		return nil, err
	}
	cutoff := sm2.EndOfDay(ref)

	var due []*models.EntryRecord
	for _, rec := range active {
		if !rec.NextReviewAt.After(cutoff) {
			due = append(due, rec)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].ID < due[j].ID
	})
	if s.limit > 0 && len(due) > s.limit {
		due = due[:s.limit]
	}
	return due, nil
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

func metadataOf(rec *models.EntryRecord) *parser.Metadata {
	return &parser.Metadata{
		ID:           rec.ID,
		LastReviewed: rec.LastReviewedAt,
		NextReview:   rec.NextReviewAt,
		LastModified: rec.LastModifiedAt,
		Interval:     rec.Interval,
		EaseFactor:   rec.EaseFactor,
		Repetitions:  rec.Repetitions,
		Status:       rec.Status,
	}
}

// createdAtFromID recovers the creation time encoded in the id token,
// falling back to lastReviewed for ids that are not timestamp-shaped.
func createdAtFromID(id string, fallback time.Time) time.Time {
	if ts, err := time.ParseInLocation(idFormat, id, time.Local); err == nil {
		return ts
	}
	return fallback
}

// slug derives a file-name fragment from the first line of content:
// non-alphanumeric characters stripped, truncated to 50 characters,
// lower-cased, spaces collapsed to dashes.
func slug(content string) string {
	first := content
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	var b strings.Builder
	for _, r := range first {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ', r == '\t':
			b.WriteRune(' ')
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if len(cleaned) > 50 {
		cleaned = strings.TrimSpace(cleaned[:50])
	}
	if cleaned == "" {
		cleaned = "untitled"
	}
	return strings.Join(strings.Fields(cleaned), "-")
}
