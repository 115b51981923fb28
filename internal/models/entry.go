// Package models defines the domain types for Inkwell.
package models

import "time"

// Entry statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Out-of-band edit channel values carried on EntryRecord.Quality. These are
// informational flags set while reading an entry from disk; they are never
// submitted to the scheduler as a recall rating.
const (
	// QualityUntouched means the file has not changed since the last
	// system write.
	QualityUntouched = -1
	// QualityEdited means the file's modification time is newer than its
	// recorded lastModified metadata, i.e. the writer edited it by hand.
	QualityEdited = 0
)

// EntryRecord is one writing entry under spaced-repetition tracking.
type EntryRecord struct {
	ID             string    `json:"id"`
	Path           string    `json:"path"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"next_review_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	Interval       int       `json:"interval"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int       `json:"repetitions"`
	Status         string    `json:"status"`

	// Quality is the out-of-band edit channel: QualityEdited when a manual
	// edit was detected at read time, QualityUntouched otherwise.
	Quality int `json:"-"`
}

// Active reports whether the entry is eligible for review.
func (e *EntryRecord) Active() bool {
	return e.Status == StatusActive
}

// ManuallyEdited reports whether a manual edit was detected when the
// record was read.
func (e *EntryRecord) ManuallyEdited() bool {
	return e.Quality == QualityEdited
}

// FileMeta is a lightweight representation returned by storage listings.
type FileMeta struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}
