package index

import (
	"fmt"
	"time"
)

// EntryRow represents a row in the entries table.
type EntryRow struct {
	Path        string    `json:"path"`
	EntryID     string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	NextReview  time.Time `json:"next_review"`
	Interval    int       `json:"interval"`
	EaseFactor  float64   `json:"ease_factor"`
	Repetitions int       `json:"repetitions"`
	Checksum    string    `json:"checksum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Stats summarizes the indexed inbox.
type Stats struct {
	Active   int `json:"active"`
	Archived int `json:"archived"`
	DueToday int `json:"due_today"`
}

// UpsertEntry inserts or replaces an entry row and its FTS document.
func (db *DB) UpsertEntry(e EntryRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO entries (path, entry_id, title, status, next_review, interval, ease_factor, repetitions, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			entry_id    = excluded.entry_id,
			title       = excluded.title,
			status      = excluded.status,
			next_review = excluded.next_review,
			interval    = excluded.interval,
			ease_factor = excluded.ease_factor,
			repetitions = excluded.repetitions,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, e.Path, e.EntryID, e.Title, e.Status, e.NextReview, e.Interval, e.EaseFactor, e.Repetitions, e.Checksum, body, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert entry: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, e.Path, e.Title, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteEntry removes an entry row and its FTS document.
func (db *DB) DeleteEntry(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM entries WHERE path = ?`, path)

	return tx.Commit()
}

// GetEntry returns a single row, or nil if the path is not indexed.
func (db *DB) GetEntry(path string) (*EntryRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, entry_id, title, status, next_review, interval, ease_factor, repetitions, checksum, updated_at
		FROM entries WHERE path = ?
	`, path)
	var e EntryRow
	err := row.Scan(&e.Path, &e.EntryID, &e.Title, &e.Status, &e.NextReview,
		&e.Interval, &e.EaseFactor, &e.Repetitions, &e.Checksum, &e.UpdatedAt)
	if err != nil {
		return nil, nil
	}
	return &e, nil
}

// ListEntries returns paginated rows with an optional status filter,
// ordered by next_review ascending with path as the tiebreaker.
func (db *DB) ListEntries(limit, offset int, status string) ([]EntryRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	args := []any{}
	if status != "" {
		where = "WHERE status = ?"
		args = append(args, status)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM entries `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT path, entry_id, title, status, next_review, interval, ease_factor, repetitions, checksum, updated_at
		FROM entries %s
		ORDER BY next_review ASC, path ASC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, offset)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list entries: %w", err)
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var e EntryRow
		if err := rows.Scan(&e.Path, &e.EntryID, &e.Title, &e.Status, &e.NextReview,
			&e.Interval, &e.EaseFactor, &e.Repetitions, &e.Checksum, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// GetStats returns inbox counters; cutoff bounds "due today".
func (db *DB) GetStats(cutoff time.Time) (Stats, error) {
	var s Stats
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM entries WHERE status = 'active'`).Scan(&s.Active); err != nil {
		return s, fmt.Errorf("index: stats: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM entries WHERE status = 'archived'`).Scan(&s.Archived); err != nil {
		return s, fmt.Errorf("index: stats: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM entries WHERE status = 'active' AND next_review <= ?`, cutoff).Scan(&s.DueToday); err != nil {
		return s, fmt.Errorf("index: stats: %w", err)
	}
	return s, nil
}

// GetChecksum returns the stored checksum for a path, or empty string if
// not indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM entries WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed entry.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM entries`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
