package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathanyeong/inkwell/internal/parser"
	"github.com/jonathanyeong/inkwell/internal/storage"
)

// fileDigest is the change marker stored per row. Rows whose digest
// matches the file on disk are skipped during reconciliation.
func fileDigest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Sync walks the inbox and brings the index up to date:
//   - new/changed entry files are parsed and upserted
//   - files removed from disk are deleted from the index
//
// Files that are not managed entries are skipped.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if checksums[m.Path] == fileDigest(data) {
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale rows.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteEntry(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexData parses data and upserts it into the DB. Exported so the API
// service can refresh single entries after a system write.
func IndexData(db *DB, path string, data []byte) error {
	return indexFile(db, path, data)
}

// indexFile parses data and upserts it into the DB. Unmanaged files
// (no metadata block) are ignored.
func indexFile(db *DB, path string, data []byte) error {
	meta, body, err := parser.Parse(data)
	if err != nil {
		return err
	}
	if meta == nil {
		return nil
	}

	row := EntryRow{
		Path:        path,
		EntryID:     meta.ID,
		Title:       entryTitle(body),
		Status:      meta.Status,
		NextReview:  meta.NextReview,
		Interval:    meta.Interval,
		EaseFactor:  meta.EaseFactor,
		Repetitions: meta.Repetitions,
		Checksum:    fileDigest(data),
		UpdatedAt:   time.Now(),
	}
	return db.UpsertEntry(row, body)
}

// entryTitle returns the first non-empty line of the body, stripped of a
// leading Markdown heading marker, capped at 80 characters.
func entryTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if t == "" {
			continue
		}
		if len(t) > 80 {
			t = t[:80]
		}
		return t
	}
	return ""
}
