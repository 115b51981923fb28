// Package storage defines the inbox file-system abstraction.
package storage

import (
	"time"

	"github.com/jonathanyeong/inkwell/internal/models"
)

// Provider is the interface for inbox file operations. The review core
// depends only on this capability set, so any filesystem, database, or
// in-memory double can back it.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to the inbox root).
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the inbox root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the inbox root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the inbox root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the inbox root).
	Move(oldPath, newPath string) error
	// Stat returns the external last-modified time of the file at path.
	Stat(path string) (time.Time, error)
}
