// Package parser translates between the persisted entry text (a YAML
// metadata block followed by a Markdown body) and typed metadata.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathanyeong/inkwell/internal/models"
	"github.com/jonathanyeong/inkwell/internal/sm2"
)

const delim = "---"

// Metadata is the typed scheduling block of one entry. Every numeric field
// is clamped on decode: the block lives in a plain text file that the
// writer may hand-edit, so stored values are never trusted.
type Metadata struct {
	ID           string
	LastReviewed time.Time
	NextReview   time.Time
	LastModified time.Time
	Interval     int
	EaseFactor   float64
	Repetitions  int
	Status       string
}

// Parse splits data into metadata and body.
//
// A file without a metadata block, without the mandatory id field, or with
// metadata that fails strict decoding is not a managed entry: Parse
// returns a nil Metadata and no error so callers can skip unrelated files
// living in the same folder.
func Parse(data []byte) (*Metadata, string, error) {
	raw, body := splitBlock(data)
	if raw == nil {
		return nil, string(data), nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, string(data), nil
	}

	id, ok := stringField(fields["id"])
	if !ok || id == "" {
		return nil, string(data), nil
	}

	meta := &Metadata{ID: id}

	for _, f := range []struct {
		key string
		dst *time.Time
	}{
		{"lastReviewed", &meta.LastReviewed},
		{"nextReview", &meta.NextReview},
		{"lastModified", &meta.LastModified},
	} {
		ts, ok := timeField(fields[f.key])
		if !ok {
			// Managed entry with a broken timestamp: fail closed.
			return nil, string(data), nil
		}
		*f.dst = ts
	}

	meta.Interval = clampInt(intField(fields["interval"], 1), 1)
	meta.Repetitions = clampInt(intField(fields["repetitions"], 0), 0)
	meta.EaseFactor = floatField(fields["easeFactor"], sm2.InitialEaseFactor)
	if meta.EaseFactor < sm2.MinEaseFactor {
		meta.EaseFactor = sm2.MinEaseFactor
	}

	status, _ := stringField(fields["status"])
	switch status {
	case models.StatusActive, models.StatusArchived:
		meta.Status = status
	case "":
		meta.Status = models.StatusActive
	default:
		return nil, string(data), nil
	}

	return meta, body, nil
}

// Render regenerates the persisted form: metadata block plus body.
func Render(meta *Metadata, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString(delim + "\n")

	// Marshal through an ordered struct so the block layout is stable.
	block := struct {
		ID           string  `yaml:"id"`
		LastReviewed string  `yaml:"lastReviewed"`
		NextReview   string  `yaml:"nextReview"`
		LastModified string  `yaml:"lastModified"`
		Interval     int     `yaml:"interval"`
		EaseFactor   float64 `yaml:"easeFactor"`
		Repetitions  int     `yaml:"repetitions"`
		Status       string  `yaml:"status"`
	}{
		ID:           meta.ID,
		LastReviewed: meta.LastReviewed.UTC().Format(time.RFC3339Nano),
		NextReview:   meta.NextReview.UTC().Format(time.RFC3339Nano),
		LastModified: meta.LastModified.UTC().Format(time.RFC3339Nano),
		Interval:     meta.Interval,
		EaseFactor:   meta.EaseFactor,
		Repetitions:  meta.Repetitions,
		Status:       meta.Status,
	}
	out, _ := yaml.Marshal(block)
	buf.Write(out)
	buf.WriteString(delim + "\n\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n")
	return buf.Bytes()
}

// splitBlock separates the YAML block (between leading --- delimiters)
// from the body. A nil block means no delimited metadata was found.
func splitBlock(data []byte) ([]byte, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}
	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	return block, strings.TrimLeft(string(after), "\n\r")
}

func stringField(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int, int64, uint64, float64:
		// Unquoted numeric ids resolve as YAML numbers.
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

// timeField accepts both quoted ISO-8601 strings and bare YAML timestamps
// (which yaml.v3 resolves straight into time.Time).
func timeField(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func intField(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func floatField(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

func clampInt(v, min int) int {
	if v < min {
		return min
	}
	return v
}
