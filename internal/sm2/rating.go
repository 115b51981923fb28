package sm2

import (
	"encoding"
	"fmt"
)

// Rating is a writer's assessment of an entry during review. The set is
// closed: the three ratings map onto fixed points of the 0–5 SM-2 quality
// scale and no other values are accepted from callers.
type Rating int

const (
	// Fruitful marks an entry that sparked new writing; it is treated as
	// an inadequate recall so the entry resurfaces sooner.
	Fruitful Rating = 0
	// Skip defers an entry at the minimum adequate quality.
	Skip Rating = 3
	// Unfruitful marks an entry with nothing left to give; maximum spacing.
	Unfruitful Rating = 5
)

var (
	_ fmt.Stringer             = Rating(0)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

var ratingNames = map[Rating]string{
	Fruitful:   "fruitful",
	Skip:       "skip",
	Unfruitful: "unfruitful",
}

// ParseRating converts a rating name into a Rating.
func ParseRating(s string) (Rating, error) {
	for r, name := range ratingNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("sm2: invalid rating %q", s)
}

// IsValid reports whether r is one of the three defined ratings.
func (r Rating) IsValid() bool {
	_, ok := ratingNames[r]
	return ok
}

// String returns the rating name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("sm2: invalid rating %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
