package sm2

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestInitialValues(t *testing.T) {
	got := InitialValues()
	if got.Interval != 1 {
		t.Errorf("Interval = %d, want 1", got.Interval)
	}
	if got.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", got.Repetitions)
	}
	if !almostEqual(got.EaseFactor, 2.5) {
		t.Errorf("EaseFactor = %v, want 2.5", got.EaseFactor)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		quality     int
		repetitions int
		easeFactor  float64
		interval    int
		want        Result
	}{
		{
			name:    "first adequate review",
			quality: 3, repetitions: 0, easeFactor: 2.5, interval: 1,
			want: Result{Interval: 1, Repetitions: 1, EaseFactor: 2.36},
		},
		{
			name:    "second adequate review jumps to six days",
			quality: 5, repetitions: 1, easeFactor: 2.5, interval: 1,
			want: Result{Interval: 6, Repetitions: 2, EaseFactor: 2.6},
		},
		{
			name:    "third review multiplies by ease",
			quality: 3, repetitions: 2, easeFactor: 2.6, interval: 6,
			want: Result{Interval: 16, Repetitions: 3, EaseFactor: 2.46},
		},
		{
			name:    "inadequate review resets the streak",
			quality: 0, repetitions: 4, easeFactor: 2.5, interval: 30,
			want: Result{Interval: 1, Repetitions: 0, EaseFactor: 1.7},
		},
		{
			name:    "inadequate review still updates ease",
			quality: 2, repetitions: 3, easeFactor: 2.0, interval: 10,
			want: Result{Interval: 1, Repetitions: 0, EaseFactor: 1.68},
		},
		{
			name:    "perfect quality raises ease",
			quality: 5, repetitions: 0, easeFactor: 2.5, interval: 1,
			want: Result{Interval: 1, Repetitions: 1, EaseFactor: 2.6},
		},
		{
			name:    "ease never drops below the floor",
			quality: 0, repetitions: 0, easeFactor: 1.3, interval: 1,
			want: Result{Interval: 1, Repetitions: 0, EaseFactor: 1.3},
		},
		{
			name:    "quality clamped from above",
			quality: 9, repetitions: 1, easeFactor: 2.5, interval: 1,
			want: Result{Interval: 6, Repetitions: 2, EaseFactor: 2.6},
		},
		{
			name:    "quality clamped from below",
			quality: -3, repetitions: 2, easeFactor: 2.5, interval: 6,
			want: Result{Interval: 1, Repetitions: 0, EaseFactor: 1.7},
		},
		{
			name:    "hand-edited garbage inputs clamped",
			quality: 3, repetitions: -7, easeFactor: 0.4, interval: -2,
			want: Result{Interval: 1, Repetitions: 1, EaseFactor: 1.3},
		},
		{
			name:    "interval rounds to nearest day",
			quality: 3, repetitions: 5, easeFactor: 1.5, interval: 3,
			want: Result{Interval: 5, Repetitions: 6, EaseFactor: 1.36},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.quality, tt.repetitions, tt.easeFactor, tt.interval)
			if got.Interval != tt.want.Interval {
				t.Errorf("Interval = %d, want %d", got.Interval, tt.want.Interval)
			}
			if got.Repetitions != tt.want.Repetitions {
				t.Errorf("Repetitions = %d, want %d", got.Repetitions, tt.want.Repetitions)
			}
			if !almostEqual(got.EaseFactor, tt.want.EaseFactor) {
				t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, tt.want.EaseFactor)
			}
		})
	}
}

func TestCalculateInvariantsHold(t *testing.T) {
	// Every combination of in-range inputs must produce in-range outputs.
	for q := -1; q <= 6; q++ {
		for reps := 0; reps <= 5; reps++ {
			for _, ef := range []float64{0.5, 1.3, 2.0, 2.5, 3.2} {
				for _, iv := range []int{0, 1, 6, 30, 365} {
					got := Calculate(q, reps, ef, iv)
					if got.Interval < 1 {
						t.Fatalf("Calculate(%d,%d,%v,%d).Interval = %d < 1", q, reps, ef, iv, got.Interval)
					}
					if got.Repetitions < 0 {
						t.Fatalf("Calculate(%d,%d,%v,%d).Repetitions = %d < 0", q, reps, ef, iv, got.Repetitions)
					}
					if got.EaseFactor < MinEaseFactor {
						t.Fatalf("Calculate(%d,%d,%v,%d).EaseFactor = %v < %v", q, reps, ef, iv, got.EaseFactor, MinEaseFactor)
					}
				}
			}
		}
	}
}

func TestCalculateSkipSequence(t *testing.T) {
	// Repeatedly skipping an entry keeps extending the interval while the
	// ease factor decays toward the floor.
	state := InitialValues()
	wantIntervals := []int{1, 6}
	for i, want := range wantIntervals {
		state = Calculate(int(Skip), state.Repetitions, state.EaseFactor, state.Interval)
		if state.Interval != want {
			t.Fatalf("skip %d: Interval = %d, want %d", i+1, state.Interval, want)
		}
	}
	prev := state.Interval
	for i := 0; i < 10; i++ {
		next := Calculate(int(Skip), state.Repetitions, state.EaseFactor, state.Interval)
		if next.Interval < prev {
			t.Fatalf("skip: interval shrank from %d to %d", prev, next.Interval)
		}
		if next.EaseFactor > state.EaseFactor {
			t.Fatalf("skip: ease grew from %v to %v", state.EaseFactor, next.EaseFactor)
		}
		prev = next.Interval
		state = next
	}
	if state.EaseFactor < MinEaseFactor {
		t.Fatalf("ease decayed below floor: %v", state.EaseFactor)
	}
}

func TestCalculateRatingChain(t *testing.T) {
	// A fresh entry skipped twice and then closed out as fruitful.
	state := InitialValues()

	state = Calculate(int(Skip), state.Repetitions, state.EaseFactor, state.Interval)
	if state.Interval != 1 || state.Repetitions != 1 || !almostEqual(state.EaseFactor, 2.36) {
		t.Fatalf("after first skip: %+v", state)
	}

	state = Calculate(int(Skip), state.Repetitions, state.EaseFactor, state.Interval)
	if state.Interval != 6 || state.Repetitions != 2 || !almostEqual(state.EaseFactor, 2.22) {
		t.Fatalf("after second skip: %+v", state)
	}

	state = Calculate(int(Fruitful), state.Repetitions, state.EaseFactor, state.Interval)
	if state.Interval != 1 || state.Repetitions != 0 || !almostEqual(state.EaseFactor, 1.42) {
		t.Fatalf("after fruitful: %+v", state)
	}
}

func TestCalculateFruitfulAlwaysResets(t *testing.T) {
	state := Result{Interval: 42, Repetitions: 7, EaseFactor: 2.8}
	got := Calculate(int(Fruitful), state.Repetitions, state.EaseFactor, state.Interval)
	if got.Interval != 1 || got.Repetitions != 0 {
		t.Errorf("fruitful: got interval %d reps %d, want 1 and 0", got.Interval, got.Repetitions)
	}
	if !almostEqual(got.EaseFactor, 2.0) {
		t.Errorf("fruitful: EaseFactor = %v, want 2.0", got.EaseFactor)
	}
}

func TestNextReviewDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	ref := time.Date(2025, 3, 8, 22, 0, 0, 0, loc)
	got := NextReviewDate(ref, 1)
	// March 9 is a DST transition in New York; the calendar day still
	// advances by exactly one.
	if got.Day() != 9 || got.Month() != time.March {
		t.Errorf("NextReviewDate = %v, want March 9", got)
	}
	if got.Hour() != 22 {
		t.Errorf("NextReviewDate hour = %d, want 22", got.Hour())
	}
}

func TestEndOfDay(t *testing.T) {
	ref := time.Date(2025, 6, 15, 9, 30, 0, 0, time.Local)
	got := EndOfDay(ref)
	if got.Day() != 15 || got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("EndOfDay = %v", got)
	}
	if !got.After(ref) {
		t.Errorf("EndOfDay %v not after ref %v", got, ref)
	}
	next := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)
	if !got.Before(next) {
		t.Errorf("EndOfDay %v crossed into the next day", got)
	}
}
