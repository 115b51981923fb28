// Package sm2 implements the SM-2 spaced-repetition scheduling algorithm.
//
// The package is pure: no I/O, no mutable state. Inputs are defensively
// clamped on every call because the scheduling fields live in Markdown
// metadata that a writer may hand-edit at any time.
package sm2

import (
	"math"
	"time"
)

// InitialEaseFactor is the ease factor assigned to a brand-new entry.
const InitialEaseFactor = 2.5

// MinEaseFactor is the floor below which the ease factor never drops.
const MinEaseFactor = 1.3

// Result holds the scheduling fields produced by one SM-2 application.
type Result struct {
	Interval    int     // days until the next review, >= 1
	Repetitions int     // consecutive adequate reviews, >= 0
	EaseFactor  float64 // difficulty multiplier, >= 1.3
}

// InitialValues returns the scheduling fields for a newly created entry.
func InitialValues() Result {
	return Result{Interval: 1, Repetitions: 0, EaseFactor: InitialEaseFactor}
}

// Calculate applies one SM-2 update.
//
// quality >= 3 counts as an adequate recall and extends the streak
// (intervals 1, 6, then round(interval × ease)); quality < 3 resets the
// streak to interval 1. The ease factor update runs in both branches and
// is floored at MinEaseFactor.
func Calculate(quality, repetitions int, easeFactor float64, interval int) Result {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}
	if repetitions < 0 {
		repetitions = 0
	}
	if easeFactor < MinEaseFactor {
		easeFactor = MinEaseFactor
	}
	if interval < 1 {
		interval = 1
	}

	var out Result
	if quality >= 3 {
		switch repetitions {
		case 0:
			out.Interval = 1
		case 1:
			out.Interval = 6
		default:
			out.Interval = int(math.Round(float64(interval) * easeFactor))
		}
		out.Repetitions = repetitions + 1
	} else {
		out.Repetitions = 0
		out.Interval = 1
	}

	q := float64(quality)
	out.EaseFactor = easeFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if out.EaseFactor < MinEaseFactor {
		out.EaseFactor = MinEaseFactor
	}

	return out
}

// NextReviewDate returns ref plus intervalDays calendar days, evaluated in
// ref's location so the interval tracks the day the review happened rather
// than UTC midnight.
func NextReviewDate(ref time.Time, intervalDays int) time.Time {
	return ref.AddDate(0, 0, intervalDays)
}

// EndOfDay returns the last instant of ref's local calendar day. Due-ness
// is evaluated against this boundary so entries scheduled for "today"
// surface regardless of the hour the review happens.
func EndOfDay(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), ref.Location())
}
