// Package engine computes weekly energy and carbon figures for the
// fleet: baseline power integration over an accounting window, event
// overlay adjustment, inventory reconciliation, and aggregation.
package engine

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a window's end precedes its start.
// Callers never construct such a window from normal inputs; hitting it
// is a precondition violation, not a data problem.
var ErrInvalidWindow = errors.New("window end precedes start")

// Window is a half-open accounting interval [Start, End) in naive time.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and builds a window. End equal to Start is a
// legal zero-length window that integrates to zero energy.
func NewWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: %s before %s", ErrInvalidWindow, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Window{Start: start, End: end}, nil
}

// LastDays returns the canonical trailing window ending at asOf.
// The weekly report uses LastDays(now, 7).
func LastDays(asOf time.Time, days int) Window {
	return Window{Start: asOf.AddDate(0, 0, -days), End: asOf}
}

// Hours is the window length in hours.
func (w Window) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// Contains reports whether an instant falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// eachHourSlice walks the window as maximal sub-intervals aligned to
// hour boundaries; the first and last slice may be partial hours. For
// each slice it yields the slice bounds. The hour-of-day at a slice's
// start decides which power rate applies to the whole slice.
func (w Window) eachHourSlice(fn func(sliceStart, sliceEnd time.Time)) {
	current := w.Start
	for current.Before(w.End) {
		next := current.Truncate(time.Hour).Add(time.Hour)
		if next.After(w.End) {
			next = w.End
		}
		fn(current, next)
		current = next
	}
}
