package engine

import (
	"fmt"
	"strings"
	"time"

	"fleetcarbon/internal/store"
)

// Event is a stored event after wire parsing: instants resolved, the
// effective interval computed, and the modifier classification ready to
// apply.
type Event struct {
	ID    string
	Type  string
	Start time.Time
	// End is the effective end of the event interval: the explicit end
	// timestamp when present, otherwise Start plus the parsed duration,
	// otherwise Start (a zero-length instant).
	End                time.Time
	DurationSeconds    float64
	FailureProbability *float64
}

// ParseError marks one event that could not be fully parsed. The event
// stays in storage and still counts toward events_count; it just
// contributes nothing to the energy adjustment.
type ParseError struct {
	ResourceID string
	EventID    string
	Field      string
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("event %s on %s: bad %s: %v", e.EventID, e.ResourceID, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// naiveLayouts are the accepted timestamp shapes. Any timezone suffix is
// normalized away after parsing: only the literal wall-clock fields
// matter for the production window.
var naiveLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseNaiveTime parses an ISO-8601 timestamp and strips any timezone,
// keeping the wall-clock fields as written.
func parseNaiveTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseEvent resolves one stored event. An unparsable start timestamp
// makes the event unusable (ok=false, with a ParseError); an unparsable
// duration degrades the event to a zero-length instant that stays
// stored and counted but contributes nothing to overlap math.
func parseEvent(resourceID string, raw store.Event) (Event, bool, []*ParseError) {
	var warnings []*ParseError

	start, err := parseNaiveTime(raw.TimestampStart)
	if err != nil {
		return Event{}, false, []*ParseError{{
			ResourceID: resourceID,
			EventID:    raw.EventID,
			Field:      "timestamp_start_event",
			Err:        err,
		}}
	}

	seconds, durationOK := raw.Duration.Seconds()
	if !durationOK && !raw.Duration.IsZero() {
		// An unparsable duration keeps the event stored and counted but
		// excludes it from overlap math entirely.
		warnings = append(warnings, &ParseError{
			ResourceID: resourceID,
			EventID:    raw.EventID,
			Field:      "duration_event",
			Err:        fmt.Errorf("unparsable duration %q", raw.Duration.String()),
		})
		return Event{
			ID:                 raw.EventID,
			Type:               raw.EventType,
			Start:              start,
			End:                start,
			FailureProbability: raw.FailureProbability,
		}, true, warnings
	}

	end := start
	if raw.TimestampEnd != "" {
		parsedEnd, endErr := parseNaiveTime(raw.TimestampEnd)
		if endErr != nil {
			warnings = append(warnings, &ParseError{
				ResourceID: resourceID,
				EventID:    raw.EventID,
				Field:      "timestamp_end_event",
				Err:        endErr,
			})
		} else if parsedEnd.After(start) {
			end = parsedEnd
		}
	}
	if end.Equal(start) && seconds > 0 {
		end = start.Add(time.Duration(seconds * float64(time.Second)))
	}

	return Event{
		ID:                 raw.EventID,
		Type:               raw.EventType,
		Start:              start,
		End:                end,
		DurationSeconds:    seconds,
		FailureProbability: raw.FailureProbability,
	}, true, warnings
}

// overlaps reports whether the event's effective interval has non-empty
// overlap with [sliceStart, sliceEnd). Zero-length events overlap
// nothing.
func (e Event) overlaps(sliceStart, sliceEnd time.Time) bool {
	if !e.End.After(e.Start) {
		return false
	}
	return e.Start.Before(sliceEnd) && e.End.After(sliceStart)
}
