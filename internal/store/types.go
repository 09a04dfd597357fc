// Package store is the durable event store: a JSON document keyed by
// resource id, each entry holding the resource's type and its ordered
// event list. Events are upserted idempotently by event id; the raw
// events are the only authoritative state the system persists.
package store

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"fleetcarbon/internal/fleet"
)

// Duration is a wire-flexible duration in seconds: input documents carry
// it as either a JSON string or a number.
type Duration struct {
	raw string
	set bool
}

// NewDuration builds a set Duration from a seconds value.
func NewDuration(seconds float64) Duration {
	return Duration{raw: strconv.FormatFloat(seconds, 'f', -1, 64), set: true}
}

// Seconds parses the stored value as a non-negative number of seconds.
// The second return is false when the value is absent, unparsable, or
// negative.
func (d Duration) Seconds() (float64, bool) {
	if !d.set {
		return 0, false
	}
	v, err := strconv.ParseFloat(d.raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// String returns the raw wire value.
func (d Duration) String() string { return d.raw }

// IsZero reports whether the value was absent from the document.
func (d Duration) IsZero() bool { return !d.set }

// UnmarshalJSON accepts a JSON string or number.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Duration{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Duration{raw: s, set: true}
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or number: %w", err)
	}
	*d = NewDuration(n)
	return nil
}

// MarshalJSON writes the value back in its original string form so a
// load/save cycle does not rewrite documents.
func (d Duration) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.raw)
}

// Event is one stored operational event, in its wire shape. Timestamps
// stay as ISO-8601 strings here; the engine parses them and reports
// per-event warnings instead of failing the document.
type Event struct {
	EventID            string   `json:"event_id"`
	EventType          string   `json:"event_type"`
	TimestampStart     string   `json:"timestamp_start_event"`
	TimestampEnd       string   `json:"timestamp_end_event,omitempty"`
	Duration           Duration `json:"duration_event,omitempty"`
	StoredAt           string   `json:"stored_at,omitempty"`
	FailureProbability *float64 `json:"failure_probability,omitempty"`
}

// Resource is one keyed entry in the store document.
type Resource struct {
	Type      fleet.ResourceType `json:"type"`
	Events    []Event            `json:"events"`
	CreatedAt string             `json:"created_at,omitempty"`
	UpdatedAt string             `json:"updated_at,omitempty"`
}

// Document is the full persisted store shape.
type Document map[string]*Resource
