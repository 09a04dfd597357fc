package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"fleetcarbon/internal/fleet"
)

// Store owns the keyed event document and its JSON file. It is not safe
// for concurrent use; a run takes a snapshot and works on that.
type Store struct {
	path   string
	data   Document
	logger zerolog.Logger

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// Open loads the store at path. A missing file yields an empty store;
// an unreadable or corrupt file is an error.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		data:   Document{},
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading event store %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decoding event store %s: %w", path, err)
	}
	s.logger.Debug().Int("resources", len(s.data)).Msg("event store loaded")
	return s, nil
}

// SetClock overrides the store's notion of now. Test hook.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Upsert inserts or replaces one event on a resource, keyed by event id.
// The resource entry is created on first use. An event whose id already
// exists is replaced in place rather than appended, so re-ingesting the
// same document never doubles the event count. updated_at advances only
// when the stored content actually changes.
func (s *Store) Upsert(resourceID string, resourceType fleet.ResourceType, ev Event) {
	now := s.now().Format(time.RFC3339)

	res, ok := s.data[resourceID]
	if !ok {
		res = &Resource{
			Type:      resourceType,
			Events:    []Event{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.data[resourceID] = res
	}

	if ev.StoredAt == "" {
		ev.StoredAt = now
	}

	for i, existing := range res.Events {
		if existing.EventID != ev.EventID {
			continue
		}
		// Keep the original stored_at so an identical re-upsert
		// compares equal and stays a no-op.
		ev.StoredAt = existing.StoredAt
		if eventsEqual(existing, ev) {
			return
		}
		res.Events[i] = ev
		res.UpdatedAt = now
		return
	}

	res.Events = append(res.Events, ev)
	res.UpdatedAt = now
}

// Save writes the whole document once, indented, replacing the file.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding event store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing event store %s: %w", s.path, err)
	}
	s.logger.Debug().Int("resources", len(s.data)).Str("path", s.path).Msg("event store saved")
	return nil
}

// Snapshot returns a deep copy of the document. The engine only ever
// reads snapshots; nothing downstream can mutate stored events.
func (s *Store) Snapshot() Document {
	out := make(Document, len(s.data))
	for id, res := range s.data {
		cp := *res
		cp.Events = make([]Event, len(res.Events))
		copy(cp.Events, res.Events)
		out[id] = &cp
	}
	return out
}

// Resource returns a copy of one resource entry, or nil if absent.
func (s *Store) Resource(resourceID string) *Resource {
	res, ok := s.data[resourceID]
	if !ok {
		return nil
	}
	cp := *res
	cp.Events = make([]Event, len(res.Events))
	copy(cp.Events, res.Events)
	return &cp
}

// Len returns the number of resources with stored history.
func (s *Store) Len() int { return len(s.data) }

func eventsEqual(a, b Event) bool {
	if a.EventID != b.EventID || a.EventType != b.EventType ||
		a.TimestampStart != b.TimestampStart || a.TimestampEnd != b.TimestampEnd ||
		a.Duration.String() != b.Duration.String() || a.StoredAt != b.StoredAt {
		return false
	}
	if (a.FailureProbability == nil) != (b.FailureProbability == nil) {
		return false
	}
	return a.FailureProbability == nil || *a.FailureProbability == *b.FailureProbability
}
