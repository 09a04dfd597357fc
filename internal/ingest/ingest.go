// Package ingest consumes input event documents: it validates the
// top-level shape, asks the prediction collaborator to score each
// event, and upserts the enriched events into the store.
package ingest

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/store"
)

// InputEvent is one event as it arrives in an input document.
type InputEvent struct {
	EventID        string         `json:"event_id" validate:"required"`
	EventType      string         `json:"event_type" validate:"required"`
	TimestampStart string         `json:"timestamp_start_event" validate:"required"`
	TimestampEnd   string         `json:"timestamp_end_event"`
	Duration       store.Duration `json:"duration_event"`
}

// InputResource is one keyed entry of an input document.
type InputResource struct {
	Type   fleet.ResourceType `json:"type" validate:"required,oneof=server workstation automate internet_gateway"`
	Events []InputEvent       `json:"events" validate:"dive"`
}

// Document maps resource ids to their incoming events.
type Document map[string]InputResource

// Error marks a malformed input document. It is fatal: a document that
// cannot be trusted at the top level is never partially ingested.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("malformed input document: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// ParseDocument decodes and validates an input document. Per-event
// timestamp oddities are tolerated here (the engine handles them as
// parse warnings); only structural problems are fatal.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Err: err}
	}

	v := validator.New()
	for id, res := range doc {
		if err := v.Struct(res); err != nil {
			return nil, &Error{Err: fmt.Errorf("resource %s: %w", id, err)}
		}
	}
	return doc, nil
}

// Predictor scores one event's failure probability. Implementations
// never fail; an unavailable collaborator resolves to a deterministic
// severity table.
type Predictor interface {
	PredictFailureProbability(ctx context.Context, resourceType fleet.ResourceType, ev store.Event) float64
}

// Ingestor drives one ingestion pass.
type Ingestor struct {
	store     *store.Store
	predictor Predictor
	logger    zerolog.Logger
}

// New builds an ingestor.
func New(st *store.Store, predictor Predictor, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:     st,
		predictor: predictor,
		logger:    logger.With().Str("component", "ingest").Logger(),
	}
}

// Run scores and upserts every event in the document, then saves the
// store once. A save failure degrades the run (events computed but not
// durable) and is returned for the caller to log; it does not abort
// report generation.
func (i *Ingestor) Run(ctx context.Context, doc Document) error {
	var events int
	for resourceID, res := range doc {
		for _, in := range res.Events {
			ev := store.Event{
				EventID:        in.EventID,
				EventType:      in.EventType,
				TimestampStart: in.TimestampStart,
				TimestampEnd:   in.TimestampEnd,
				Duration:       in.Duration,
			}
			probability := i.predictor.PredictFailureProbability(ctx, res.Type, ev)
			ev.FailureProbability = &probability

			i.store.Upsert(resourceID, res.Type, ev)
			events++
		}
		i.logger.Debug().
			Str("resource_id", resourceID).
			Str("type", string(res.Type)).
			Int("events", len(res.Events)).
			Msg("resource ingested")
	}

	i.logger.Info().Int("resources", len(doc)).Int("events", events).Msg("ingestion complete")

	if err := i.store.Save(); err != nil {
		return fmt.Errorf("event store not saved, run degraded: %w", err)
	}
	return nil
}
