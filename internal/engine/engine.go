package engine

import (
	"sort"

	"github.com/rs/zerolog"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/store"
)

// Engine runs one stateless accounting pass over a store snapshot. It
// never mutates stored events; each run is a pure computation over an
// immutable snapshot plus the fleet configuration.
type Engine struct {
	cfg    fleet.Config
	logger zerolog.Logger
}

// New builds an engine for one fleet configuration.
func New(cfg fleet.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// Config returns the fleet configuration the engine runs with.
func (e *Engine) Config() fleet.Config { return e.cfg }

// Result is the outcome of one accounting run: per-instance records in
// stable order (historical resources first, then synthesized stand-ins
// per type), the fleet rollup, and the parse warnings collected along
// the way.
type Result struct {
	Records  []Record
	Summary  Summary
	Warnings []*ParseError
}

// Run computes the full accounting pass for a window: parse and filter
// each resource's events, integrate baseline and adjusted energy,
// reconcile the inventory, and aggregate.
func (e *Engine) Run(snapshot store.Document, w Window) (Result, error) {
	historical, warnings := e.collectHistorical(snapshot, w)

	instances, err := Reconcile(e.cfg, historical)
	if err != nil {
		return Result{}, err
	}

	records := make([]Record, 0, len(instances))
	for _, inst := range instances {
		base := BaseEnergy(e.cfg, inst.Type, w)
		adjusted := base
		if len(inst.Events) > 0 {
			adjusted = AdjustedEnergy(e.cfg, inst.Type, w, inst.Events)
		}
		records = append(records, Record{
			ResourceID:         inst.ID,
			Type:               inst.Type,
			BaseEnergyWh:       base,
			AdjustedEnergyWh:   adjusted,
			EventsCount:        inst.EventsCount,
			FailureProbability: averageProbability(inst.Events),
			Synthesized:        inst.Synthesized,
		})
	}

	summary := Aggregate(e.cfg, w, records)

	for _, warn := range warnings {
		e.logger.Warn().
			Str("resource_id", warn.ResourceID).
			Str("event_id", warn.EventID).
			Str("field", warn.Field).
			Err(warn.Err).
			Msg("event skipped for energy adjustment")
	}
	e.logger.Info().
		Int("instances", len(records)).
		Int("warnings", len(warnings)).
		Float64("total_kwh", summary.TotalKWh).
		Float64("co2_kg", summary.CO2TotalKg).
		Msg("accounting run complete")

	return Result{Records: records, Summary: summary, Warnings: warnings}, nil
}

// collectHistorical parses every stored resource's events, keeping only
// events whose start instant falls inside the window. Resources keep
// their identity even when all of their events fall outside the window;
// they then integrate at baseline like any quiet instance.
func (e *Engine) collectHistorical(snapshot store.Document, w Window) ([]Instance, []*ParseError) {
	var warnings []*ParseError

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	instances := make([]Instance, 0, len(ids))
	for _, id := range ids {
		res := snapshot[id]

		var events []Event
		for _, raw := range res.Events {
			parsed, ok, warns := parseEvent(id, raw)
			warnings = append(warnings, warns...)
			if !ok {
				// Unparsable start: stays stored, nothing to overlay.
				continue
			}
			if !w.Contains(parsed.Start) {
				continue
			}
			events = append(events, parsed)
		}

		instances = append(instances, Instance{
			ID:          id,
			Type:        res.Type,
			Events:      events,
			EventsCount: len(events),
		})
	}
	return instances, warnings
}

// averageProbability averages the failure probabilities the predictor
// attached to a resource's in-window events. Events that were never
// scored do not dilute the average; a resource with no scored events
// has probability zero.
func averageProbability(events []Event) float64 {
	var sum float64
	var n int
	for _, ev := range events {
		if ev.FailureProbability != nil {
			sum += *ev.FailureProbability
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
