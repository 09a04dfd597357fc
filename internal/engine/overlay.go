package engine

import (
	"strings"
	"time"

	"fleetcarbon/internal/fleet"
)

// Modifier values applied to base power while an event class is active.
// Concurrent events add their modifiers; the sum is floored at
// stopModifier so power never goes negative, with no upper ceiling.
const (
	stopModifier     = -1.0
	overloadModifier = 0.25
	updateModifier   = 0.10
)

// eventModifier classifies an event type into its power modifier.
// Stop-class events (maintenance stops, failures) suppress the
// resource entirely; overloads and updates raise draw.
func eventModifier(eventType string) float64 {
	switch {
	case strings.Contains(eventType, "maintenance_stop") || strings.Contains(eventType, "failure"):
		return stopModifier
	case eventType == "cpu_overflow" || eventType == "cpu_overload":
		return overloadModifier
	case strings.Contains(eventType, "update"):
		return updateModifier
	default:
		return 0
	}
}

// AdjustedEnergy recomputes a resource's energy over the window with
// its events overlaid, and returns watt-hours, never negative.
//
// It walks the same hour-aligned sub-intervals as BaseEnergy. For each
// sub-interval the modifiers of every event whose effective interval
// overlaps it are summed, floored at -1.0, and applied to the base
// rate for the whole sub-interval. Events whose start instant is
// outside the window are excluded up front.
func AdjustedEnergy(cfg fleet.Config, t fleet.ResourceType, w Window, events []Event) float64 {
	profile := cfg.Profile(t)

	active := events[:0:0]
	for _, ev := range events {
		if w.Contains(ev.Start) {
			active = append(active, ev)
		}
	}

	var energy float64
	w.eachHourSlice(func(sliceStart, sliceEnd time.Time) {
		power := basePower(cfg, profile, sliceStart)

		var modifier float64
		for _, ev := range active {
			if ev.overlaps(sliceStart, sliceEnd) {
				modifier += eventModifier(ev.Type)
			}
		}
		if modifier < stopModifier {
			modifier = stopModifier
		}

		energy += power * (1 + modifier) * sliceEnd.Sub(sliceStart).Hours()
	})

	// Partial-hour overlaps can in principle still sum below zero
	// through rounding; clamp the whole result as well.
	if energy < 0 {
		return 0
	}
	return energy
}
