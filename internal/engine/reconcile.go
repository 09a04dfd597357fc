package engine

import (
	"fmt"

	"fleetcarbon/internal/fleet"
)

// Instance is one physical fleet member for a run: either a resource
// with recorded history or a synthesized stand-in for an instance that
// never produced an event.
type Instance struct {
	ID          string
	Type        fleet.ResourceType
	Events      []Event
	EventsCount int
	Synthesized bool
}

// Reconcile merges the configured inventory with the resources that
// actually recorded events. For each type it synthesizes "{type}_{n}"
// stand-ins (n from 1, skipping ids already taken by history) until the
// type's cardinality equals the configured count, so every physical
// instance contributes energy exactly once.
//
// History exceeding the configured count is a contract violation and
// fails loudly rather than silently truncating the fleet.
func Reconcile(cfg fleet.Config, historical []Instance) ([]Instance, error) {
	byType := make(map[fleet.ResourceType]int)
	taken := make(map[string]bool, len(historical))
	for _, inst := range historical {
		byType[inst.Type]++
		taken[inst.ID] = true
	}

	out := make([]Instance, 0, totalCount(cfg))
	out = append(out, historical...)

	for _, t := range fleet.Types() {
		want := cfg.Count(t)
		have := byType[t]
		if have > want {
			return nil, fmt.Errorf("inventory overflow: %d %s resources recorded history but fleet is configured for %d", have, t, want)
		}

		counter := 1
		for i := 0; i < want-have; i++ {
			var id string
			for {
				id = fmt.Sprintf("%s_%d", t, counter)
				counter++
				if !taken[id] {
					break
				}
			}
			taken[id] = true
			out = append(out, Instance{ID: id, Type: t, Synthesized: true})
		}
	}
	return out, nil
}

func totalCount(cfg fleet.Config) int {
	var n int
	for _, t := range fleet.Types() {
		n += cfg.Count(t)
	}
	return n
}
