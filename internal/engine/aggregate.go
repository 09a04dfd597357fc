package engine

import (
	"fleetcarbon/internal/fleet"
)

// Record is the derived per-instance energy record for one run. It is
// recomputed every run and never persisted; only raw events are durable.
type Record struct {
	ResourceID         string
	Type               fleet.ResourceType
	BaseEnergyWh       float64
	AdjustedEnergyWh   float64
	EventsCount        int
	FailureProbability float64
	Synthesized        bool
}

// EnergyKWh is the adjusted energy in kilowatt-hours.
func (r Record) EnergyKWh() float64 { return r.AdjustedEnergyWh / 1000.0 }

// CO2Kg converts the record's adjusted energy to kilograms of CO2.
func (r Record) CO2Kg(emissionFactor float64) float64 {
	return r.EnergyKWh() * emissionFactor
}

// Summary is the fleet-wide rollup of one run. All fields accumulate at
// full precision; rounding to two decimals happens only at the
// presentation layer so error cannot compound across types.
type Summary struct {
	Window         Window
	TotalWh        float64
	TotalKWh       float64
	ByTypeWh       map[fleet.ResourceType]float64
	CO2TotalKg     float64
	CO2ByTypeKg    map[fleet.ResourceType]float64
	EmissionFactor float64
}

// Aggregate rolls per-instance records up into per-type and fleet-wide
// totals and converts energy to CO2 with the configured emission
// factor. The grand total is the sum over types, which matches the sum
// over instances within floating-point tolerance.
func Aggregate(cfg fleet.Config, w Window, records []Record) Summary {
	s := Summary{
		Window:         w,
		ByTypeWh:       make(map[fleet.ResourceType]float64, len(fleet.Types())),
		CO2ByTypeKg:    make(map[fleet.ResourceType]float64, len(fleet.Types())),
		EmissionFactor: cfg.EmissionFactorKgPerKWh,
	}
	for _, t := range fleet.Types() {
		s.ByTypeWh[t] = 0
		s.CO2ByTypeKg[t] = 0
	}

	for _, r := range records {
		s.ByTypeWh[r.Type] += r.AdjustedEnergyWh
	}
	for _, t := range fleet.Types() {
		s.TotalWh += s.ByTypeWh[t]
		s.CO2ByTypeKg[t] = s.ByTypeWh[t] / 1000.0 * cfg.EmissionFactorKgPerKWh
		s.CO2TotalKg += s.CO2ByTypeKg[t]
	}
	s.TotalKWh = s.TotalWh / 1000.0

	return s
}
