package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcarbon/internal/fleet"
)

func TestAggregateTotalsMatchByType(t *testing.T) {
	cfg := fleet.Default()
	w := week()

	records := []Record{
		{ResourceID: "server_1", Type: fleet.Server, AdjustedEnergyWh: 14280},
		{ResourceID: "server_2", Type: fleet.Server, AdjustedEnergyWh: 14080.5},
		{ResourceID: "workstation_1", Type: fleet.Workstation, AdjustedEnergyWh: 5040},
		{ResourceID: "automate_1", Type: fleet.Automate, AdjustedEnergyWh: 25200.25},
		{ResourceID: "internet_gateway_1", Type: fleet.InternetGateway, AdjustedEnergyWh: 8400},
	}

	s := Aggregate(cfg, w, records)

	var byTypeSum float64
	for _, rt := range fleet.Types() {
		byTypeSum += s.ByTypeWh[rt]
	}
	require.NotZero(t, s.TotalWh)
	assert.InEpsilon(t, s.TotalWh, byTypeSum, 1e-6, "sum of by_type_wh must equal total_wh")

	assert.InDelta(t, s.TotalWh/1000.0, s.TotalKWh, 1e-12)
	assert.InDelta(t, s.TotalKWh*cfg.EmissionFactorKgPerKWh, s.CO2TotalKg, 1e-9)

	assert.InDelta(t, 14280+14080.5, s.ByTypeWh[fleet.Server], 1e-9)
	assert.InDelta(t, (14280+14080.5)/1000.0*0.5, s.CO2ByTypeKg[fleet.Server], 1e-9)
}

func TestAggregateEmptyRun(t *testing.T) {
	cfg := fleet.Default()
	s := Aggregate(cfg, week(), nil)

	assert.Zero(t, s.TotalWh)
	assert.Zero(t, s.CO2TotalKg)
	for _, rt := range fleet.Types() {
		_, ok := s.ByTypeWh[rt]
		assert.True(t, ok, "every type present even at zero")
	}
}

func TestAggregateUsesConfiguredEmissionFactor(t *testing.T) {
	cfg := fleet.Default()
	cfg.EmissionFactorKgPerKWh = 0.25

	records := []Record{{ResourceID: "server_1", Type: fleet.Server, AdjustedEnergyWh: 2000}}
	s := Aggregate(cfg, week(), records)

	assert.InDelta(t, 0.5, s.CO2TotalKg, 1e-12)
	assert.Equal(t, 0.25, s.EmissionFactor)
}

func TestAggregateKeepsFullPrecision(t *testing.T) {
	cfg := fleet.Default()

	// Values with more than two decimals must not round internally.
	records := []Record{
		{ResourceID: "a", Type: fleet.Server, AdjustedEnergyWh: 0.004},
		{ResourceID: "b", Type: fleet.Server, AdjustedEnergyWh: 0.004},
	}
	s := Aggregate(cfg, week(), records)
	assert.InDelta(t, 0.008, s.TotalWh, 1e-12)
	assert.False(t, math.Signbit(s.TotalWh))
}

func TestRecordConversions(t *testing.T) {
	r := Record{AdjustedEnergyWh: 14280}
	assert.InDelta(t, 14.28, r.EnergyKWh(), 1e-12)
	assert.InDelta(t, 7.14, r.CO2Kg(0.5), 1e-12)
}
