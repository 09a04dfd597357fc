package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Count(Server))
	assert.Equal(t, 20, cfg.Count(Workstation))
	assert.Equal(t, 5, cfg.Count(Automate))
	assert.Equal(t, 1, cfg.Count(InternetGateway))

	assert.Equal(t, 100.0, cfg.Profile(Server).ProductionWatts)
	assert.Equal(t, 70.0, cfg.Profile(Server).NightWatts)
	assert.Equal(t, 0.0, cfg.Profile(Workstation).NightWatts)
	assert.True(t, cfg.Profile(InternetGateway).AlwaysOn)
	assert.Equal(t, 50.0, cfg.Profile(InternetGateway).AlwaysOnWatts)

	assert.Equal(t, 0.5, cfg.EmissionFactorKgPerKWh)
}

func TestInProductionWindow(t *testing.T) {
	cfg := Default()

	tests := []struct {
		hour int
		want bool
	}{
		{0, false},
		{7, false},
		{8, true},  // inclusive start
		{12, true},
		{19, true},
		{20, false}, // exclusive end
		{23, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.InProductionWindow(tt.hour), "hour %d", tt.hour)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
emission_factor_kg_per_kwh: 0.25
inventory:
  server: 3
profiles:
  server:
    production_watts: 200
    night_watts: 50
`))
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.EmissionFactorKgPerKWh)
	assert.Equal(t, 3, cfg.Count(Server))
	assert.Equal(t, 200.0, cfg.Profile(Server).ProductionWatts)

	// Untouched sections keep their defaults.
	assert.Equal(t, 20, cfg.Count(Workstation))
	assert.Equal(t, 8, cfg.ProductionStartHour)
	assert.Equal(t, 0.3, cfg.RiskThreshold)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero inventory count", "inventory:\n  server: 0\n"},
		{"negative emission factor", "emission_factor_kg_per_kwh: -1\n"},
		{"window end before start", "production_start_hour: 20\nproduction_end_hour: 8\n"},
		{"unknown resource type", "inventory:\n  mainframe: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("inventory: [not a map"))
	assert.Error(t, err)
}
