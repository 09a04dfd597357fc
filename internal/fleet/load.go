package fleet

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file and merges it over Default.
// Only the sections present in the file override the defaults, so a
// deployment can pin just its emission factor or inventory.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading fleet config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML configuration over the defaults and validates the
// result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()

	var overlay struct {
		Profiles               map[ResourceType]PowerProfile `yaml:"profiles"`
		Inventory              map[ResourceType]int          `yaml:"inventory"`
		ProductionStartHour    *int                          `yaml:"production_start_hour"`
		ProductionEndHour      *int                          `yaml:"production_end_hour"`
		EmissionFactorKgPerKWh *float64                      `yaml:"emission_factor_kg_per_kwh"`
		RiskThreshold          *float64                      `yaml:"risk_threshold"`
		TopEmitters            *int                          `yaml:"top_emitters"`
		HighCO2ThresholdKg     *float64                      `yaml:"high_co2_threshold_kg"`
	}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Config{}, fmt.Errorf("parsing fleet config: %w", err)
	}

	for t, p := range overlay.Profiles {
		cfg.Profiles[t] = p
	}
	for t, n := range overlay.Inventory {
		cfg.Inventory[t] = n
	}
	if overlay.ProductionStartHour != nil {
		cfg.ProductionStartHour = *overlay.ProductionStartHour
	}
	if overlay.ProductionEndHour != nil {
		cfg.ProductionEndHour = *overlay.ProductionEndHour
	}
	if overlay.EmissionFactorKgPerKWh != nil {
		cfg.EmissionFactorKgPerKWh = *overlay.EmissionFactorKgPerKWh
	}
	if overlay.RiskThreshold != nil {
		cfg.RiskThreshold = *overlay.RiskThreshold
	}
	if overlay.TopEmitters != nil {
		cfg.TopEmitters = *overlay.TopEmitters
	}
	if overlay.HighCO2ThresholdKg != nil {
		cfg.HighCO2ThresholdKg = *overlay.HighCO2ThresholdKg
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid fleet config: %w", err)
	}
	return nil
}
