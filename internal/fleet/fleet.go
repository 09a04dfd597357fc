// Package fleet defines the fixed IT fleet the accounting engine reports
// on: resource types, their power profiles, inventory counts, and the
// conversion constants used to turn energy into carbon.
package fleet

// ResourceType identifies a category of IT resource in the fleet.
type ResourceType string

const (
	// Server is a rack server: 100 W in production, 70 W at night.
	Server ResourceType = "server"

	// Workstation is a desk machine: 60 W in production, off at night.
	Workstation ResourceType = "workstation"

	// Automate is an automation cell: 300 W in production, off at night.
	Automate ResourceType = "automate"

	// InternetGateway is the single always-on gateway appliance: 50 W.
	InternetGateway ResourceType = "internet_gateway"
)

// Types lists all known resource types in canonical report order.
func Types() []ResourceType {
	return []ResourceType{Server, Workstation, Automate, InternetGateway}
}

// PowerProfile describes how much power a resource type draws.
//
// A profile is either gated by the daily production window
// (ProductionWatts during the window, NightWatts outside it) or flat
// (AlwaysOn set, AlwaysOnWatts around the clock).
type PowerProfile struct {
	ProductionWatts float64 `yaml:"production_watts" validate:"gte=0"`
	NightWatts      float64 `yaml:"night_watts" validate:"gte=0"`
	AlwaysOn        bool    `yaml:"always_on"`
	AlwaysOnWatts   float64 `yaml:"always_on_watts" validate:"gte=0"`
}

// Config is the immutable configuration for one accounting run.
// Construct it once (Default or Load) and pass it by value; nothing in
// the engine mutates it.
type Config struct {
	// Profiles maps each resource type to its power profile.
	Profiles map[ResourceType]PowerProfile `yaml:"profiles" validate:"required,dive,keys,oneof=server workstation automate internet_gateway,endkeys,required"`

	// Inventory is the fixed number of physical instances per type.
	// Every instance contributes energy exactly once per run, whether or
	// not it ever recorded an event.
	Inventory map[ResourceType]int `yaml:"inventory" validate:"required,dive,keys,oneof=server workstation automate internet_gateway,endkeys,gt=0"`

	// ProductionStartHour and ProductionEndHour bound the daily
	// production window [start, end) by hour-of-day, naive local time.
	ProductionStartHour int `yaml:"production_start_hour" validate:"gte=0,lte=23"`
	ProductionEndHour   int `yaml:"production_end_hour" validate:"gte=1,lte=24,gtfield=ProductionStartHour"`

	// EmissionFactorKgPerKWh converts energy to carbon. Default 0.5 is a
	// regional grid average; override per deployment.
	EmissionFactorKgPerKWh float64 `yaml:"emission_factor_kg_per_kwh" validate:"gt=0"`

	// RiskThreshold is the average failure probability above which a
	// resource appears in the risk ranking.
	RiskThreshold float64 `yaml:"risk_threshold" validate:"gte=0,lte=1"`

	// TopEmitters is how many resources the emission and risk rankings
	// keep for the narrative collaborator.
	TopEmitters int `yaml:"top_emitters" validate:"gt=0"`

	// HighCO2ThresholdKg steers the fallback recommendation between a
	// renewable-energy advice and a monitoring advice.
	HighCO2ThresholdKg float64 `yaml:"high_co2_threshold_kg" validate:"gt=0"`
}

// Default returns the production fleet configuration.
func Default() Config {
	return Config{
		Profiles: map[ResourceType]PowerProfile{
			Server:          {ProductionWatts: 100, NightWatts: 70},
			Workstation:     {ProductionWatts: 60, NightWatts: 0},
			Automate:        {ProductionWatts: 300, NightWatts: 0},
			InternetGateway: {AlwaysOn: true, AlwaysOnWatts: 50},
		},
		Inventory: map[ResourceType]int{
			Server:          10,
			Workstation:     20,
			Automate:        5,
			InternetGateway: 1,
		},
		ProductionStartHour:    8,
		ProductionEndHour:      20,
		EmissionFactorKgPerKWh: 0.5,
		RiskThreshold:          0.3,
		TopEmitters:            5,
		HighCO2ThresholdKg:     200,
	}
}

// Profile returns the power profile for a type. Unknown types get a
// zero profile, which integrates to zero energy.
func (c Config) Profile(t ResourceType) PowerProfile {
	return c.Profiles[t]
}

// Count returns the configured instance count for a type.
func (c Config) Count(t ResourceType) int {
	return c.Inventory[t]
}

// InProductionWindow reports whether an hour-of-day falls inside the
// daily production window [start, end).
func (c Config) InProductionWindow(hour int) bool {
	return hour >= c.ProductionStartHour && hour < c.ProductionEndHour
}
