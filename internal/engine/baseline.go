package engine

import (
	"time"

	"fleetcarbon/internal/fleet"
)

// BaseEnergy integrates a resource type's power profile over a window,
// ignoring events, and returns watt-hours.
//
// The calculation walks hour-aligned sub-intervals:
//  1. Always-on profiles draw a flat rate: watts × window hours.
//  2. Production/night profiles pick the rate by the hour-of-day at
//     each sub-interval's start: production watts inside the daily
//     window, night watts outside.
//  3. Energy per sub-interval = rate × sub-interval hours.
//
// A 7-day window for the default server profile integrates to exactly
// 7 × (12×100 + 12×70) = 14280 Wh.
func BaseEnergy(cfg fleet.Config, t fleet.ResourceType, w Window) float64 {
	profile := cfg.Profile(t)
	if profile.AlwaysOn {
		return profile.AlwaysOnWatts * w.Hours()
	}

	var energy float64
	w.eachHourSlice(func(sliceStart, sliceEnd time.Time) {
		energy += basePower(cfg, profile, sliceStart) * sliceEnd.Sub(sliceStart).Hours()
	})
	return energy
}

// basePower picks the profile rate in effect at an instant.
func basePower(cfg fleet.Config, profile fleet.PowerProfile, at time.Time) float64 {
	if profile.AlwaysOn {
		return profile.AlwaysOnWatts
	}
	if cfg.InProductionWindow(at.Hour()) {
		return profile.ProductionWatts
	}
	return profile.NightWatts
}
