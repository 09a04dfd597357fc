package report

import (
	"fmt"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/llm"
)

// fallbackAdvice produces the deterministic three-recommendation set
// used whenever the narrative collaborator cannot. It inspects which
// type leads the CO2 breakdown, whether any risk-ranked resource
// exists, and whether total CO2 crosses the configured threshold, and
// always returns exactly three non-empty strings.
func fallbackAdvice(cfg fleet.Config, in llm.NarrativeInput) []string {
	advices := make([]string, 0, 3)

	var maxType fleet.ResourceType
	var maxCO2 float64
	for _, t := range fleet.Types() {
		if co2 := in.CO2ByType[t]; co2 > maxCO2 {
			maxCO2 = co2
			maxType = t
		}
	}
	switch maxType {
	case fleet.Server:
		advices = append(advices, "Consider server virtualization and consolidation to reduce the number of physical servers, potentially reducing CO2 emissions by 20-30%.")
	case fleet.Automate:
		advices = append(advices, "Optimize automate scheduling to reduce unnecessary runtime during non-production hours, reducing energy consumption.")
	case fleet.Workstation:
		advices = append(advices, "Implement workstation power management policies to automatically shut down or hibernate workstations during non-business hours.")
	default:
		advices = append(advices, "Implement power management policies across all IT resources to reduce energy consumption during idle periods.")
	}

	if len(in.HighRisk) > 0 {
		advices = append(advices, "Address high failure probability resources proactively to prevent unexpected downtime and optimize maintenance schedules, reducing overall energy waste.")
	} else {
		advices = append(advices, "Regularly monitor and maintain IT resources to ensure optimal energy efficiency and prevent energy waste from degraded performance.")
	}

	if in.TotalCO2Kg > cfg.HighCO2ThresholdKg {
		advices = append(advices, "Consider migrating to renewable energy sources or implementing energy-efficient hardware upgrades to significantly reduce carbon footprint.")
	} else {
		advices = append(advices, "Implement real-time energy monitoring to identify and address energy consumption anomalies and optimize resource utilization.")
	}

	return advices
}

// fallbackNarrative produces the deterministic report prose used when
// the collaborator cannot.
func fallbackNarrative(cfg fleet.Config, in llm.NarrativeInput) llm.ReportNarrative {
	details := make(map[string]any, len(in.CO2ByType))
	for t, co2 := range in.CO2ByType {
		details[string(t)] = round2(co2)
	}
	return llm.ReportNarrative{
		Summary: fmt.Sprintf("Total CO2 emissions: %.2f kg over %.2f kWh of electrical energy for the accounted fleet.", in.TotalCO2Kg, in.TotalEnergyKWh),
		KeyFindings: []string{
			"Energy consumption calculated from per-type power profiles adjusted by recorded operational events.",
		},
		Recommendations: fallbackAdvice(cfg, in),
		Details:         details,
	}
}
