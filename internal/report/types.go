// Package report ranks the computed records, assembles the structured
// CO2 report document and its textual rendering, and delegates only the
// prose portions to the narrative collaborator.
package report

import (
	"math"

	"fleetcarbon/internal/fleet"
)

// Metadata identifies one generated report.
type Metadata struct {
	ReportID     string `json:"report_id"`
	GeneratedAt  string `json:"generated_at"`
	ReportPeriod Period `json:"report_period"`
	ReportType   string `json:"report_type"`
}

// Period is the accounting window in wire form.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// EnergyConsumption is the energy section of the report.
type EnergyConsumption struct {
	TotalEnergyKWh       float64                        `json:"total_energy_kwh"`
	TotalEnergyWh        float64                        `json:"total_energy_wh"`
	EnergyByResourceType map[fleet.ResourceType]float64 `json:"energy_by_resource_type"`
}

// ResourceEnergy is one resource's derived energy record as reported.
type ResourceEnergy struct {
	Type             fleet.ResourceType `json:"type"`
	BaseEnergyWh     float64            `json:"base_energy_wh"`
	AdjustedEnergyWh float64            `json:"adjusted_energy_wh"`
	EventsCount      int                `json:"events_count"`
}

// TypeBreakdown is the detailed per-type section.
type TypeBreakdown struct {
	ResourceCount        int                       `json:"resource_count"`
	TotalCO2Kg           float64                   `json:"total_co2_kg"`
	TotalEnergyKWh       float64                   `json:"total_energy_kwh"`
	TotalEnergyWh        float64                   `json:"total_energy_wh"`
	AverageCO2PerResKg   float64                   `json:"average_co2_per_resource_kg"`
	Resources            map[string]ResourceEnergy `json:"resources"`
}

// DetailedBreakdown holds the per-type detail and the methodology note.
type DetailedBreakdown struct {
	ByResourceType map[fleet.ResourceType]TypeBreakdown `json:"by_resource_type"`
	Methodology    string                               `json:"methodology"`
}

// Report is the full output document.
type Report struct {
	ReportMetadata     Metadata                       `json:"report_metadata"`
	ExecutiveSummary   string                         `json:"executive_summary"`
	TotalCO2Kg         float64                        `json:"total_co2_emissions_kg"`
	CO2ByCategory      map[fleet.ResourceType]float64 `json:"co2_emissions_by_resource_category"`
	EnergyConsumption  EnergyConsumption              `json:"energy_consumption"`
	ResourceInventory  map[fleet.ResourceType]int     `json:"resource_inventory"`
	KeyFindings        []string                       `json:"key_findings"`
	Recommendations    []string                       `json:"recommendations"`
	DetailedBreakdown  DetailedBreakdown              `json:"detailed_breakdown"`
	AdditionalDetails  map[string]any                 `json:"additional_details,omitempty"`
	TextualReport      string                         `json:"textual_report"`
}

// round2 rounds at the presentation boundary only; all accumulation
// upstream stays full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
