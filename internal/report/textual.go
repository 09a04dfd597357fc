package report

import (
	"fmt"
	"sort"
	"strings"

	"fleetcarbon/internal/engine"
	"fleetcarbon/internal/fleet"
)

const (
	ruleHeavy = "================================================================================"
	ruleLight = "--------------------------------------------------------------------------------"
	ruleGroup = "----------------------------------------"
)

// resourceDetail is one row of the textual per-resource table.
type resourceDetail struct {
	ID          string
	Type        fleet.ResourceType
	CO2Kg       float64
	EnergyKWh   float64
	FailureProb float64
	EventsCount int
}

// detailRows converts run records into table rows grouped by type and
// sorted by CO2 descending inside each group.
func detailRows(records []engine.Record, emissionFactor float64) []resourceDetail {
	rows := make([]resourceDetail, 0, len(records))
	for _, r := range records {
		rows = append(rows, resourceDetail{
			ID:          r.ResourceID,
			Type:        r.Type,
			CO2Kg:       r.CO2Kg(emissionFactor),
			EnergyKWh:   r.EnergyKWh(),
			FailureProb: r.FailureProbability,
			EventsCount: r.EventsCount,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Type != rows[j].Type {
			return rows[i].Type < rows[j].Type
		}
		return rows[i].CO2Kg > rows[j].CO2Kg
	})
	return rows
}

// buildTextual renders the fixed-section textual report: header,
// period metadata, executive summary, per-type CO2, the per-resource
// table grouped by type, and the three recommendations.
func buildTextual(cfg fleet.Config, meta Metadata, summary engine.Summary, rows []resourceDetail, advices []string) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(ruleHeavy)
	line("CO2 EMISSION REPORT - WEEKLY SUMMARY")
	line(ruleHeavy)
	line("")
	line("Report Period: %s to %s", meta.ReportPeriod.Start, meta.ReportPeriod.End)
	line("Generated At: %s", meta.GeneratedAt)
	line("")

	line(ruleLight)
	line("EXECUTIVE SUMMARY")
	line(ruleLight)
	line("Total CO2 Emissions: %.2f kg", summary.CO2TotalKg)
	line("Total Energy Consumption: %.2f kWh", summary.TotalKWh)
	line("")

	line(ruleLight)
	line("CO2 EMISSIONS BY RESOURCE CATEGORY")
	line(ruleLight)
	for _, t := range fleet.Types() {
		line("%s: %.2f kg CO2 (%d resources)", capitalize(string(t)), summary.CO2ByTypeKg[t], cfg.Count(t))
	}
	line("")

	line(ruleLight)
	line("CO2 EMISSIONS AND FAILURE PROBABILITY PER RESOURCE")
	line(ruleLight)
	line("")

	var currentType fleet.ResourceType
	first := true
	for _, row := range rows {
		if row.Type != currentType || first {
			if !first {
				line("")
			}
			currentType = row.Type
			first = false
			line("%s Resources:", strings.ToUpper(string(currentType)))
			line(ruleGroup)
		}
		line("  %-30s | CO2: %8.2f kg | Energy: %8.2f kWh | Failure Prob: %5.2f%% | Events: %d",
			row.ID, row.CO2Kg, row.EnergyKWh, row.FailureProb*100, row.EventsCount)
	}
	line("")

	line(ruleLight)
	line("RECOMMENDATIONS TO REDUCE CO2 EMISSIONS")
	line(ruleLight)
	line("")
	for i, advice := range advices {
		line("%d. %s", i+1, advice)
		line("")
	}

	line(ruleHeavy)

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
