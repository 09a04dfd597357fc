package report

import (
	"sort"

	"fleetcarbon/internal/engine"
	"fleetcarbon/internal/llm"
)

// topEmitters ranks all instances by CO2 descending, ties broken by
// stable input order, and keeps the top n as narrative candidates.
func topEmitters(records []engine.Record, emissionFactor float64, n int) []llm.ResourceBrief {
	ranked := make([]llm.ResourceBrief, 0, len(records))
	for _, r := range records {
		ranked = append(ranked, llm.ResourceBrief{
			ID:                 r.ResourceID,
			Type:               r.Type,
			CO2Kg:              r.CO2Kg(emissionFactor),
			EnergyKWh:          r.EnergyKWh(),
			FailureProbability: r.FailureProbability,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CO2Kg > ranked[j].CO2Kg
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// riskRanked keeps instances whose average failure probability exceeds
// the threshold, sorted descending, top n. Instances with no scored
// events have probability zero and never qualify.
func riskRanked(records []engine.Record, emissionFactor, threshold float64, n int) []llm.ResourceBrief {
	var risky []llm.ResourceBrief
	for _, r := range records {
		if r.FailureProbability > threshold {
			risky = append(risky, llm.ResourceBrief{
				ID:                 r.ResourceID,
				Type:               r.Type,
				CO2Kg:              r.CO2Kg(emissionFactor),
				EnergyKWh:          r.EnergyKWh(),
				FailureProbability: r.FailureProbability,
			})
		}
	}
	sort.SliceStable(risky, func(i, j int) bool {
		return risky[i].FailureProbability > risky[j].FailureProbability
	})
	if len(risky) > n {
		risky = risky[:n]
	}
	return risky
}
