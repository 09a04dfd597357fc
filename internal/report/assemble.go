package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fleetcarbon/internal/engine"
	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/llm"
)

// Narrative is the collaborator surface the assembler needs. Both
// operations may fail; the assembler always has a deterministic answer
// of its own, so a collaborator failure never aborts report generation.
type Narrative interface {
	GenerateReportSummary(ctx context.Context, in llm.NarrativeInput) (llm.ReportNarrative, error)
	ReductionAdvice(ctx context.Context, in llm.NarrativeInput) ([]string, error)
}

// Assembler builds the structured and textual reports from one run's
// records and rollup.
type Assembler struct {
	cfg       fleet.Config
	narrative Narrative
	logger    zerolog.Logger

	// now is swappable so tests can pin generated_at.
	now func() time.Time
}

// NewAssembler builds a report assembler.
func NewAssembler(cfg fleet.Config, narrative Narrative, logger zerolog.Logger) *Assembler {
	return &Assembler{
		cfg:       cfg,
		narrative: narrative,
		logger:    logger.With().Str("component", "report").Logger(),
		now:       time.Now,
	}
}

// SetClock overrides the assembler's notion of now. Test hook.
func (a *Assembler) SetClock(now func() time.Time) { a.now = now }

// Assemble turns one engine result into the final report document,
// textual rendering included. The returned report is owned by the
// caller and immutable from the assembler's point of view.
func (a *Assembler) Assemble(ctx context.Context, result engine.Result) (Report, error) {
	summary := result.Summary

	in := llm.NarrativeInput{
		TotalCO2Kg:     summary.CO2TotalKg,
		TotalEnergyKWh: summary.TotalKWh,
		TotalEnergyWh:  summary.TotalWh,
		CO2ByType:      summary.CO2ByTypeKg,
		EnergyByTypeWh: summary.ByTypeWh,
		Inventory:      a.cfg.Inventory,
		TopEmitters:    topEmitters(result.Records, summary.EmissionFactor, a.cfg.TopEmitters),
		HighRisk:       riskRanked(result.Records, summary.EmissionFactor, a.cfg.RiskThreshold, a.cfg.TopEmitters),
	}

	narrative, err := a.narrative.GenerateReportSummary(ctx, in)
	if err != nil {
		a.logger.Warn().Err(err).Msg("narrative summary unavailable, using deterministic fallback")
		narrative = fallbackNarrative(a.cfg, in)
	}

	advices, err := a.narrative.ReductionAdvice(ctx, in)
	if err != nil {
		a.logger.Warn().Err(err).Msg("reduction advice unavailable, using deterministic fallback")
		advices = fallbackAdvice(a.cfg, in)
	}

	meta := Metadata{
		ReportID:    uuid.New().String(),
		GeneratedAt: a.now().Format(time.RFC3339),
		ReportPeriod: Period{
			Start: summary.Window.Start.Format(time.RFC3339),
			End:   summary.Window.End.Format(time.RFC3339),
			Days:  int(summary.Window.Hours() / 24),
		},
		ReportType: "CO2 Emission Report",
	}

	rows := detailRows(result.Records, summary.EmissionFactor)
	textual := buildTextual(a.cfg, meta, summary, rows, advices)

	report := Report{
		ReportMetadata:   meta,
		ExecutiveSummary: narrative.Summary,
		TotalCO2Kg:       round2(summary.CO2TotalKg),
		CO2ByCategory:    roundByType(summary.CO2ByTypeKg),
		EnergyConsumption: EnergyConsumption{
			TotalEnergyKWh:       round2(summary.TotalKWh),
			TotalEnergyWh:        round2(summary.TotalWh),
			EnergyByResourceType: roundByType(summary.ByTypeWh),
		},
		ResourceInventory: a.cfg.Inventory,
		KeyFindings:       narrative.KeyFindings,
		Recommendations:   advices,
		DetailedBreakdown: DetailedBreakdown{
			ByResourceType: a.typeBreakdown(result.Records, summary),
			Methodology:    fmt.Sprintf("Hourly power integration per resource type with event overlay; CO2 = energy (kWh) × %.2f kg CO2/kWh", summary.EmissionFactor),
		},
		AdditionalDetails: narrative.Details,
		TextualReport:     textual,
	}

	a.logger.Info().
		Str("report_id", meta.ReportID).
		Float64("co2_kg", report.TotalCO2Kg).
		Int("recommendations", len(advices)).
		Msg("report assembled")

	return report, nil
}

// typeBreakdown builds the detailed per-type section from the run's
// records. Synthesized instances are counted in the totals but only
// resources with history appear in the per-resource map, mirroring what
// the store can attest to.
func (a *Assembler) typeBreakdown(records []engine.Record, summary engine.Summary) map[fleet.ResourceType]TypeBreakdown {
	out := make(map[fleet.ResourceType]TypeBreakdown, len(fleet.Types()))
	for _, t := range fleet.Types() {
		resources := make(map[string]ResourceEnergy)
		for _, r := range records {
			if r.Type != t || r.Synthesized {
				continue
			}
			resources[r.ResourceID] = ResourceEnergy{
				Type:             r.Type,
				BaseEnergyWh:     round2(r.BaseEnergyWh),
				AdjustedEnergyWh: round2(r.AdjustedEnergyWh),
				EventsCount:      r.EventsCount,
			}
		}

		count := a.cfg.Count(t)
		co2 := summary.CO2ByTypeKg[t]
		avgDivisor := count
		if avgDivisor == 0 {
			avgDivisor = 1
		}
		out[t] = TypeBreakdown{
			ResourceCount:      count,
			TotalCO2Kg:         round2(co2),
			TotalEnergyKWh:     round2(summary.ByTypeWh[t] / 1000.0),
			TotalEnergyWh:      round2(summary.ByTypeWh[t]),
			AverageCO2PerResKg: round2(co2 / float64(avgDivisor)),
			Resources:          resources,
		}
	}
	return out
}

func roundByType(m map[fleet.ResourceType]float64) map[fleet.ResourceType]float64 {
	out := make(map[fleet.ResourceType]float64, len(m))
	for t, v := range m {
		out[t] = round2(v)
	}
	return out
}
