package llm

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"fleetcarbon/internal/fleet"
)

// ErrOffline is returned by narrative operations when no collaborator
// is configured; callers substitute their deterministic fallback.
var ErrOffline = errors.New("narrative collaborator not configured")

// ResourceBrief is the per-resource slice of a ranking passed to the
// narrative collaborator.
type ResourceBrief struct {
	ID                 string             `json:"id"`
	Type               fleet.ResourceType `json:"type"`
	CO2Kg              float64            `json:"co2_kg"`
	EnergyKWh          float64            `json:"energy_kwh"`
	FailureProbability float64            `json:"failure_probability,omitempty"`
}

// NarrativeInput is the already-computed material the collaborator
// turns into prose. All numbers are final; the collaborator never
// recomputes anything.
type NarrativeInput struct {
	TotalCO2Kg     float64                        `json:"total_co2_kg"`
	TotalEnergyKWh float64                        `json:"total_energy_kwh"`
	TotalEnergyWh  float64                        `json:"total_energy_wh"`
	CO2ByType      map[fleet.ResourceType]float64 `json:"co2_by_resource_type"`
	EnergyByTypeWh map[fleet.ResourceType]float64 `json:"energy_by_type_wh"`
	Inventory      map[fleet.ResourceType]int     `json:"production_inventory"`
	TopEmitters    []ResourceBrief                `json:"resources_with_high_co2"`
	HighRisk       []ResourceBrief                `json:"resources_with_failures"`
}

// ReportNarrative is the structured prose the collaborator returns for
// the report body.
type ReportNarrative struct {
	Summary         string         `json:"summary"`
	KeyFindings     []string       `json:"key_findings"`
	Recommendations []string       `json:"recommendations"`
	Details         map[string]any `json:"details"`
}

const summarySystemPrompt = `You are a technical report writer creating CO2 emission reports for IT infrastructure.
Create a comprehensive, professional report summarizing energy consumption and CO2 emissions.
Respond with a JSON object containing 'summary', 'key_findings', 'recommendations', and 'details' fields.`

// GenerateReportSummary asks the collaborator for the report prose.
// Any failure (offline, transport, malformed response) is returned as
// an error for the assembler's fallback.
func (s *Service) GenerateReportSummary(ctx context.Context, in NarrativeInput) (ReportNarrative, error) {
	if s.client == nil {
		return ReportNarrative{}, ErrOffline
	}

	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return ReportNarrative{}, fmt.Errorf("encoding narrative input: %w", err)
	}

	prompt := fmt.Sprintf(`Create a comprehensive CO2 emission report summary based on this data:

%s

Generate a professional report with:
- 'summary': Executive summary paragraph
- 'key_findings': List of key findings
- 'recommendations': List of recommendations for reducing emissions
- 'details': Detailed breakdown by resource category

Respond as JSON.`, payload)

	response, err := s.client.Chat(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return ReportNarrative{}, err
	}

	var parsed ReportNarrative
	if err := decodeFenced(response, &parsed); err != nil {
		return ReportNarrative{}, err
	}
	return parsed, nil
}

const adviceSystemPrompt = `You are an IT infrastructure sustainability expert providing actionable advice
to reduce CO2 emissions. Analyze the actual resource inventory, energy consumption patterns, and CO2 emissions
to provide 3 specific, practical, and actionable recommendations. Focus on the actual resources present
(servers, workstations, automates, internet gateway) and their current consumption patterns.`

// paddingAdvice tops a short collaborator answer up to three entries.
const paddingAdvice = "Monitor and optimize energy consumption patterns."

// ReductionAdvice asks the collaborator for exactly three actionable
// recommendations. Short answers are padded and long ones truncated;
// an empty or unusable answer is an error so the assembler can apply
// its deterministic fallback.
func (s *Service) ReductionAdvice(ctx context.Context, in NarrativeInput) ([]string, error) {
	if s.client == nil {
		return nil, ErrOffline
	}

	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding advice input: %w", err)
	}

	prompt := fmt.Sprintf(`Based on the following IT infrastructure CO2 emission analysis, provide exactly 3 specific,
actionable recommendations to reduce CO2 emissions. Focus on the actual resources and their current state.

%s

Provide exactly 3 specific, actionable recommendations. Each recommendation should:
1. Be specific to the actual resources and their current consumption
2. Be practical and implementable
3. Include potential CO2 reduction impact if possible
4. Consider the resource types (servers, workstations, automates, internet gateway) and their usage patterns

Respond with a JSON object containing a 'advices' field which is an array of exactly 3 strings, each being one recommendation.`, payload)

	response, err := s.client.Chat(ctx, adviceSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Advices []string `json:"advices"`
	}
	if err := decodeFenced(response, &parsed); err != nil {
		return nil, err
	}

	advices := make([]string, 0, 3)
	for _, a := range parsed.Advices {
		if a != "" {
			advices = append(advices, a)
		}
	}
	if len(advices) == 0 {
		return nil, fmt.Errorf("collaborator returned no advices")
	}
	for len(advices) < 3 {
		advices = append(advices, paddingAdvice)
	}
	return advices[:3], nil
}
