package llm

import (
	"context"
	"fmt"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/store"
)

// severityTable is the deterministic fallback used when the predictor
// collaborator is unavailable or answers with something unusable.
var severityTable = map[string]float64{
	"hardware_failure":          0.9,
	"operating_system_failure":  0.8,
	"software_service_failure":  0.6,
	"cpu_overflow":              0.5,
	"hardware_maintenance_stop": 0.2,
	"software_maintenance_stop": 0.1,
	"software_update":           0.1,
	"operating_system_update":   0.2,
}

// defaultSeverity is used for event types the table does not know.
const defaultSeverity = 0.3

// StaticProbability looks an event type up in the severity table.
func StaticProbability(eventType string) float64 {
	if p, ok := severityTable[eventType]; ok {
		return p
	}
	return defaultSeverity
}

const predictorSystemPrompt = `You are an IT infrastructure expert analyzing events to predict failure probabilities.
Analyze the event and provide a failure probability score between 0.0 and 1.0.
Consider the event type, resource type, and duration when making your assessment.
Respond with ONLY a JSON object containing a 'probability' field (float) and a 'reasoning' field (string).`

// Service wraps the chat client with the engine-facing collaborator
// operations. A nil client puts the service in offline mode: every
// operation resolves through its deterministic fallback without
// touching the network.
type Service struct {
	client *Client
}

// NewService builds a collaborator service. client may be nil.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Offline reports whether the service has no live collaborator.
func (s *Service) Offline() bool { return s.client == nil }

// PredictFailureProbability scores one event's probability of leading
// to a future failure, in [0,1]. Collaborator failure of any kind falls
// back to the static severity table; this method never errors and never
// aborts a run.
func (s *Service) PredictFailureProbability(ctx context.Context, resourceType fleet.ResourceType, ev store.Event) float64 {
	if s.client == nil {
		return StaticProbability(ev.EventType)
	}

	prompt := fmt.Sprintf(`Analyze this IT resource event and predict the probability of future failures:

Resource Type: %s
Event Type: %s
Event Duration: %s seconds
Event ID: %s
Start Time: %s
End Time: %s

Based on this event, what is the probability (0.0 to 1.0) that this resource will experience future failures?
Provide your response as a JSON object with 'probability' and 'reasoning' fields.`,
		resourceType, ev.EventType, ev.Duration.String(), ev.EventID, ev.TimestampStart, ev.TimestampEnd)

	response, err := s.client.Chat(ctx, predictorSystemPrompt, prompt)
	if err != nil {
		s.client.logger.Warn().Err(err).Str("event_id", ev.EventID).Msg("predictor unavailable, using severity table")
		return StaticProbability(ev.EventType)
	}

	var parsed struct {
		Probability float64 `json:"probability"`
		Reasoning   string  `json:"reasoning"`
	}
	if err := decodeFenced(response, &parsed); err != nil {
		s.client.logger.Warn().Err(err).Str("event_id", ev.EventID).Msg("unparsable predictor response, using severity table")
		return StaticProbability(ev.EventType)
	}

	return clamp01(parsed.Probability)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
