package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/store"
)

// chatServer fakes the OpenRouter endpoint, answering every request
// with the given completion content.
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.NotEmpty(t, req["messages"])

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func serviceFor(srv *httptest.Server) *Service {
	return NewService(NewClient("test-key", "", srv.URL, zerolog.New(io.Discard)))
}

func sampleEvent() store.Event {
	return store.Event{
		EventID:        "evt-1",
		EventType:      "hardware_failure",
		TimestampStart: "2026-08-20T10:00:00Z",
		TimestampEnd:   "2026-08-20T12:00:00Z",
		Duration:       store.NewDuration(7200),
	}
}

func TestPredictParsesPlainJSON(t *testing.T) {
	srv := chatServer(t, `{"probability": 0.85, "reasoning": "hardware failures tend to recur"}`)
	defer srv.Close()

	got := serviceFor(srv).PredictFailureProbability(context.Background(), fleet.Server, sampleEvent())
	assert.InDelta(t, 0.85, got, 1e-12)
}

func TestPredictToleratesFencedJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"json fence", "```json\n{\"probability\": 0.7, \"reasoning\": \"x\"}\n```"},
		{"bare fence", "```\n{\"probability\": 0.7, \"reasoning\": \"x\"}\n```"},
		{"whitespace", "  \n{\"probability\": 0.7, \"reasoning\": \"x\"}\n  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.content)
			defer srv.Close()

			got := serviceFor(srv).PredictFailureProbability(context.Background(), fleet.Server, sampleEvent())
			assert.InDelta(t, 0.7, got, 1e-12)
		})
	}
}

func TestPredictClampsOutOfRangeProbability(t *testing.T) {
	tests := []struct {
		content string
		want    float64
	}{
		{`{"probability": 1.7, "reasoning": "x"}`, 1.0},
		{`{"probability": -0.3, "reasoning": "x"}`, 0.0},
	}
	for _, tt := range tests {
		srv := chatServer(t, tt.content)
		got := serviceFor(srv).PredictFailureProbability(context.Background(), fleet.Server, sampleEvent())
		srv.Close()
		assert.Equal(t, tt.want, got)
	}
}

func TestPredictFallsBackOnUnparsableResponse(t *testing.T) {
	srv := chatServer(t, "I would estimate the probability at around 0.8.")
	defer srv.Close()

	// hardware_failure resolves through the severity table.
	got := serviceFor(srv).PredictFailureProbability(context.Background(), fleet.Server, sampleEvent())
	assert.Equal(t, 0.9, got)
}

func TestPredictFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	got := serviceFor(srv).PredictFailureProbability(context.Background(), fleet.Server, sampleEvent())
	assert.Equal(t, 0.9, got)
}

func TestPredictOfflineUsesSeverityTable(t *testing.T) {
	svc := NewService(nil)
	assert.True(t, svc.Offline())

	ev := sampleEvent()
	ev.EventType = "software_maintenance_stop"
	assert.Equal(t, 0.1, svc.PredictFailureProbability(context.Background(), fleet.Server, ev))
}

func TestStaticProbability(t *testing.T) {
	tests := []struct {
		eventType string
		want      float64
	}{
		{"hardware_failure", 0.9},
		{"operating_system_failure", 0.8},
		{"software_service_failure", 0.6},
		{"cpu_overflow", 0.5},
		{"hardware_maintenance_stop", 0.2},
		{"software_maintenance_stop", 0.1},
		{"software_update", 0.1},
		{"operating_system_update", 0.2},
		{"something_novel", 0.3},
		{"", 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StaticProbability(tt.eventType), tt.eventType)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"padding", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
