package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetcarbon/internal/fleet"
)

func sampleInput() NarrativeInput {
	return NarrativeInput{
		TotalCO2Kg:     120.5,
		TotalEnergyKWh: 241.0,
		TotalEnergyWh:  241000.0,
		CO2ByType: map[fleet.ResourceType]float64{
			fleet.Server:          71.4,
			fleet.Workstation:     50.4,
			fleet.Automate:        63.0,
			fleet.InternetGateway: 4.2,
		},
		Inventory: map[fleet.ResourceType]int{
			fleet.Server:          10,
			fleet.Workstation:     20,
			fleet.Automate:        5,
			fleet.InternetGateway: 1,
		},
		TopEmitters: []ResourceBrief{
			{ID: "automate_1", Type: fleet.Automate, CO2Kg: 12.6, EnergyKWh: 25.2},
		},
	}
}

func TestGenerateReportSummaryParsesResponse(t *testing.T) {
	srv := chatServer(t, "```json\n"+`{
  "summary": "Weekly emissions stayed within expected bounds.",
  "key_findings": ["Automates dominate consumption."],
  "recommendations": ["Schedule automate idling overnight."],
  "details": {"automate": "highest per-unit draw"}
}`+"\n```")
	defer srv.Close()

	got, err := serviceFor(srv).GenerateReportSummary(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "Weekly emissions stayed within expected bounds.", got.Summary)
	assert.Equal(t, []string{"Automates dominate consumption."}, got.KeyFindings)
	assert.Equal(t, []string{"Schedule automate idling overnight."}, got.Recommendations)
	assert.Equal(t, "highest per-unit draw", got.Details["automate"])
}

func TestGenerateReportSummaryOffline(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.GenerateReportSummary(context.Background(), sampleInput())
	assert.ErrorIs(t, err, ErrOffline)
}

func TestGenerateReportSummaryMalformedResponse(t *testing.T) {
	srv := chatServer(t, "Here is your report: emissions are fine.")
	defer srv.Close()

	_, err := serviceFor(srv).GenerateReportSummary(context.Background(), sampleInput())
	assert.Error(t, err)
}

func TestGenerateReportSummaryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := serviceFor(srv).GenerateReportSummary(context.Background(), sampleInput())
	assert.Error(t, err)
}

func TestReductionAdviceReturnsExactlyThree(t *testing.T) {
	srv := chatServer(t, `{"advices": ["Consolidate servers.", "Power down idle workstations.", "Tune automate duty cycles."]}`)
	defer srv.Close()

	got, err := serviceFor(srv).ReductionAdvice(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Consolidate servers.",
		"Power down idle workstations.",
		"Tune automate duty cycles.",
	}, got)
}

func TestReductionAdvicePadsShortAnswers(t *testing.T) {
	srv := chatServer(t, `{"advices": ["Consolidate servers.", ""]}`)
	defer srv.Close()

	got, err := serviceFor(srv).ReductionAdvice(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Consolidate servers.", got[0])
	assert.Equal(t, paddingAdvice, got[1])
	assert.Equal(t, paddingAdvice, got[2])
}

func TestReductionAdviceTruncatesLongAnswers(t *testing.T) {
	srv := chatServer(t, `{"advices": ["a", "b", "c", "d", "e"]}`)
	defer srv.Close()

	got, err := serviceFor(srv).ReductionAdvice(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestReductionAdviceEmptyAnswerIsError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty array", `{"advices": []}`},
		{"only blanks", `{"advices": ["", ""]}`},
		{"wrong shape", `{"recommendations": ["a", "b", "c"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.content)
			defer srv.Close()

			_, err := serviceFor(srv).ReductionAdvice(context.Background(), sampleInput())
			assert.Error(t, err)
		})
	}
}

func TestReductionAdviceOffline(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.ReductionAdvice(context.Background(), sampleInput())
	assert.ErrorIs(t, err, ErrOffline)
}
