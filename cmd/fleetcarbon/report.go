package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"fleetcarbon/internal/engine"
	"fleetcarbon/internal/report"
	"fleetcarbon/internal/store"
)

var (
	flagOutput string
	flagAsOf   string

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Generate the weekly CO2 emission report from the stored events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return generateReport(cmd.Context(), st)
		},
	}
)

func init() {
	reportCmd.Flags().StringVar(&flagOutput, "output", "CO2_emission_report.json", "path for the JSON report")
	reportCmd.Flags().StringVar(&flagAsOf, "as-of", "", "reference instant for the 7-day window (RFC 3339, default now)")

	runCmd.Flags().StringVar(&flagOutput, "output", "CO2_emission_report.json", "path for the JSON report")
	runCmd.Flags().StringVar(&flagAsOf, "as-of", "", "reference instant for the 7-day window (RFC 3339, default now)")
}

// generateReport runs one full accounting pass over the store snapshot
// and writes the JSON and textual report files. The report files are
// the run's primary deliverable: failing to write them is fatal.
func generateReport(ctx context.Context, st *store.Store) error {
	cfg, err := loadFleetConfig()
	if err != nil {
		return err
	}

	asOf := time.Now()
	if flagAsOf != "" {
		asOf, err = time.Parse(time.RFC3339, flagAsOf)
		if err != nil {
			return fmt.Errorf("parsing --as-of: %w", err)
		}
	}
	window := engine.LastDays(asOf.UTC(), 7)

	logger.Info().
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Msg("generating weekly CO2 emission report")

	eng := engine.New(cfg, logger)
	result, err := eng.Run(st.Snapshot(), window)
	if err != nil {
		return err
	}

	assembler := report.NewAssembler(cfg, collaborator(), logger)
	rep, err := assembler.Assemble(ctx, result)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(flagOutput, raw, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", flagOutput, err)
	}

	textualPath := textualOutputPath(flagOutput)
	if err := os.WriteFile(textualPath, []byte(rep.TextualReport), 0o644); err != nil {
		return fmt.Errorf("writing textual report %s: %w", textualPath, err)
	}

	logger.Info().
		Str("report", flagOutput).
		Str("textual_report", textualPath).
		Float64("co2_kg", rep.TotalCO2Kg).
		Msg("reports written")
	return nil
}

// textualOutputPath derives the textual report path from the JSON one.
func textualOutputPath(jsonPath string) string {
	if strings.HasSuffix(jsonPath, ".json") {
		return strings.TrimSuffix(jsonPath, ".json") + "_textual.txt"
	}
	return jsonPath + "_textual.txt"
}
