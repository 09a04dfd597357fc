package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fleetcarbon/internal/ingest"
)

var runCmd = &cobra.Command{
	Use:   "run <input.json>",
	Short: "Ingest an input document and generate the weekly report in one pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		doc, err := ingest.ParseDocument(raw)
		if err != nil {
			return err
		}
		logger.Info().Str("input", args[0]).Int("resources", len(doc)).Msg("processing input document")

		ing := ingest.New(st, collaborator(), logger)
		if err := ing.Run(cmd.Context(), doc); err != nil {
			// Store save failure degrades the run; the in-memory events
			// still feed this report.
			logger.Error().Err(err).Msg("event store save failed")
		}

		return generateReport(cmd.Context(), st)
	},
}
