package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fleetcarbon/internal/fleet"
	"fleetcarbon/internal/llm"
	"fleetcarbon/internal/store"
)

var (
	flagStore   string
	flagConfig  string
	flagAPIKey  string
	flagModel   string
	flagOffline bool
	flagDebug   bool

	logger zerolog.Logger

	rootCmd = &cobra.Command{
		Use:   "fleetcarbon",
		Short: "Weekly energy and CO2 accounting for a fixed IT fleet",
		Long: `fleetcarbon processes operational events for a fixed fleet of IT
resources (servers, workstations, automation cells, an internet
gateway) and produces weekly electrical-energy and CO2 emission
reports.

Events adjust each resource's power baseline: maintenance stops and
failures suppress consumption, CPU overloads and updates raise it. An
optional LLM collaborator scores failure probabilities and writes the
report prose; without it, deterministic fallbacks keep every number
reproducible offline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if flagDebug {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
				w.Out = os.Stderr
			})).Level(level).With().Timestamp().Logger()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "events_database.json", "path to the JSON event store")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a fleet configuration YAML file (defaults apply when omitted)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "OpenRouter API key (or set OPENROUTER_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", llm.DefaultModel, "collaborator chat model")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "skip the LLM collaborator and use deterministic fallbacks only")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(runCmd)
}

// loadFleetConfig resolves the fleet configuration: the YAML file when
// given, the built-in production defaults otherwise.
func loadFleetConfig() (fleet.Config, error) {
	if flagConfig == "" {
		return fleet.Default(), nil
	}
	return fleet.Load(flagConfig)
}

// collaborator builds the LLM service. Without an API key (or with
// --offline) the service runs in offline mode and every operation
// resolves deterministically.
func collaborator() *llm.Service {
	apiKey := flagAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if flagOffline || apiKey == "" {
		if !flagOffline {
			logger.Info().Msg("no API key configured, collaborator disabled, deterministic fallbacks in effect")
		}
		return llm.NewService(nil)
	}
	return llm.NewService(llm.NewClient(apiKey, flagModel, "", logger))
}

// openStore opens the configured event store.
func openStore() (*store.Store, error) {
	return store.Open(flagStore, logger)
}
