package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/scenariorun/internal/config"
	"github.com/sawpanic/scenariorun/internal/httpapi"
	"github.com/sawpanic/scenariorun/internal/sim"
	"github.com/sawpanic/scenariorun/internal/telemetry"
)

const (
	appName = "scenariorun"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Deterministic Monte Carlo scenario simulation engine",
		Version: version,
		Long: `scenariorun samples uncertain business variables from configurable
distributions, optionally imposes a Spearman rank-correlation structure
between them, and reduces each option's outcome distribution to risk and
performance metrics (EV, VaR95, CVaR95, economic capital, RAROC, expected
utility, TCOR). Results are reproducible for a fixed seed.`,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario file and print results as JSON",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringP("config", "c", "scenario.yaml", "Scenario YAML file")
	simulateCmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
	simulateCmd.Flags().Bool("parallel", false, "Run options on per-option derived seeds")
	simulateCmd.Flags().Bool("omit-outcomes", false, "Strip raw outcome vectors from the output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the engine over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Float64("rps", 10, "Max simulate requests per second")

	rootCmd.AddCommand(simulateCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	outPath, _ := cmd.Flags().GetString("out")
	parallel, _ := cmd.Flags().GetBool("parallel")
	omitOutcomes, _ := cmd.Flags().GetBool("omit-outcomes")

	sc, err := config.Load(path)
	if err != nil {
		return err
	}
	if parallel {
		sc.Parallel = true
	}

	engine := sim.NewEngine(log.Logger, nil)
	start := time.Now()
	results, err := engine.Run(cmd.Context(), *sc)
	if err != nil {
		return err
	}
	log.Info().
		Int("options", len(results)).
		Int("runs", sc.Runs).
		Dur("elapsed", time.Since(start)).
		Msg("simulation complete")

	if omitOutcomes {
		for i := range results {
			results[i].Outcomes = nil
		}
	}

	out := os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	rps, _ := cmd.Flags().GetFloat64("rps")

	registry := prometheus.NewRegistry()
	collector := telemetry.NewCollector(registry)
	engine := sim.NewEngine(log.Logger, collector)
	server := httpapi.NewServer(engine, log.Logger, rps)

	log.Info().Str("addr", addr).Msg("simulation API listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
