// Command campaign drives trace-generation sweeps: it expands a YAML
// sweep configuration into a seed×run trial matrix, runs each trial
// against a simulation engine, and collects the trace files into one
// directory per trial.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/nr-trace-campaign/campaign"
	"github.com/signalsfoundry/nr-trace-campaign/engine"
	"github.com/signalsfoundry/nr-trace-campaign/internal/logging"
	"github.com/signalsfoundry/nr-trace-campaign/internal/observability"
)

var (
	configPath  string
	engineKind  string
	engineBin   string
	metricsAddr string
	workers     int
)

var rootCmd = &cobra.Command{
	Use:           "campaign",
	Short:         "Run NR channel-model trace-generation campaigns",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the configured seed×run sweep and collect its traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.NewFromEnv()

		cfg, err := campaign.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		if workers > 0 {
			cfg.Workers = workers
		}

		shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
		if err != nil {
			return err
		}
		defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

		collector, err := observability.NewCampaignCollector(nil)
		if err != nil {
			return err
		}
		metricsSrv := serveMetrics(metricsAddr, collector, log)
		if metricsSrv != nil {
			defer metricsSrv.Close()
		}

		eng, err := buildEngine(log)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.OutputRoot, 0o755); err != nil {
			return fmt.Errorf("create output root: %w", err)
		}
		index, err := campaign.OpenIndex(filepath.Join(cfg.OutputRoot, campaign.IndexFileName))
		if err != nil {
			return err
		}
		defer index.Close()

		orch := campaign.NewOrchestrator(cfg, eng,
			campaign.WithLogger(log),
			campaign.WithMetrics(collector),
			campaign.WithIndex(index),
		)

		results, err := orch.Run(ctx)
		if err != nil {
			return err
		}

		completed, incomplete, failed := results.Summary()
		fmt.Printf("campaign done: %d completed, %d incomplete, %d failed\n",
			completed, incomplete, failed)
		if failed > 0 {
			return fmt.Errorf("%d trial(s) failed", failed)
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the trial matrix without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := campaign.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		specs := cfg.Specs()
		for _, spec := range specs {
			fmt.Println(spec)
		}
		fmt.Printf("%d trial(s) -> %s\n", len(specs), cfg.OutputRoot)
		return nil
	},
}

func buildEngine(log logging.Logger) (engine.Engine, error) {
	switch engineKind {
	case "synthetic":
		eng := engine.NewSyntheticEngine()
		eng.Log = log
		return eng, nil
	case "exec":
		if engineBin == "" {
			return nil, fmt.Errorf("--engine-bin is required with --engine=exec")
		}
		eng := engine.NewExecEngine(engineBin)
		eng.Log = log
		eng.Stdout = os.Stdout
		eng.Stderr = os.Stderr
		return eng, nil
	default:
		return nil, fmt.Errorf("unknown engine %q: choose among synthetic, exec", engineKind)
	}
}

func serveMetrics(addr string, collector *observability.CampaignCollector, log logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(context.Background(), "metrics server exited",
				logging.String("error", err.Error()))
		}
	}()
	log.Info(context.Background(), "serving metrics", logging.String("addr", addr))
	return srv
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/campaign.yaml",
		"Path to the YAML sweep configuration")
	runCmd.Flags().StringVar(&engineKind, "engine", "synthetic",
		"Simulation engine: synthetic (in-process) or exec (external binary)")
	runCmd.Flags().StringVar(&engineBin, "engine-bin", "",
		"Path to the external simulator binary (with --engine=exec)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"HTTP address for Prometheus /metrics (disabled when empty)")
	runCmd.Flags().IntVar(&workers, "workers", 0,
		"Override the configured worker count")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "campaign: %v\n", err)
		os.Exit(1)
	}
}
