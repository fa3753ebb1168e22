package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/younsl/reclaimd/internal/config"
	"github.com/younsl/reclaimd/internal/engine"
	"github.com/younsl/reclaimd/internal/version"
	"github.com/younsl/reclaimd/pkg/aws"
	"github.com/younsl/reclaimd/pkg/pricing"
)

func main() {
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:   "reclaimd",
		Short: "Terminate idle EC2 instances based on CPU utilization",
		Long: `reclaimd performs one reclamation sweep: it enumerates running EC2
instances, classifies each against its trailing CPU utilization window,
terminates the idle ones and publishes a summary to an SNS topic.

It is designed to be invoked by an external scheduler (cron, EventBridge)
and configured entirely through RECLAIMD_* environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				info := version.Get()
				fmt.Printf("reclaimd %s (built: %s, commit: %s, %s)\n",
					info.Version, info.BuildDate, info.GitCommit, info.GoVersion)
				return nil
			}
			return runSweep()
		},
	}

	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runSweep wires the collaborators and performs one engine run.
func runSweep() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return err
	}

	ec2Client := aws.NewEC2Client(awsCfg, cfg.Region)
	deps := engine.Deps{
		Fleet:      ec2Client,
		Metrics:    aws.NewCloudWatchClient(awsCfg),
		Terminator: ec2Client,
		Notifier:   aws.NewSNSClient(awsCfg),
		Logger:     logger,
	}

	if cfg.EstimateSavings {
		pricingClient, err := pricing.NewClient(ctx)
		if err != nil {
			logger.Warn("pricing client unavailable, savings estimates disabled", "error", err)
		} else {
			deps.Estimator = pricingClient
		}
	}

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Sweeping idle instances in %s ...", cfg.Region)
	s.Start()

	status := engine.New(cfg, deps).Invoke(ctx)

	s.FinalMSG = fmt.Sprintf("✓ %s\n", status.Summary)
	s.Stop()

	if !status.Success {
		return fmt.Errorf("reclamation run failed: %s", status.Summary)
	}
	return nil
}
