package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qualitygate/qualitygate/internal/aggregate"
	"github.com/qualitygate/qualitygate/internal/app"
	"github.com/qualitygate/qualitygate/internal/config"
	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/scanner"
	"github.com/qualitygate/qualitygate/internal/watch"
)

var (
	cfgFile     string
	verbose     bool
	format      string
	outPath     string
	minScore    float64
	maxCritical int
	jobs        int
	changedOnly bool

	logger *zap.Logger

	exitCode = app.ExitPass
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "qualitygate",
		Short:   "Quality gate pipeline for source trees",
		Long:    `qualitygate scans a target file tree for style, security, complexity, and coverage issues, scores the results, and applies a pass/fail gate policy.`,
		Version: app.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Encoding = "console"
			zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: $QUALITYGATE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newScanCmd(), newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
	os.Exit(exitCode)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&format, "format", "", "Report format: text, json, or sarif")
	cmd.Flags().StringVar(&outPath, "out", "", "Report destination (default: ./quality-report.<ext>)")
	cmd.Flags().Float64Var(&minScore, "min-score", -1, "Minimum overall score the gate accepts")
	cmd.Flags().IntVar(&maxCritical, "max-critical", -1, "Maximum critical findings the gate accepts")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Number of parallel scanner workers")
	cmd.Flags().BoolVar(&changedOnly, "changed-only", false, "Scan only files changed in the git working tree")
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <target-path>",
		Short: "Scan a target tree and apply the quality gate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := buildConfig(args[0])
			if err != nil {
				return err
			}

			runner := app.NewRunner(cfg, opts, logger)
			rpt, err := runner.Run(cmd.Context())
			if err != nil {
				var repErr *app.ReportIOError
				if errors.As(err, &repErr) && rpt != nil {
					// The artifact is lost but the decision is not.
					printSummary(rpt)
				}
				return err
			}

			printSummary(rpt)
			if !rpt.Passed() {
				exitCode = app.ExitFail
			}
			return nil
		},
	}
	addScanFlags(cmd)
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <target-path>",
		Short: "Re-run the quality gate whenever the target tree changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := buildConfig(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := func(ctx context.Context) error {
				runner := app.NewRunner(cfg, opts, logger)
				rpt, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				printSummary(rpt)
				return nil
			}

			if err := run(ctx); err != nil {
				return err
			}
			err = watch.Run(ctx, opts.Target, watch.DefaultDebounce, logger, run)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	addScanFlags(cmd)
	return cmd
}

// buildConfig loads the config file, layers CLI flags over it, and
// validates the result.
func buildConfig(targetPath string) (*config.Config, app.Options, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, app.Options{}, err
	}

	if minScore >= 0 {
		cfg.Gate.MinOverallScore = minScore
	}
	if maxCritical >= 0 {
		cfg.Gate.MaxCriticalFindings = maxCritical
	}
	if jobs > 0 {
		cfg.Scan.Jobs = jobs
	}
	if format != "" {
		cfg.Report.Format = format
	}
	cfg.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		return nil, app.Options{}, err
	}

	if _, err := os.Stat(targetPath); err != nil {
		return nil, app.Options{}, fmt.Errorf("target path: %w", err)
	}

	opts := app.Options{
		Target:      targetPath,
		Format:      cfg.Report.Format,
		OutPath:     outPath,
		ChangedOnly: changedOnly,
	}
	return cfg, opts, nil
}

func printSummary(rpt *domain.QualityReport) {
	fmt.Printf("gate: %s (score %.1f, %d findings)\n",
		rpt.GateDecision, rpt.OverallScore, rpt.Scan.TotalFindings())
	for _, reason := range rpt.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
}

// exitCodeFor maps the error taxonomy onto exit codes: configuration and
// usage problems are 2, internal faults (total scanner failure, report
// persistence) are 3.
func exitCodeFor(err error) int {
	var repErr *app.ReportIOError
	switch {
	case errors.Is(err, scanner.ErrAllScannersFailed):
		return app.ExitInternal
	case errors.As(err, &repErr):
		return app.ExitInternal
	case errors.Is(err, aggregate.ErrNoScanners):
		return app.ExitConfigError
	default:
		return app.ExitConfigError
	}
}
