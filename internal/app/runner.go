package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/qualitygate/qualitygate/internal/aggregate"
	"github.com/qualitygate/qualitygate/internal/config"
	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/gate"
	"github.com/qualitygate/qualitygate/internal/git"
	"github.com/qualitygate/qualitygate/internal/notify"
	"github.com/qualitygate/qualitygate/internal/report"
	"github.com/qualitygate/qualitygate/internal/scanner"
	"github.com/qualitygate/qualitygate/internal/score"
	"github.com/qualitygate/qualitygate/internal/target"
	"github.com/qualitygate/qualitygate/internal/util"
)

// Version is the tool version stamped into every quality report.
const Version = "0.1.0"

// Options are the per-invocation settings layered over the config file
type Options struct {
	Target      string
	Format      string
	OutPath     string
	ChangedOnly bool
}

// Runner orchestrates the full quality gate pipeline
type Runner struct {
	config    *config.Config
	opts      Options
	logger    *zap.Logger
	collector *target.Collector
	git       *git.Client
	formatter *report.Formatter
}

// NewRunner creates a new Runner instance
func NewRunner(cfg *config.Config, opts Options, logger *zap.Logger) *Runner {
	return &Runner{
		config:    cfg,
		opts:      opts,
		logger:    logger,
		collector: target.NewCollector(logger, cfg.Scan.MaxFileSize, cfg.Scan.Exclude),
		git:       git.NewClient(logger),
		formatter: report.NewFormatter(),
	}
}

// Run executes the pipeline: collect, scan, aggregate, score, gate,
// persist. On a persist failure the computed report is returned together
// with a ReportIOError so the caller can still show the decision.
func (r *Runner) Run(ctx context.Context) (*domain.QualityReport, error) {
	outPath := r.opts.OutPath
	if outPath == "" {
		outPath = r.config.Report.Out
	}
	if outPath == "" {
		outPath = report.DefaultOutPath(r.opts.Format)
	}
	rc := domain.NewRunContext(r.opts.Target, outPath)

	r.logger.Info("starting scan",
		zap.String("run_id", rc.RunID),
		zap.String("target", rc.Target))

	// Step 1: collect the target file set
	files, err := r.collector.Collect(rc.Target)
	if err != nil {
		return nil, fmt.Errorf("collecting targets: %w", err)
	}
	// The coverage index is built from every collected file, so that
	// narrowing the scan set cannot hide an unchanged _test.go sibling.
	allFiles := files
	if r.opts.ChangedOnly {
		files, err = r.narrowToChanged(ctx, files)
		if err != nil {
			return nil, fmt.Errorf("resolving changed files: %w", err)
		}
	}
	r.logger.Info("collected targets", zap.Int("files", len(files)))

	// Step 2: run the scanners
	scanners, err := scanner.DefaultScanners(r.config.Rules, allFiles)
	if err != nil {
		return nil, fmt.Errorf("building scanners: %w", err)
	}
	// Collected paths are relative to the target directory; a single-file
	// target resolves against its parent.
	root := rc.Target
	if util.FileExists(root) {
		root = filepath.Dir(root)
	}
	engine := scanner.NewEngine(r.logger, root, r.config.Scan.TimeoutPerFile.Std(), r.config.Scan.Jobs, scanners)
	results, err := engine.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	// Step 3: aggregate
	scan, err := aggregate.Merge(rc.Target, rc.StartedAt, time.Now().UTC(), results)
	if err != nil {
		return nil, err
	}
	r.logger.Info("aggregated findings", zap.Int("findings", scan.TotalFindings()))

	// Step 4: score
	scores, overall := score.Compute(scan, r.config.Weights, nil)

	// Step 5: gate
	decision, reasons := gate.Decide(overall, scan.Findings, r.config.Gate.Policy())
	r.logger.Info("gate decided",
		zap.String("decision", string(decision)),
		zap.Float64("overall", overall))

	rpt := &domain.QualityReport{
		Version:      Version,
		RunID:        rc.RunID,
		Scan:         scan,
		Scores:       scores,
		OverallScore: overall,
		GateDecision: decision,
		Reasons:      reasons,
	}

	// Step 6: render and persist the artifact
	artifact, err := r.formatter.Render(rpt, r.opts.Format)
	if err != nil {
		return rpt, fmt.Errorf("rendering report: %w", err)
	}
	if err := r.formatter.Persist(artifact, rc.OutPath); err != nil {
		return rpt, &ReportIOError{Path: rc.OutPath, Err: err}
	}
	r.logger.Info("report persisted", zap.String("path", rc.OutPath))

	// Step 7: notify on gate failure
	if r.config.Email.Enabled && !rpt.Passed() {
		notifier := notify.NewService(r.config.Email, r.logger)
		if err := notifier.SendReport(ctx, rpt); err != nil {
			// Notification is best effort and never changes the outcome.
			r.logger.Warn("sending notification failed", zap.Error(err))
		}
	}

	return rpt, nil
}

func (r *Runner) narrowToChanged(ctx context.Context, files []string) ([]string, error) {
	// git runs with its working directory inside the tree; a file target
	// resolves against its parent so the paths stay target-relative.
	repo := r.opts.Target
	if util.FileExists(repo) {
		repo = filepath.Dir(repo)
	}
	changed, err := r.git.ChangedFiles(ctx, repo)
	if err != nil {
		return nil, err
	}
	changedSet := make(map[string]bool, len(changed))
	for _, f := range changed {
		changedSet[f] = true
	}

	var narrowed []string
	for _, f := range files {
		if changedSet[f] {
			narrowed = append(narrowed, f)
		}
	}
	return narrowed, nil
}
