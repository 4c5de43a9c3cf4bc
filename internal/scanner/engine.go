package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// ErrAllScannersFailed reports that every scanner crashed on every file,
// leaving nothing worth gating.
var ErrAllScannersFailed = errors.New("all scanners failed")

// Result holds one scanner's findings for a run
type Result struct {
	Name     string
	Category domain.Category
	Findings []domain.Finding

	files   int
	crashes int
}

// Faulted reports whether the scanner crashed on every file it was given
func (r *Result) Faulted() bool {
	return r.files > 0 && r.crashes == r.files
}

// Engine executes scanners in parallel worker tasks over a shared,
// read-only file set. Faults never abort the run: unreadable files,
// timeouts, and panics become findings and the engine moves on.
type Engine struct {
	scanners []Scanner
	logger   *zap.Logger
	root     string
	timeout  time.Duration
	jobs     int
}

// NewEngine creates an Engine over the given target root
func NewEngine(logger *zap.Logger, root string, timeout time.Duration, jobs int, scanners []Scanner) *Engine {
	if jobs < 1 {
		jobs = 1
	}
	return &Engine{
		scanners: scanners,
		logger:   logger,
		root:     root,
		timeout:  timeout,
		jobs:     jobs,
	}
}

// Run executes every scanner over files and returns one Result per
// scanner, in registration order. It returns ErrAllScannersFailed only
// when every scanner faulted on every file.
func (e *Engine) Run(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(e.scanners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, s := range e.scanners {
		i, s := i, s
		g.Go(func() error {
			results[i] = e.runScanner(gctx, s, files)
			return nil
		})
	}
	// Workers never return errors; the barrier only waits.
	_ = g.Wait()

	faulted := 0
	for i := range results {
		if results[i].Faulted() {
			faulted++
		}
	}
	if len(results) > 0 && faulted == len(results) {
		return results, ErrAllScannersFailed
	}
	return results, nil
}

func (e *Engine) runScanner(ctx context.Context, s Scanner, files []string) Result {
	res := Result{Name: s.Name(), Category: s.Category(), files: len(files)}
	start := time.Now()

	for _, path := range files {
		findings, crashed := e.scanFile(ctx, s, path)
		res.Findings = append(res.Findings, findings...)
		if crashed {
			res.crashes++
		}
	}

	domain.SortFindings(res.Findings)
	e.logger.Debug("scanner finished",
		zap.String("scanner", s.Name()),
		zap.Int("findings", len(res.Findings)),
		zap.Duration("elapsed", time.Since(start)))
	return res
}

type scanOutcome struct {
	findings []domain.Finding
	panicked any
}

// scanFile runs one scanner over one file under the per-target timeout.
// An abandoned scan keeps running in its goroutine until it returns; its
// result is discarded.
func (e *Engine) scanFile(ctx context.Context, s Scanner, path string) ([]domain.Finding, bool) {
	if ctx.Err() != nil {
		return []domain.Finding{e.timeoutFinding(s, path)}, false
	}

	content, err := os.ReadFile(filepath.Join(e.root, path))
	if err != nil {
		return []domain.Finding{{
			CheckID:  domain.CheckIOError,
			Category: s.Category(),
			Severity: domain.SeverityCritical,
			File:     path,
			Line:     0,
			Message:  fmt.Sprintf("unreadable target: %v", err),
		}}, false
	}

	out := make(chan scanOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- scanOutcome{panicked: r}
			}
		}()
		out <- scanOutcome{findings: s.Scan(path, content)}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case o := <-out:
		if o.panicked != nil {
			e.logger.Warn("scanner crashed",
				zap.String("scanner", s.Name()),
				zap.String("file", path),
				zap.Any("panic", o.panicked))
			return []domain.Finding{{
				CheckID:  domain.CheckScanCrash,
				Category: s.Category(),
				Severity: domain.SeverityCritical,
				File:     path,
				Line:     0,
				Message:  fmt.Sprintf("scanner %s crashed: %v", s.Name(), o.panicked),
			}}, true
		}
		return o.findings, false
	case <-timer.C:
		return []domain.Finding{e.timeoutFinding(s, path)}, false
	case <-ctx.Done():
		return []domain.Finding{e.timeoutFinding(s, path)}, false
	}
}

func (e *Engine) timeoutFinding(s Scanner, path string) domain.Finding {
	return domain.Finding{
		CheckID:  domain.CheckScanTimeout,
		Category: s.Category(),
		Severity: domain.SeverityWarning,
		File:     path,
		Line:     0,
		Message:  fmt.Sprintf("scanner %s timed out after %s", s.Name(), e.timeout),
	}
}
