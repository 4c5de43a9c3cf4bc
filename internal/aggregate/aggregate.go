// Package aggregate merges per-scanner results into a single scan report.
package aggregate

import (
	"errors"
	"time"

	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/scanner"
)

// ErrNoScanners reports that the run was configured with zero scanners.
var ErrNoScanners = errors.New("no scanners registered")

// Merge concatenates scanner results in registration order, preserving
// each scanner's internal finding order.
func Merge(target string, startedAt, finishedAt time.Time, results []scanner.Result) (domain.ScanReport, error) {
	if len(results) == 0 {
		return domain.ScanReport{}, ErrNoScanners
	}

	findings := make([]domain.Finding, 0)
	for i := range results {
		findings = append(findings, results[i].Findings...)
	}

	return domain.ScanReport{
		Target:     target,
		Findings:   findings,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}, nil
}
