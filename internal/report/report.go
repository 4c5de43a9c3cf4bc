// Package report renders the quality report into persistable artifacts.
// Rendering is idempotent: the same report always produces byte-identical
// output for a given format.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/qualitygate/qualitygate/internal/domain"
	"github.com/qualitygate/qualitygate/internal/util"
)

// Formatter renders and persists quality reports
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render serializes the report in the requested format
func (f *Formatter) Render(rpt *domain.QualityReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return f.renderJSON(rpt)
	case "text":
		return []byte(f.renderText(rpt)), nil
	case "sarif":
		return f.renderSARIF(rpt)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Persist writes the rendered artifact to dest atomically, overwriting
// any existing report. A missing destination directory is created first.
func (f *Formatter) Persist(artifact []byte, dest string) error {
	if err := util.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := util.WriteFileAtomic(dest, artifact, 0644); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}
	return nil
}

// DefaultOutPath returns the artifact path used when none is configured
func DefaultOutPath(format string) string {
	switch format {
	case "json":
		return "quality-report.json"
	case "sarif":
		return "quality-report.sarif"
	default:
		return "quality-report.txt"
	}
}

func (f *Formatter) renderJSON(rpt *domain.QualityReport) ([]byte, error) {
	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return append(data, '\n'), nil
}

func (f *Formatter) renderText(rpt *domain.QualityReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Quality Report\n")
	fmt.Fprintf(&sb, "==============\n")
	fmt.Fprintf(&sb, "Tool:     qualitygate %s\n", rpt.Version)
	fmt.Fprintf(&sb, "Run:      %s\n", rpt.RunID)
	fmt.Fprintf(&sb, "Target:   %s\n", rpt.Scan.Target)
	fmt.Fprintf(&sb, "Started:  %s\n", rpt.Scan.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Finished: %s\n", rpt.Scan.FinishedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "\n")

	fmt.Fprintf(&sb, "Scores\n")
	fmt.Fprintf(&sb, "------\n")
	for _, s := range rpt.Scores {
		fmt.Fprintf(&sb, "%-12s %5.1f / %5.1f\n", s.Category, s.Points, s.MaxPoints)
	}
	fmt.Fprintf(&sb, "%-12s %5.1f / 100.0\n", "overall", rpt.OverallScore)
	fmt.Fprintf(&sb, "\n")

	fmt.Fprintf(&sb, "Findings (%d total: %d critical, %d warning, %d info)\n",
		rpt.Scan.TotalFindings(), rpt.Scan.CriticalCount(), rpt.Scan.WarningCount(), rpt.Scan.InfoCount())
	fmt.Fprintf(&sb, "--------\n")
	if !rpt.Scan.HasFindings() {
		fmt.Fprintf(&sb, "none\n")
	}
	for _, fd := range rpt.Scan.Findings {
		fmt.Fprintf(&sb, "[%s] %s %s:%d %s (%s)\n",
			fd.Severity, fd.CheckID, fd.File, fd.Line, fd.Message, fd.Category)
	}
	fmt.Fprintf(&sb, "\n")

	fmt.Fprintf(&sb, "Gate: %s\n", strings.ToUpper(string(rpt.GateDecision)))
	for _, reason := range rpt.Reasons {
		fmt.Fprintf(&sb, "  - %s\n", reason)
	}

	return sb.String()
}
