package domain

import "time"

// ScanReport holds the merged findings from all scanners for one run
type ScanReport struct {
	Target     string    `json:"target"`
	Findings   []Finding `json:"findings"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// CriticalCount returns the number of critical findings
func (r *ScanReport) CriticalCount() int {
	count := 0
	for i := range r.Findings {
		if r.Findings[i].IsCritical() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning findings
func (r *ScanReport) WarningCount() int {
	count := 0
	for i := range r.Findings {
		if r.Findings[i].Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// InfoCount returns the number of info findings
func (r *ScanReport) InfoCount() int {
	count := 0
	for i := range r.Findings {
		if r.Findings[i].Severity == SeverityInfo {
			count++
		}
	}
	return count
}

// TotalFindings returns the total number of findings
func (r *ScanReport) TotalFindings() int {
	return len(r.Findings)
}

// HasFindings returns true if there are any findings
func (r *ScanReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// InCategory returns the findings belonging to the given category,
// preserving report order.
func (r *ScanReport) InCategory(cat Category) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

// CategoryScore is the derived score for one category, recomputed each run
type CategoryScore struct {
	Category  Category `json:"category"`
	Points    float64  `json:"points"`
	MaxPoints float64  `json:"max_points"`
}

// GateDecision is the binary admission outcome of a run
type GateDecision string

const (
	GatePass GateDecision = "pass"
	GateFail GateDecision = "fail"
)

// QualityReport is the terminal artifact of a run: persisted once, then immutable
type QualityReport struct {
	Version      string          `json:"version"`
	RunID        string          `json:"run_id"`
	Scan         ScanReport      `json:"scan"`
	Scores       []CategoryScore `json:"scores"`
	OverallScore float64         `json:"overall_score"`
	GateDecision GateDecision    `json:"gate_decision"`
	Reasons      []string        `json:"reasons"`
}

// Passed returns true if the gate admitted the run
func (r *QualityReport) Passed() bool {
	return r.GateDecision == GatePass
}
