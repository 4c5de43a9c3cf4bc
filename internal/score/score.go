// Package score turns a scan report into normalized category scores.
// Everything here is pure: no I/O, no clock, no shared state.
package score

import (
	"github.com/qualitygate/qualitygate/internal/domain"
)

// DefaultSeverityWeights is the penalty each finding contributes to its
// category. The exact values are policy, not contract.
var DefaultSeverityWeights = map[domain.Severity]int{
	domain.SeverityInfo:     1,
	domain.SeverityWarning:  3,
	domain.SeverityCritical: 10,
}

// Compute derives one CategoryScore per category plus the overall score.
// A category starts at its full weight and loses one point per penalty
// unit, floored at zero; a category with no findings keeps its full
// weight. The overall score is the sum across categories, so with weights
// summing to 100 a clean report scores exactly 100.
func Compute(report domain.ScanReport, weights map[domain.Category]int, severityWeights map[domain.Severity]int) ([]domain.CategoryScore, float64) {
	if severityWeights == nil {
		severityWeights = DefaultSeverityWeights
	}

	penalties := make(map[domain.Category]int)
	for _, f := range report.Findings {
		penalties[f.Category] += severityWeights[f.Severity]
	}

	scores := make([]domain.CategoryScore, 0, len(weights))
	overall := 0.0
	for _, cat := range domain.AllCategories() {
		maxPoints := float64(weights[cat])
		points := maxPoints - float64(penalties[cat])
		if points < 0 {
			points = 0
		}
		scores = append(scores, domain.CategoryScore{
			Category:  cat,
			Points:    points,
			MaxPoints: maxPoints,
		})
		overall += points
	}

	return scores, overall
}
