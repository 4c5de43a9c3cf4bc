// Package gate applies the admission policy to a scored run.
package gate

import (
	"fmt"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// Decide applies the policy to the overall score and findings. The
// reasons list names every violated rule, not just the first, so callers
// always see the complete cause set.
func Decide(overallScore float64, findings []domain.Finding, policy domain.GatePolicy) (domain.GateDecision, []string) {
	reasons := make([]string, 0)

	critical := 0
	for i := range findings {
		if findings[i].IsCritical() {
			critical++
		}
	}
	if critical > policy.MaxCriticalFindings {
		reasons = append(reasons, fmt.Sprintf(
			"%d critical findings exceed the limit of %d", critical, policy.MaxCriticalFindings))
	}

	if overallScore < policy.MinOverallScore {
		reasons = append(reasons, fmt.Sprintf(
			"overall score %.1f is below the minimum of %.1f", overallScore, policy.MinOverallScore))
	}

	if len(reasons) > 0 {
		return domain.GateFail, reasons
	}
	return domain.GatePass, reasons
}
