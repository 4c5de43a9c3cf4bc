// Package scanner implements the independent checks that produce findings:
// style, security patterns, complexity, and test coverage presence. Each
// scanner is a pure function of a file's path and content; all I/O,
// timeouts, and fault recovery live in the Engine.
package scanner

import (
	"github.com/qualitygate/qualitygate/internal/config"
	"github.com/qualitygate/qualitygate/internal/domain"
)

// Scanner runs one category of checks over a single file
type Scanner interface {
	// Name returns the scanner identifier.
	Name() string

	// Category returns the scoring category this scanner's findings belong to.
	Category() domain.Category

	// Scan analyzes one file and returns its findings. Must not mutate
	// shared state; identical input yields identical findings.
	Scan(path string, content []byte) []domain.Finding
}

// DefaultScanners returns the built-in scanner set in fixed registration
// order. The aggregator merges results in this order.
func DefaultScanners(extraRules []config.RuleConfig, files []string) ([]Scanner, error) {
	security, err := NewSecurityScanner(extraRules)
	if err != nil {
		return nil, err
	}
	return []Scanner{
		NewStyleScanner(),
		security,
		NewComplexityScanner(),
		NewCoverageScanner(files),
	}, nil
}
