package scanner

import (
	"path"
	"strings"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// CoverageScanner flags Go source files whose package directory has no
// test file at all. It is built from the collected file set, so it needs
// no extra filesystem access during scanning.
type CoverageScanner struct {
	testedDirs map[string]bool
}

// NewCoverageScanner indexes the target file set for test presence
func NewCoverageScanner(files []string) *CoverageScanner {
	tested := make(map[string]bool)
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			tested[path.Dir(f)] = true
		}
	}
	return &CoverageScanner{testedDirs: tested}
}

// Name returns the scanner identifier
func (s *CoverageScanner) Name() string { return "coverage" }

// Category returns the scoring category
func (s *CoverageScanner) Category() domain.Category { return domain.CategoryCoverage }

// Scan reports a finding for Go source files in untested packages
func (s *CoverageScanner) Scan(filePath string, content []byte) []domain.Finding {
	if !strings.HasSuffix(filePath, ".go") || strings.HasSuffix(filePath, "_test.go") {
		return nil
	}
	if s.testedDirs[path.Dir(filePath)] {
		return nil
	}
	return []domain.Finding{{
		CheckID:  "missing-tests",
		Category: domain.CategoryCoverage,
		Severity: domain.SeverityWarning,
		File:     filePath,
		Line:     1,
		Message:  "no test file in package directory",
	}}
}
