package domain

import (
	"fmt"
	"sort"
)

// Severity represents the importance level of a finding
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// IsValid returns true if the severity is a known level
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	default:
		return false
	}
}

// ParseSeverity parses a string into a Severity value
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("invalid severity: %q", s)
	}
	return sev, nil
}

// Category groups related checks for weighted scoring
type Category string

const (
	CategoryStyle      Category = "style"
	CategorySecurity   Category = "security"
	CategoryComplexity Category = "complexity"
	CategoryCoverage   Category = "coverage"
)

// AllCategories returns every category in scoring order
func AllCategories() []Category {
	return []Category{CategoryStyle, CategorySecurity, CategoryComplexity, CategoryCoverage}
}

// IsValid returns true if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryStyle, CategorySecurity, CategoryComplexity, CategoryCoverage:
		return true
	default:
		return false
	}
}

// ParseCategory parses a string into a Category value
func ParseCategory(s string) (Category, error) {
	cat := Category(s)
	if !cat.IsValid() {
		return "", fmt.Errorf("invalid category: %q", s)
	}
	return cat, nil
}

// Check IDs emitted by the scan engine itself rather than by a rule.
// They carry the category of the scanner that hit the fault.
const (
	CheckIOError     = "io-error"
	CheckScanTimeout = "scan-timeout"
	CheckScanCrash   = "scan-crash"
)

// Finding represents a single issue discovered by a scanner
type Finding struct {
	CheckID  string   `json:"check_id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// IsCritical returns true if the finding is critical severity
func (f *Finding) IsCritical() bool {
	return f.Severity == SeverityCritical
}

// SortFindings orders findings by (file, line, check_id) so identical
// input always yields an identical finding sequence.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.CheckID < b.CheckID
	})
}
