package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// MaxLineLength is the longest line the style scanner accepts
const MaxLineLength = 120

var styleRules = []Rule{
	{
		ID:       "trailing-whitespace",
		Severity: domain.SeverityInfo,
		Pattern:  regexp.MustCompile(`\S[ \t]+$`),
		Message:  "trailing whitespace",
	},
	{
		ID:       "mixed-indent",
		Severity: domain.SeverityWarning,
		Pattern:  regexp.MustCompile(`^( +\t|\t+ +\S)`),
		Message:  "mixed tab and space indentation",
	},
	{
		ID:       "todo-comment",
		Severity: domain.SeverityInfo,
		Pattern:  regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b`),
		Message:  "unresolved task marker",
	},
}

// StyleScanner checks mechanical formatting conventions
type StyleScanner struct{}

// NewStyleScanner creates a new StyleScanner
func NewStyleScanner() *StyleScanner { return &StyleScanner{} }

// Name returns the scanner identifier
func (s *StyleScanner) Name() string { return "style" }

// Category returns the scoring category
func (s *StyleScanner) Category() domain.Category { return domain.CategoryStyle }

// Scan applies the style rules plus the line-length check
func (s *StyleScanner) Scan(path string, content []byte) []domain.Finding {
	findings := matchRules(domain.CategoryStyle, styleRules, path, content)

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if n := len(sc.Text()); n > MaxLineLength {
			findings = append(findings, domain.Finding{
				CheckID:  "long-line",
				Category: domain.CategoryStyle,
				Severity: domain.SeverityInfo,
				File:     path,
				Line:     line,
				Message:  fmt.Sprintf("line is %d characters, limit is %d", n, MaxLineLength),
			})
		}
	}

	return findings
}
