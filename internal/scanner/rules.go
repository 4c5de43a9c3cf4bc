package scanner

import (
	"bufio"
	"bytes"
	"regexp"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// Rule is a single declarative pattern check. Each rule maps to exactly
// one severity; the owning scanner supplies the category.
type Rule struct {
	ID       string
	Severity domain.Severity
	Pattern  *regexp.Regexp
	Message  string
}

// matchRules applies an ordered rule set line by line and returns one
// finding per (line, rule) match.
func matchRules(cat domain.Category, rules []Rule, path string, content []byte) []domain.Finding {
	var findings []domain.Finding

	s := bufio.NewScanner(bytes.NewReader(content))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		for _, rule := range rules {
			if rule.Pattern.MatchString(text) {
				findings = append(findings, domain.Finding{
					CheckID:  rule.ID,
					Category: cat,
					Severity: rule.Severity,
					File:     path,
					Line:     line,
					Message:  rule.Message,
				})
			}
		}
	}

	return findings
}
