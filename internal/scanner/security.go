package scanner

import (
	"fmt"
	"regexp"

	"github.com/qualitygate/qualitygate/internal/config"
	"github.com/qualitygate/qualitygate/internal/domain"
)

// defaultSecurityRules is the built-in ordered rule table. False positives
// are expected; the contract is only that identical content and rule set
// produce identical findings.
var defaultSecurityRules = []Rule{
	{
		ID:       "secret-pattern",
		Severity: domain.SeverityCritical,
		Pattern:  regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password|passwd|private[_-]?key|client[_-]?secret)\b\s*[:=]\s*["']?[^\s"'#]+`),
		Message:  "hardcoded credential assignment",
	},
	{
		ID:       "known-token",
		Severity: domain.SeverityCritical,
		Pattern:  regexp.MustCompile(`(?i)\b(ghp_[a-z0-9]{36}|AKIA[0-9A-Z]{16}|AIza[0-9A-Za-z_-]{35})\b`),
		Message:  "token matching a known provider format",
	},
	{
		ID:       "private-key",
		Severity: domain.SeverityCritical,
		Pattern:  regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
		Message:  "private key material in source",
	},
	{
		ID:       "sql-concat",
		Severity: domain.SeverityWarning,
		Pattern:  regexp.MustCompile(`(?i)["'][^"']*\b(select|insert|update|delete|drop)\b[^"']*["']\s*\+`),
		Message:  "SQL statement built by string concatenation",
	},
	{
		ID:       "shell-pipe",
		Severity: domain.SeverityWarning,
		Pattern:  regexp.MustCompile(`curl[^|\n]*\|\s*(ba|z)?sh\b`),
		Message:  "remote script piped directly into a shell",
	},
	{
		ID:       "eval-usage",
		Severity: domain.SeverityWarning,
		Pattern:  regexp.MustCompile(`\beval\s*[("]`),
		Message:  "dynamic eval of constructed input",
	},
	{
		ID:       "http-url",
		Severity: domain.SeverityInfo,
		Pattern:  regexp.MustCompile(`\bhttp://[a-zA-Z0-9][a-zA-Z0-9.-]*`),
		Message:  "insecure http URL",
	},
}

// SecurityScanner applies the security pattern rule table
type SecurityScanner struct {
	rules []Rule
}

// NewSecurityScanner builds the scanner from the built-in rules plus any
// extra rules from configuration, preserving order.
func NewSecurityScanner(extra []config.RuleConfig) (*SecurityScanner, error) {
	rules := append([]Rule{}, defaultSecurityRules...)
	for i, rc := range extra {
		sev, err := domain.ParseSeverity(rc.Severity)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rc.ID, err)
		}
		pattern, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): invalid pattern: %w", i, rc.ID, err)
		}
		msg := rc.Message
		if msg == "" {
			msg = "matched configured rule " + rc.ID
		}
		rules = append(rules, Rule{ID: rc.ID, Severity: sev, Pattern: pattern, Message: msg})
	}
	return &SecurityScanner{rules: rules}, nil
}

// Name returns the scanner identifier
func (s *SecurityScanner) Name() string { return "security" }

// Category returns the scoring category
func (s *SecurityScanner) Category() domain.Category { return domain.CategorySecurity }

// Scan applies the rule table to one file
func (s *SecurityScanner) Scan(path string, content []byte) []domain.Finding {
	return matchRules(domain.CategorySecurity, s.rules, path, content)
}
