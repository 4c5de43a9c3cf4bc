package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// Thresholds for the complexity heuristics. These are deliberately blunt:
// the scanner grades shape, not semantics.
const (
	MaxFileLines     = 600
	MaxFunctionLines = 80
	MaxNestingDepth  = 6
	indentSpaces     = 4
)

// ComplexityScanner flags over-long files and functions and deeply
// nested code using indentation heuristics.
type ComplexityScanner struct{}

// NewComplexityScanner creates a new ComplexityScanner
func NewComplexityScanner() *ComplexityScanner { return &ComplexityScanner{} }

// Name returns the scanner identifier
func (s *ComplexityScanner) Name() string { return "complexity" }

// Category returns the scoring category
func (s *ComplexityScanner) Category() domain.Category { return domain.CategoryComplexity }

// Scan applies the complexity heuristics to one file
func (s *ComplexityScanner) Scan(path string, content []byte) []domain.Finding {
	var findings []domain.Finding

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	goFile := strings.HasSuffix(path, ".go")
	totalLines := 0
	funcStart, funcName := 0, ""
	prevDeep := false

	for sc.Scan() {
		totalLines++
		text := sc.Text()

		depth := indentDepth(text)
		deep := strings.TrimSpace(text) != "" && depth >= MaxNestingDepth
		if deep && !prevDeep {
			findings = append(findings, domain.Finding{
				CheckID:  "deep-nesting",
				Category: domain.CategoryComplexity,
				Severity: domain.SeverityWarning,
				File:     path,
				Line:     totalLines,
				Message:  fmt.Sprintf("nesting depth %d exceeds %d", depth, MaxNestingDepth-1),
			})
		}
		prevDeep = deep

		if !goFile {
			continue
		}
		switch {
		case strings.HasPrefix(text, "func "):
			funcStart = totalLines
			funcName = functionName(text)
		case text == "}" && funcStart > 0:
			if length := totalLines - funcStart + 1; length > MaxFunctionLines {
				findings = append(findings, domain.Finding{
					CheckID:  "long-function",
					Category: domain.CategoryComplexity,
					Severity: domain.SeverityWarning,
					File:     path,
					Line:     funcStart,
					Message:  fmt.Sprintf("function %s is %d lines, limit is %d", funcName, length, MaxFunctionLines),
				})
			}
			funcStart = 0
		}
	}

	if totalLines > MaxFileLines {
		findings = append(findings, domain.Finding{
			CheckID:  "large-file",
			Category: domain.CategoryComplexity,
			Severity: domain.SeverityInfo,
			File:     path,
			Line:     1,
			Message:  fmt.Sprintf("file is %d lines, limit is %d", totalLines, MaxFileLines),
		})
	}

	return findings
}

// indentDepth approximates the nesting level from leading whitespace,
// counting a tab or four spaces as one level.
func indentDepth(line string) int {
	depth, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			depth++
		case ' ':
			spaces++
			if spaces == indentSpaces {
				depth++
				spaces = 0
			}
		default:
			return depth
		}
	}
	return depth
}

func functionName(decl string) string {
	rest := strings.TrimPrefix(decl, "func ")
	if strings.HasPrefix(rest, "(") {
		if idx := strings.Index(rest, ")"); idx != -1 {
			rest = strings.TrimSpace(rest[idx+1:])
		}
	}
	if idx := strings.IndexAny(rest, "([ "); idx != -1 {
		rest = rest[:idx]
	}
	if rest == "" {
		return "anonymous"
	}
	return rest
}
