package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/qualitygate/qualitygate/internal/domain"
)

// SARIF 2.1.0 output so findings can feed code-scanning UIs.

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type sarifReport struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	ShortDescription sarifText         `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

func sarifLevel(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func (f *Formatter) renderSARIF(rpt *domain.QualityReport) ([]byte, error) {
	rulesByID := map[string]sarifRule{}
	results := make([]sarifResult, 0, len(rpt.Scan.Findings))

	for _, fd := range rpt.Scan.Findings {
		if _, ok := rulesByID[fd.CheckID]; !ok {
			rulesByID[fd.CheckID] = sarifRule{
				ID:               fd.CheckID,
				ShortDescription: sarifText{Text: fd.Message},
				Properties:       map[string]string{"category": string(fd.Category)},
			}
		}

		result := sarifResult{
			RuleID:  fd.CheckID,
			Level:   sarifLevel(fd.Severity),
			Message: sarifText{Text: fd.Message},
		}
		loc := sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: fd.File},
		}
		if fd.Line > 0 {
			loc.Region = &sarifRegion{StartLine: fd.Line}
		}
		result.Locations = []sarifLocation{{PhysicalLocation: loc}}
		results = append(results, result)
	}

	ids := make([]string, 0, len(rulesByID))
	for id := range rulesByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rules := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		rules = append(rules, rulesByID[id])
	}

	out := sarifReport{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "qualitygate", Version: rpt.Version, Rules: rules}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sarif: %w", err)
	}
	return append(data, '\n'), nil
}
