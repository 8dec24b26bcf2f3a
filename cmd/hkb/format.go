package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"hkb/internal/convert"
	"hkb/internal/engine"
	"hkb/internal/storage"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	// JSONOutput prints indented JSON.
	JSONOutput OutputFormat = "json"
	// HumanOutput prints a readable summary.
	HumanOutput OutputFormat = "human"
)

// FormatResponse renders a command result in the requested format.
// Unknown formats fall back to JSON.
func FormatResponse(v any, format OutputFormat) (string, error) {
	if format == HumanOutput {
		switch t := v.(type) {
		case *engine.EvaluationResult:
			return formatEvaluation(t), nil
		case *convert.ConversionResult:
			return formatConversion(t), nil
		case []*storage.HistoryEntry:
			return formatHistory(t), nil
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatEvaluation(r *engine.EvaluationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s (confidence %d)\n", r.DisplayName, strings.ToUpper(string(r.Status)), r.ConfidenceScore)
	if r.InheritedFrom != "" {
		fmt.Fprintf(&b, "  inherited from: %s\n", r.InheritedFrom)
	}
	if r.EnforcedBy != "" {
		fmt.Fprintf(&b, "  enforced by: %s\n", r.EnforcedBy)
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "  notes: %s\n", r.Notes)
	}
	if len(r.Alternatives) > 0 {
		fmt.Fprintf(&b, "  alternatives: %s\n", strings.Join(r.Alternatives, ", "))
	}
	if len(r.References) > 0 {
		fmt.Fprintf(&b, "  references: %s\n", strings.Join(r.References, "; "))
	}
	if len(r.Trace) > 0 {
		fmt.Fprintf(&b, "  trace:\n")
		for _, line := range r.Trace {
			fmt.Fprintf(&b, "    - %s\n", line)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatConversion(r *convert.ConversionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "confidence: %d (%s)\n", r.AggregateConfidenceScore, r.ConfidenceType)
	if r.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Error)
	}

	if len(r.Issues) == 0 {
		fmt.Fprintf(&b, "no flagged ingredients\n")
	}
	for _, issue := range r.Issues {
		line := fmt.Sprintf("%s [%s]", issue.MatchedText, issue.Status)
		if issue.WasReplaced {
			line += fmt.Sprintf(" -> %s", issue.ReplacementID)
		} else if issue.ReplacementID == "" {
			line += " (no substitute available)"
		}
		fmt.Fprintf(&b, "  %s\n", line)
	}

	fmt.Fprintf(&b, "\n%s\n", r.ConvertedText)

	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(entries []*storage.HistoryEntry) string {
	if len(entries) == 0 {
		return "no conversions recorded"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  score=%d  issues=%d\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.ID[:8],
			e.Result.AggregateConfidenceScore,
			len(e.Result.Issues))
	}
	return strings.TrimRight(b.String(), "\n")
}
