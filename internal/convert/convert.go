// Package convert runs the three-phase recipe conversion pipeline:
// detection, substitution, and aggregate scoring over the same detection
// set.
package convert

import (
	"strings"

	hkberrors "hkb/internal/errors"
	"hkb/internal/engine"
	"hkb/internal/kb"
	"hkb/internal/logging"
	"hkb/internal/policy"
	"hkb/internal/scan"
	"hkb/internal/scoring"
)

// ConfidenceType distinguishes a pure classification from a score computed
// after the text was rewritten.
type ConfidenceType string

const (
	// Classification means no substitution occurred.
	Classification ConfidenceType = "classification"
	// PostConversion means the text was rewritten before scoring.
	PostConversion ConfidenceType = "post_conversion"
)

// Preferences selects the policy for a conversion.
type Preferences struct {
	StrictnessLevel policy.Strictness `json:"strictnessLevel"`
	SchoolOfThought string            `json:"schoolOfThought"`
}

// Options converts preferences into evaluation options.
func (p Preferences) Options() engine.Options {
	return engine.Options{
		Strictness: policy.ParseStrictness(string(p.StrictnessLevel)),
		Madhab:     p.SchoolOfThought,
	}
}

// ConversionResult is the final pipeline output. Results are created fresh
// per call and not mutated after construction.
type ConversionResult struct {
	OriginalText             string               `json:"originalText"`
	ConvertedText            string               `json:"convertedText"`
	Issues                   []scan.DetectedIssue `json:"issues"`
	AggregateConfidenceScore int                  `json:"aggregateConfidenceScore"`
	ConfidenceType           ConfidenceType       `json:"confidenceType"`
	// Error carries a stable error code when the pipeline failed and fell
	// back to the original text.
	Error string `json:"error,omitempty"`
}

// Converter orchestrates detection, substitution, and scoring.
type Converter struct {
	evaluator *engine.Evaluator
	scanner   *scan.Scanner
	store     *kb.Store
	logger    *logging.Logger
}

// NewConverter creates a converter over the evaluator's store.
func NewConverter(evaluator *engine.Evaluator, logger *logging.Logger) *Converter {
	return &Converter{
		evaluator: evaluator,
		scanner:   scan.NewScanner(evaluator),
		store:     evaluator.Store(),
		logger:    logger,
	}
}

// Convert runs the full pipeline over recipe text. The three phases always
// run in order and none is skipped based on an earlier phase's outcome.
// Any unexpected failure mid-pipeline yields the original text untouched
// with zero confidence instead of propagating.
func (c *Converter) Convert(text string, prefs Preferences) (result *ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("Conversion pipeline failed", logging.Fields{
					"panic": r,
				})
			}
			result = &ConversionResult{
				OriginalText:             text,
				ConvertedText:            text,
				Issues:                   []scan.DetectedIssue{},
				AggregateConfidenceScore: 0,
				ConfidenceType:           Classification,
				Error:                    string(hkberrors.PipelineFailure),
			}
		}
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ConversionResult{
			OriginalText:             text,
			ConvertedText:            text,
			Issues:                   []scan.DetectedIssue{},
			AggregateConfidenceScore: 0,
			ConfidenceType:           Classification,
		}
	}

	opts := prefs.Options()

	// Phase 1: detect.
	issues := c.scanner.Detect(trimmed, opts)

	// Phase 2: substitute over the full detection set.
	outcome := Substitute(trimmed, issues, c.store)

	// Phase 3: score strictly from the final state.
	var detectedHaram, replacedHaram, unresolvedHaram, unresolvedBorderline int
	for i := range issues {
		haram := issues[i].Status == kb.StatusHaram
		if haram {
			detectedHaram++
		}
		if issues[i].WasReplaced {
			if haram {
				replacedHaram++
			}
			continue
		}
		if haram {
			unresolvedHaram++
		} else {
			unresolvedBorderline++
		}
	}
	score := scoring.Aggregate(unresolvedHaram, unresolvedBorderline, detectedHaram, replacedHaram)

	confidenceType := Classification
	if outcome.ConvertedText != trimmed {
		confidenceType = PostConversion
	}

	if issues == nil {
		issues = []scan.DetectedIssue{}
	}

	if c.logger != nil {
		c.logger.Debug("Conversion complete", logging.Fields{
			"issues":     len(issues),
			"replaced":   len(outcome.Replaced),
			"unresolved": len(outcome.Unresolved),
			"score":      score,
		})
	}

	return &ConversionResult{
		OriginalText:             text,
		ConvertedText:            outcome.ConvertedText,
		Issues:                   issues,
		AggregateConfidenceScore: score,
		ConfidenceType:           confidenceType,
	}
}
