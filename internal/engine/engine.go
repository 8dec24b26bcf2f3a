// Package engine exposes single-ingredient evaluation: resolution through
// the derivation graph, the policy overlay, and confidence scoring,
// assembled into one result shape.
package engine

import (
	"fmt"

	"hkb/internal/kb"
	"hkb/internal/logging"
	"hkb/internal/policy"
	"hkb/internal/resolve"
	"hkb/internal/scoring"
)

// EnforcedByPreferences marks results whose ruling was changed by the
// user's policy rather than the knowledge base default.
const EnforcedByPreferences = "user_preferences"

// Options selects the policy under which an ingredient is evaluated.
type Options struct {
	Strictness policy.Strictness `json:"strictness"`
	// Madhab is a school-of-thought key, or "no-preference"/empty for none.
	Madhab string `json:"madhab"`
}

// EvaluationResult is the outcome of evaluating one ingredient id.
// Results are created fresh per call and never mutated after construction.
type EvaluationResult struct {
	IngredientID    string    `json:"ingredientId"`
	DisplayName     string    `json:"displayName"`
	Status          kb.Status `json:"status"`
	ConfidenceScore int       `json:"confidenceScore"`
	Trace           []string  `json:"trace"`
	InheritedFrom   string    `json:"inheritedFrom,omitempty"`
	Alternatives    []string  `json:"alternatives,omitempty"`
	References      []string  `json:"references,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ELI5            string    `json:"eli5,omitempty"`
	EnforcedBy      string    `json:"enforcedBy,omitempty"`
}

// Evaluator evaluates ingredients against a read-only store. Safe for
// concurrent use: the store never changes after load and each call builds
// its own state.
type Evaluator struct {
	store    *kb.Store
	resolver *resolve.Resolver
	logger   *logging.Logger
}

// NewEvaluator creates an evaluator over the given store.
func NewEvaluator(store *kb.Store, logger *logging.Logger) *Evaluator {
	return &Evaluator{
		store:    store,
		resolver: resolve.NewResolver(store),
		logger:   logger,
	}
}

// Store returns the evaluator's underlying store.
func (e *Evaluator) Store() *kb.Store {
	return e.store
}

// Evaluate classifies one ingredient id (or alias) under the given options.
// Unknown ingredients yield an explicit unknown result with neutral
// confidence impact, never an error.
func (e *Evaluator) Evaluate(id string, opts Options) *EvaluationResult {
	res := e.resolver.Resolve(id, opts.Strictness, policy.NormalizeMadhab(opts.Madhab))

	score := scoring.Score(res.Status, res.ConfidenceImpact, opts.Strictness, res.HasInheritance())

	result := &EvaluationResult{
		IngredientID:    res.ID,
		DisplayName:     res.DisplayName,
		Status:          res.Status,
		ConfidenceScore: score,
		Trace:           res.Trace,
		InheritedFrom:   res.InheritedFrom,
		Alternatives:    res.Alternatives,
		References:      res.References,
		Tags:            res.Tags,
		Notes:           res.Notes,
		ELI5:            res.ELI5,
	}
	if res.Enforced {
		result.EnforcedBy = EnforcedByPreferences
	}

	if e.logger != nil {
		e.logger.Debug("Evaluated ingredient", logging.Fields{
			"id":         result.IngredientID,
			"status":     result.Status,
			"confidence": result.ConfidenceScore,
			"inherited":  result.InheritedFrom,
		})
	}

	return result
}

// Override carries an authoritative classification from a remote service.
// The engine never calls out itself; callers that consulted a remote
// classifier apply its verdict here.
type Override struct {
	Status          kb.Status `json:"status"`
	ConfidenceScore int       `json:"confidenceScore"`
	Source          string    `json:"source"`
	References      []string  `json:"references,omitempty"`
}

// ApplyOverride returns a copy of the result with the override applied.
// The original result is left untouched.
func ApplyOverride(res *EvaluationResult, o Override) *EvaluationResult {
	out := *res
	out.Status = o.Status
	out.ConfidenceScore = clampScore(o.ConfidenceScore)
	out.EnforcedBy = o.Source

	out.Trace = append(append([]string{}, res.Trace...),
		fmt.Sprintf("%s overridden to %s by %s", res.IngredientID, o.Status, o.Source))
	out.References = append(append([]string{}, res.References...), o.References...)

	return &out
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
