// Package scan finds known ingredients inside free-form recipe text using
// whole-word, case-insensitive matching over canonical ids and aliases.
package scan

import (
	"regexp"
	"sort"
	"strings"

	"hkb/internal/engine"
	"hkb/internal/kb"
)

// Span is a half-open [Start,End) byte range inside the scanned text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DetectedIssue is one flagged ingredient found inside recipe text.
type DetectedIssue struct {
	IngredientID string `json:"ingredientId"`
	// MatchedText is the verbatim substring as it appeared in the text.
	MatchedText string    `json:"matchedText"`
	Status      kb.Status `json:"status"`
	// ReplacementID is the first listed alternative that resolves in the
	// store, empty when no resolvable substitute exists.
	ReplacementID string                   `json:"replacementId,omitempty"`
	Evaluation    *engine.EvaluationResult `json:"evaluation"`
	// WasReplaced is set by the substitution phase.
	WasReplaced bool `json:"wasReplaced"`
	// Occurrences are the spans claimed for this ingredient, in text order.
	Occurrences []Span `json:"occurrences,omitempty"`
}

// Scanner detects ingredients in text and evaluates them.
type Scanner struct {
	evaluator *engine.Evaluator
	store     *kb.Store
	patterns  []termPattern
}

// termPattern is one precompiled search pattern owned by a canonical id.
type termPattern struct {
	id string
	re *regexp.Regexp
}

// NewScanner creates a scanner backed by the evaluator's store. Term
// patterns are compiled once here; the store never changes after load.
func NewScanner(evaluator *engine.Evaluator) *Scanner {
	store := evaluator.Store()

	var patterns []termPattern
	for _, rec := range store.Records() {
		for _, term := range searchTerms(rec) {
			re, err := wordPattern(term)
			if err != nil {
				continue
			}
			patterns = append(patterns, termPattern{id: rec.ID, re: re})
		}
	}

	return &Scanner{evaluator: evaluator, store: store, patterns: patterns}
}

// candidate is one possible match before overlap resolution.
type candidate struct {
	span Span
	id   string
}

// Detect scans text for known ingredients and returns one issue per
// canonical ingredient whose resolved status is haram, conditional, or
// questionable, ordered by first occurrence. Matching is whole-word and
// case-insensitive; underscore, space, and hyphen forms of every id and
// alias are tried. Longer terms claim their spans first, so an ingredient
// embedded in a longer known term ("bacon" inside "turkey bacon") is not
// flagged again.
func (s *Scanner) Detect(text string, opts engine.Options) []DetectedIssue {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := s.collectCandidates(text)

	// Longest span first; ties break on position then id so the scan is
	// deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		li := candidates[i].span.End - candidates[i].span.Start
		lj := candidates[j].span.End - candidates[j].span.Start
		if li != lj {
			return li > lj
		}
		if candidates[i].span.Start != candidates[j].span.Start {
			return candidates[i].span.Start < candidates[j].span.Start
		}
		return candidates[i].id < candidates[j].id
	})

	var claimed []candidate
	for _, c := range candidates {
		if !overlapsAny(c.span, claimed) {
			claimed = append(claimed, c)
		}
	}

	// Back to text order for grouping and stable issue ordering.
	sort.Slice(claimed, func(i, j int) bool {
		return claimed[i].span.Start < claimed[j].span.Start
	})

	occurrences := make(map[string][]Span)
	var order []string
	for _, c := range claimed {
		if _, seen := occurrences[c.id]; !seen {
			order = append(order, c.id)
		}
		occurrences[c.id] = append(occurrences[c.id], c.span)
	}

	var issues []DetectedIssue
	for _, id := range order {
		result := s.evaluator.Evaluate(id, opts)
		if !result.Status.Flagged() {
			continue
		}

		spans := occurrences[id]
		first := spans[0]
		issues = append(issues, DetectedIssue{
			IngredientID:  id,
			MatchedText:   text[first.Start:first.End],
			Status:        result.Status,
			ReplacementID: s.resolveReplacement(result.Alternatives),
			Evaluation:    result,
			Occurrences:   spans,
		})
	}

	return issues
}

// collectCandidates finds every whole-word occurrence of every known term.
func (s *Scanner) collectCandidates(text string) []candidate {
	var out []candidate
	for _, p := range s.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, candidate{span: Span{Start: loc[0], End: loc[1]}, id: p.id})
		}
	}
	return out
}

// resolveReplacement picks the first listed alternative that the store
// knows about.
func (s *Scanner) resolveReplacement(alternatives []string) string {
	for _, alt := range alternatives {
		if canonical, ok := s.store.Canonical(alt); ok {
			return canonical
		}
	}
	return ""
}

// searchTerms returns the deduplicated underscore/space/hyphen variants of
// a record's id and aliases.
func searchTerms(rec *kb.IngredientRecord) []string {
	seen := map[string]bool{}
	var out []string

	add := func(term string) {
		for _, v := range Variants(term) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}

	add(rec.ID)
	add(rec.DisplayName)
	for _, alias := range rec.Aliases {
		add(alias)
	}
	return out
}

// Variants produces the underscore, space, and hyphen forms of a term.
func Variants(term string) []string {
	base := kb.NormalizeID(term)
	if base == "" {
		return nil
	}
	words := strings.Split(base, "_")
	if len(words) == 1 {
		return []string{base}
	}
	return []string{
		base,
		strings.Join(words, " "),
		strings.Join(words, "-"),
	}
}

// wordPattern compiles a case-insensitive whole-word pattern for a term.
func wordPattern(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

func overlapsAny(s Span, claimed []candidate) bool {
	for _, c := range claimed {
		if s.Start < c.span.End && c.span.Start < s.End {
			return true
		}
	}
	return false
}
