package convert

import (
	"sort"
	"strings"
	"unicode"

	"hkb/internal/kb"
	"hkb/internal/scan"
)

// SubstitutionOutcome reports what the substitution pass did.
type SubstitutionOutcome struct {
	ConvertedText string
	// Replaced lists ingredient ids whose occurrences were rewritten.
	Replaced []string
	// Unresolved lists ingredient ids left untouched because no resolvable
	// replacement exists.
	Unresolved []string
}

// Substitute rewrites every claimed occurrence of each issue with its
// replacement's display form, preserving the case pattern of the matched
// text. Issues without a resolvable replacement are routed to Unresolved
// and their text left untouched. Replacement is unconditional: confidence
// never suppresses it, scoring happens strictly afterward on the final
// state. The issues slice is updated in place (WasReplaced).
func Substitute(text string, issues []scan.DetectedIssue, store *kb.Store) SubstitutionOutcome {
	outcome := SubstitutionOutcome{ConvertedText: text}

	type edit struct {
		span scan.Span
		text string
	}
	var edits []edit

	for i := range issues {
		issue := &issues[i]

		replacement, ok := store.Lookup(issue.ReplacementID)
		if issue.ReplacementID == "" || !ok {
			outcome.Unresolved = append(outcome.Unresolved, issue.IngredientID)
			continue
		}

		for _, span := range issue.Occurrences {
			matched := text[span.Start:span.End]
			edits = append(edits, edit{span: span, text: matchCase(matched, replacement.DisplayName)})
		}
		issue.WasReplaced = true
		outcome.Replaced = append(outcome.Replaced, issue.IngredientID)
	}

	if len(edits) == 0 {
		return outcome
	}

	// Spans never overlap (the scanner claims them exclusively), so one
	// front-to-back pass rebuilds the text.
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].span.Start < edits[j].span.Start
	})

	var b strings.Builder
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.span.Start])
		b.WriteString(e.text)
		last = e.span.End
	}
	b.WriteString(text[last:])
	outcome.ConvertedText = b.String()

	return outcome
}

// matchCase applies the case pattern of matched to the replacement:
// all-caps stays all-caps, a capitalized word stays capitalized, anything
// else takes the replacement lowercased.
func matchCase(matched, replacement string) string {
	lower := strings.ToLower(replacement)

	if isAllUpper(matched) {
		return strings.ToUpper(lower)
	}

	first := firstLetter(matched)
	if first != 0 && unicode.IsUpper(first) {
		return capitalize(lower)
	}

	return lower
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func firstLetter(s string) rune {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

func capitalize(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
