// Package policy maps a resolved base ruling plus user-selected strictness
// and school of thought onto a final ruling.
package policy

import (
	"strings"

	"hkb/internal/kb"
)

// Strictness is the user-selected policy that shifts borderline rulings up
// or down in severity.
type Strictness string

const (
	// Strict escalates questionable and conditional rulings to haram.
	Strict Strictness = "strict"
	// Standard applies rulings as recorded.
	Standard Strictness = "standard"
	// Flexible relaxes questionable rulings to conditional.
	Flexible Strictness = "flexible"
)

// ParseStrictness normalizes a strictness string, defaulting to standard.
func ParseStrictness(s string) Strictness {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case Strict:
		return Strict
	case Flexible:
		return Flexible
	default:
		return Standard
	}
}

// NoPreference is the madhab value meaning no specific school was requested.
const NoPreference = "no-preference"

// NormalizeMadhab canonicalizes a school-of-thought key. Empty and
// "no-preference" both mean no school selected.
func NormalizeMadhab(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == NoPreference {
		return ""
	}
	return s
}

// Decision is the outcome of applying policy to one record.
type Decision struct {
	// Status is the final ruling after school and strictness overlays.
	Status kb.Status
	// Enforced is true when the user's preferences changed the outcome
	// relative to the record's unmodified default ruling.
	Enforced bool
}

// Apply resolves a record's final ruling under the given strictness and
// madhab. Precedence: the school's ruling override, else the record's
// default ruling, then the strictness shift on top.
func Apply(rec *kb.IngredientRecord, strictness Strictness, madhab string) Decision {
	madhab = NormalizeMadhab(madhab)

	base, _ := rec.RulingFor(madhab)
	final := shift(base, strictness)

	// Only a requested school marks the result as preference-enforced; the
	// flag tells the UI the default ruling was not what the user saw.
	enforced := madhab != "" && final != rec.DefaultRuling()

	return Decision{Status: final, Enforced: enforced}
}

// shift applies the strictness adjustment to a base ruling.
func shift(base kb.Status, strictness Strictness) kb.Status {
	switch strictness {
	case Strict:
		if base == kb.StatusQuestionable || base == kb.StatusConditional {
			return kb.StatusHaram
		}
	case Flexible:
		if base == kb.StatusQuestionable {
			return kb.StatusConditional
		}
	}
	return base
}
