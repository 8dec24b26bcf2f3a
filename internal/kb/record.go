// Package kb implements the knowledge base store: ingredient records loaded
// from multiple record sets and merged into one immutable in-memory index
// keyed by canonical id and alias.
package kb

import (
	"strings"
)

// Status is the dietary ruling recorded for an ingredient.
type Status string

const (
	// StatusHalal marks a permissible ingredient.
	StatusHalal Status = "halal"
	// StatusHaram marks a forbidden ingredient.
	StatusHaram Status = "haram"
	// StatusConditional marks an ingredient permissible subject to verifying
	// its source or preparation.
	StatusConditional Status = "conditional"
	// StatusQuestionable marks an ingredient with disputed or unclear rulings.
	StatusQuestionable Status = "questionable"
	// StatusUnknown marks an ingredient the knowledge base cannot classify.
	StatusUnknown Status = "unknown"
)

// ParseStatus normalizes a raw status string. Unrecognized values map to
// unknown rather than failing, so a malformed record degrades instead of
// poisoning the whole set.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusHalal:
		return StatusHalal
	case StatusHaram:
		return StatusHaram
	case StatusConditional:
		return StatusConditional
	case StatusQuestionable:
		return StatusQuestionable
	default:
		return StatusUnknown
	}
}

// Severity maps a status to its base severity used by confidence scoring.
// Higher is safer: halal 1.0, haram 0.0.
func (s Status) Severity() float64 {
	switch s {
	case StatusHalal:
		return 1.0
	case StatusConditional:
		return 0.6
	case StatusQuestionable:
		return 0.5
	case StatusUnknown:
		return 0.4
	case StatusHaram:
		return 0.0
	default:
		return 0.4
	}
}

// Flagged reports whether the status is severe enough to surface as an
// issue during recipe scanning. Halal and unknown ingredients are never
// flagged.
func (s Status) Flagged() bool {
	switch s {
	case StatusHaram, StatusConditional, StatusQuestionable:
		return true
	default:
		return false
	}
}

// escalationRank orders statuses for most-severe-ancestor resolution.
// Unknown and halal never escalate a chain, so they rank lowest.
var escalationRank = map[Status]int{
	StatusHaram:        3,
	StatusQuestionable: 2,
	StatusConditional:  1,
	StatusUnknown:      0,
	StatusHalal:        0,
}

// MoreSevere returns the more severe of two statuses for chain escalation.
// When neither status escalates (halal/unknown), the first argument wins.
func MoreSevere(a, b Status) Status {
	if escalationRank[b] > escalationRank[a] {
		return b
	}
	return a
}

// IngredientRecord is the canonical entity for one ingredient or concept.
type IngredientRecord struct {
	// ID is the unique lowercase, underscore-separated token for this record.
	ID string `yaml:"id" json:"id"`
	// DisplayName is the human-readable label.
	DisplayName string `yaml:"displayName" json:"displayName"`
	// Status is the record's own ruling before policy or inheritance.
	Status Status `yaml:"status" json:"status"`
	// Aliases are strings that map onto this id (many-to-one).
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// DerivedFrom lists parent ids forming the derivation graph. Edges mean
	// "is made from / contains". The graph may contain accidental cycles and
	// is treated defensively during resolution.
	DerivedFrom []string `yaml:"derivedFrom,omitempty" json:"derivedFrom,omitempty"`
	// Rulings maps a madhab key (or "default") to a status override.
	Rulings map[string]Status `yaml:"rulings,omitempty" json:"rulings,omitempty"`
	// Alternatives lists substitute ingredient ids, most preferred first.
	Alternatives []string `yaml:"alternatives,omitempty" json:"alternatives,omitempty"`
	// ConfidenceImpact is a signed score adjustment. The value of greatest
	// magnitude wins when aggregating across a derivation chain.
	ConfidenceImpact int `yaml:"confidenceImpact,omitempty" json:"confidenceImpact,omitempty"`
	// References are citation strings for the ruling.
	References []string `yaml:"references,omitempty" json:"references,omitempty"`
	// Notes is the juristic explanation; most specific wins when merging
	// chain levels.
	Notes string `yaml:"notes,omitempty" json:"notes,omitempty"`
	// ELI5 is the plain-language explanation.
	ELI5 string `yaml:"eli5,omitempty" json:"eli5,omitempty"`
	// Category is a coarse tag such as "flavoring" or "animal-byproduct".
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
}

// NormalizeID canonicalizes an id or alias for index lookup: lowercased,
// trimmed, with spaces and hyphens collapsed to underscores.
func NormalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "_")
}

// RulingFor returns the record's ruling for a madhab key, falling back to
// the "default" ruling and then the record status. The second return value
// reports whether the specific madhab key matched.
func (r *IngredientRecord) RulingFor(madhab string) (Status, bool) {
	if madhab != "" {
		if s, ok := r.Rulings[madhab]; ok {
			return s, true
		}
	}
	return r.DefaultRuling(), false
}

// DefaultRuling returns the record's ruling with no madhab applied: the
// "default" rulings entry when present, else the record status.
func (r *IngredientRecord) DefaultRuling() Status {
	if s, ok := r.Rulings["default"]; ok {
		return s
	}
	return r.Status
}
