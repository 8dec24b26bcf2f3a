// Package scoring computes confidence scores for rulings. Every function
// here is pure and deterministic: identical input always produces identical
// output.
package scoring

import (
	"math"

	"hkb/internal/kb"
	"hkb/internal/policy"
)

// Single source of truth for the scoring constants. Earlier revisions of
// the product carried diverging values across call sites; these are the
// canonical ones.
const (
	// inheritanceMultiplier is the fixed penalty applied when the ruling was
	// inferred from a derivation chain rather than stated directly.
	inheritanceMultiplier = 0.92
	// strictMultiplier is the extra reduction applied in strict mode to
	// borderline items (base severity <= strictSeverityCutoff).
	strictMultiplier     = 0.95
	strictSeverityCutoff = 0.6
	// flexibleMultiplier is the relief applied in flexible mode to
	// borderline items.
	flexibleMultiplier = 1.10

	// haramIssuePenalty and conditionalIssuePenalty are the flat aggregate
	// deductions per unresolved issue after conversion.
	haramIssuePenalty       = 20
	conditionalIssuePenalty = 10
)

// Score turns a final status, the accumulated confidence impact of the
// derivation chain, the strictness level, and the inheritance flag into an
// integer confidence in [0,100].
func Score(status kb.Status, confidenceImpact int, strictness policy.Strictness, hasInheritance bool) int {
	severity := status.Severity()
	score := severity * 100.0

	// Negative impacts pull the score down; never below zero before the
	// multiplicative adjustments.
	score += float64(confidenceImpact)
	if score < 0 {
		score = 0
	}

	switch strictness {
	case policy.Strict:
		if severity <= strictSeverityCutoff {
			score *= strictMultiplier
		}
	case policy.Flexible:
		if status == kb.StatusConditional || status == kb.StatusQuestionable {
			score *= flexibleMultiplier
		}
	}

	if hasInheritance {
		score *= inheritanceMultiplier
	}

	return clamp(int(math.Round(score)))
}

// Aggregate computes the whole-recipe confidence from the final state of a
// conversion: a flat penalty per unresolved issue, weighted by severity.
// If at least one haram ingredient was detected and every one of them was
// replaced, the aggregate is forced to 100.
func Aggregate(unresolvedHaram, unresolvedConditional, detectedHaram, replacedHaram int) int {
	if detectedHaram > 0 && replacedHaram == detectedHaram {
		return 100
	}

	score := 100
	score -= unresolvedHaram * haramIssuePenalty
	score -= unresolvedConditional * conditionalIssuePenalty
	return clamp(score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
