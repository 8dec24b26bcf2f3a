package scoring

import (
	"testing"

	"hkb/internal/kb"
	"hkb/internal/policy"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		status      kb.Status
		impact      int
		strictness  policy.Strictness
		inheritance bool
		want        int
	}{
		{"halal", kb.StatusHalal, 0, policy.Standard, false, 100},
		{"haram", kb.StatusHaram, 0, policy.Standard, false, 0},
		{"conditional", kb.StatusConditional, 0, policy.Standard, false, 60},
		{"questionable", kb.StatusQuestionable, 0, policy.Standard, false, 50},
		{"unknown", kb.StatusUnknown, 0, policy.Standard, false, 40},
		{"negative impact", kb.StatusConditional, -15, policy.Standard, false, 45},
		{"impact cannot go below zero", kb.StatusHaram, -25, policy.Standard, false, 0},
		{"positive impact clamps at 100", kb.StatusHalal, 20, policy.Standard, false, 100},
		{"strict reduces borderline", kb.StatusConditional, 0, policy.Strict, false, 57},
		{"strict leaves halal alone", kb.StatusHalal, 0, policy.Strict, false, 100},
		{"flexible lifts questionable", kb.StatusQuestionable, 0, policy.Flexible, false, 55},
		{"flexible lifts conditional", kb.StatusConditional, 0, policy.Flexible, false, 66},
		{"inheritance penalty", kb.StatusHalal, 0, policy.Standard, true, 92},
		{"all adjustments stack", kb.StatusQuestionable, -10, policy.Strict, true, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.status, tt.impact, tt.strictness, tt.inheritance)
			if got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	first := Score(kb.StatusQuestionable, -10, policy.Strict, true)
	for i := 0; i < 100; i++ {
		if got := Score(kb.StatusQuestionable, -10, policy.Strict, true); got != first {
			t.Fatalf("iteration %d: Score = %d, want %d", i, got, first)
		}
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name                                                       string
		unresolvedHaram, unresolvedConditional, detected, replaced int
		want                                                       int
	}{
		{"clean recipe", 0, 0, 0, 0, 100},
		{"one unresolved haram", 1, 0, 1, 0, 80},
		{"two unresolved borderline", 0, 2, 0, 0, 80},
		{"mixed unresolved", 2, 3, 2, 0, 30},
		{"all haram replaced forces full confidence", 0, 0, 2, 2, 100},
		{"partial replacement still penalized", 1, 0, 2, 1, 80},
		{"floor at zero", 6, 0, 6, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.unresolvedHaram, tt.unresolvedConditional, tt.detected, tt.replaced)
			if got != tt.want {
				t.Errorf("Aggregate = %d, want %d", got, tt.want)
			}
		})
	}
}
