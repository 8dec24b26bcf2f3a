package convert

import (
	"testing"

	"hkb/internal/engine"
	"hkb/internal/kb"
	"hkb/internal/policy"
)

func testConverter(t *testing.T) *Converter {
	t.Helper()
	store := kb.BuildStore([]kb.RecordSet{{
		Source: "test.yaml",
		Records: []kb.IngredientRecord{
			{ID: "pork", DisplayName: "Pork", Status: kb.StatusHaram},
			{ID: "bacon", DisplayName: "Bacon", Status: kb.StatusHaram, Alternatives: []string{"turkey_bacon"}},
			{ID: "turkey_bacon", DisplayName: "Turkey Bacon", Status: kb.StatusHalal},
			{ID: "wine", DisplayName: "Wine", Status: kb.StatusHaram, Aliases: []string{"red wine"}, Alternatives: []string{"grape_juice"}},
			{ID: "grape_juice", DisplayName: "Grape Juice", Status: kb.StatusHalal},
			{ID: "beef", DisplayName: "Beef", Status: kb.StatusHalal},
			{ID: "gelatin", DisplayName: "Gelatin", Status: kb.StatusConditional},
			{ID: "rum", DisplayName: "Rum", Status: kb.StatusHaram},
		},
	}}, nil)
	return NewConverter(engine.NewEvaluator(store, nil), nil)
}

func standardPrefs() Preferences {
	return Preferences{StrictnessLevel: policy.Standard}
}

func TestConvertReplacesHaram(t *testing.T) {
	c := testConverter(t)

	result := c.Convert("Fry the bacon until crisp.", standardPrefs())

	if result.ConvertedText != "Fry the turkey bacon until crisp." {
		t.Errorf("converted = %q", result.ConvertedText)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(result.Issues))
	}
	if !result.Issues[0].WasReplaced {
		t.Error("issue should be marked replaced")
	}
	if result.AggregateConfidenceScore != 100 {
		t.Errorf("score = %d, want 100 when every haram item was replaced", result.AggregateConfidenceScore)
	}
	if result.ConfidenceType != PostConversion {
		t.Errorf("confidenceType = %s, want post_conversion", result.ConfidenceType)
	}
	if result.Error != "" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestConvertMultipleIngredients(t *testing.T) {
	c := testConverter(t)

	result := c.Convert("Beef Bourguignon: braise beef in red wine.", standardPrefs())

	if result.ConvertedText != "Beef Bourguignon: braise beef in grape juice." {
		t.Errorf("converted = %q", result.ConvertedText)
	}
	if len(result.Issues) != 1 || result.Issues[0].IngredientID != "wine" {
		t.Errorf("issues = %v, beef is halal and should not be flagged", result.Issues)
	}
	if result.AggregateConfidenceScore != 100 {
		t.Errorf("score = %d", result.AggregateConfidenceScore)
	}
}

func TestConvertUnresolvedHaram(t *testing.T) {
	c := testConverter(t)

	result := c.Convert("A splash of rum.", standardPrefs())

	if result.ConvertedText != "A splash of rum." {
		t.Errorf("converted = %q, want untouched", result.ConvertedText)
	}
	if result.AggregateConfidenceScore != 80 {
		t.Errorf("score = %d, want 80 with one unresolved haram issue", result.AggregateConfidenceScore)
	}
	if result.ConfidenceType != Classification {
		t.Errorf("confidenceType = %s, text was not rewritten", result.ConfidenceType)
	}
}

func TestConvertUnresolvedBorderline(t *testing.T) {
	c := testConverter(t)

	result := c.Convert("Dissolve the gelatin in water.", standardPrefs())

	if result.ConvertedText != "Dissolve the gelatin in water." {
		t.Errorf("converted = %q", result.ConvertedText)
	}
	if result.AggregateConfidenceScore != 90 {
		t.Errorf("score = %d, want 90 with one unresolved borderline issue", result.AggregateConfidenceScore)
	}
}

func TestConvertNoKnownIngredients(t *testing.T) {
	c := testConverter(t)

	result := c.Convert("Boil water and add salt.", standardPrefs())

	if len(result.Issues) != 0 {
		t.Errorf("issues = %v, want empty slice", result.Issues)
	}
	if result.Issues == nil {
		t.Error("issues should be an empty slice, not nil")
	}
	if result.AggregateConfidenceScore != 100 {
		t.Errorf("score = %d, want 100", result.AggregateConfidenceScore)
	}
	if result.ConfidenceType != Classification {
		t.Errorf("confidenceType = %s", result.ConfidenceType)
	}
}

func TestConvertEmptyInput(t *testing.T) {
	c := testConverter(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		result := c.Convert(text, standardPrefs())
		if result.AggregateConfidenceScore != 0 {
			t.Errorf("Convert(%q) score = %d, want 0", text, result.AggregateConfidenceScore)
		}
		if result.ConvertedText != text {
			t.Errorf("Convert(%q) converted = %q", text, result.ConvertedText)
		}
		if len(result.Issues) != 0 {
			t.Errorf("Convert(%q) issues = %v", text, result.Issues)
		}
	}
}

func TestConvertIdempotent(t *testing.T) {
	c := testConverter(t)

	first := c.Convert("Fry the bacon with wine.", standardPrefs())
	second := c.Convert(first.ConvertedText, standardPrefs())

	if second.ConvertedText != first.ConvertedText {
		t.Errorf("second pass changed the text: %q -> %q", first.ConvertedText, second.ConvertedText)
	}
	if len(second.Issues) != 0 {
		t.Errorf("second pass issues = %v, want none", second.Issues)
	}
	if second.AggregateConfidenceScore != 100 {
		t.Errorf("second pass score = %d", second.AggregateConfidenceScore)
	}
}

func TestConvertStrictnessChangesOutcome(t *testing.T) {
	c := testConverter(t)

	// Under flexible policy gelatin stays conditional and is still flagged;
	// under standard the outcome is the same here, but strict mode escalates
	// it to haram and the missing replacement costs more.
	standard := c.Convert("gelatin dessert", standardPrefs())
	strict := c.Convert("gelatin dessert", Preferences{StrictnessLevel: policy.Strict})

	if standard.AggregateConfidenceScore != 90 {
		t.Errorf("standard score = %d, want 90", standard.AggregateConfidenceScore)
	}
	if strict.AggregateConfidenceScore != 80 {
		t.Errorf("strict score = %d, want 80", strict.AggregateConfidenceScore)
	}
}

func TestConvertPreservesOriginalText(t *testing.T) {
	c := testConverter(t)

	text := "  Fry the bacon.  "
	result := c.Convert(text, standardPrefs())

	if result.OriginalText != text {
		t.Errorf("originalText = %q, want the input verbatim", result.OriginalText)
	}
}
