package kb

import (
	"testing"
)

func testSets() []RecordSet {
	return []RecordSet{
		{
			Source: "first.yaml",
			Records: []IngredientRecord{
				{ID: "pork", DisplayName: "Pork", Status: StatusHaram, Aliases: []string{"pig", "swine"}},
				{ID: "gelatin", DisplayName: "Gelatin", Status: StatusQuestionable},
			},
		},
		{
			Source: "second.yaml",
			Records: []IngredientRecord{
				{ID: "gelatin", DisplayName: "Gelatin", Status: StatusConditional, Aliases: []string{"gelatine"}},
				{ID: "beef", DisplayName: "Beef", Status: StatusHalal, Aliases: []string{"pig"}}, // alias collision with pork
			},
		},
	}
}

func TestBuildStoreMerge(t *testing.T) {
	store := BuildStore(testSets(), nil)

	t.Run("later set overrides by id", func(t *testing.T) {
		rec, ok := store.Lookup("gelatin")
		if !ok {
			t.Fatal("gelatin not found")
		}
		if rec.Status != StatusConditional {
			t.Errorf("status = %s, want conditional (second set should win)", rec.Status)
		}
	})

	t.Run("non-colliding records from all sets visible", func(t *testing.T) {
		for _, id := range []string{"pork", "gelatin", "beef"} {
			if _, ok := store.Lookup(id); !ok {
				t.Errorf("%s not found", id)
			}
		}
		if store.Len() != 3 {
			t.Errorf("Len = %d, want 3", store.Len())
		}
	})

	t.Run("alias collision keeps first registered owner", func(t *testing.T) {
		// Registration walks canonical ids in sorted order, so beef claims
		// "pig" before pork does.
		rec, ok := store.Lookup("pig")
		if !ok {
			t.Fatal("alias pig not found")
		}
		if rec.ID != "beef" {
			t.Errorf("pig resolved to %s, want beef", rec.ID)
		}
	})
}

func TestLookup(t *testing.T) {
	store := BuildStore(testSets(), nil)

	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"canonical id", "pork", "pork", true},
		{"alias", "swine", "pork", true},
		{"case insensitive", "PORK", "pork", true},
		{"surrounding space", "  pork ", "pork", true},
		{"hyphen and space normalization", "Gel-atin", "", false},
		{"unknown", "quinoa", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := store.Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && rec.ID != tt.wantID {
				t.Errorf("id = %s, want %s", rec.ID, tt.wantID)
			}
		})
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Red Wine", "red_wine"},
		{"  turkey-bacon  ", "turkey_bacon"},
		{"e120", "e120"},
		{"a  b   c", "a_b_c"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeID(tt.input); got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecordsSorted(t *testing.T) {
	store := BuildStore(testSets(), nil)

	records := store.Records()
	for i := 1; i < len(records); i++ {
		if records[i-1].ID >= records[i].ID {
			t.Fatalf("records not sorted: %s before %s", records[i-1].ID, records[i].ID)
		}
	}
}

func TestDefaultDisplayName(t *testing.T) {
	store := BuildStore([]RecordSet{{
		Source:  "x.yaml",
		Records: []IngredientRecord{{ID: "turkey_bacon", Status: StatusHalal}},
	}}, nil)

	rec, _ := store.Lookup("turkey_bacon")
	if rec.DisplayName != "turkey bacon" {
		t.Errorf("DisplayName = %q, want %q", rec.DisplayName, "turkey bacon")
	}
}

func TestMoreSevere(t *testing.T) {
	tests := []struct {
		a, b, want Status
	}{
		{StatusHalal, StatusHaram, StatusHaram},
		{StatusConditional, StatusQuestionable, StatusQuestionable},
		{StatusHaram, StatusConditional, StatusHaram},
		{StatusConditional, StatusUnknown, StatusConditional},
		{StatusHalal, StatusUnknown, StatusHalal},
	}

	for _, tt := range tests {
		if got := MoreSevere(tt.a, tt.b); got != tt.want {
			t.Errorf("MoreSevere(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"halal", StatusHalal},
		{"HARAM", StatusHaram},
		{" conditional ", StatusConditional},
		{"questionable", StatusQuestionable},
		{"mushbooh", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.input); got != tt.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
