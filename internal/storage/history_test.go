package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hkb/internal/convert"
	"hkb/internal/policy"
)

func openTestDB(t *testing.T) (*DB, *History) {
	t.Helper()
	db, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, NewHistory(db)
}

func sampleResult(original string) *convert.ConversionResult {
	return &convert.ConversionResult{
		OriginalText:             original,
		ConvertedText:            original,
		AggregateConfidenceScore: 100,
		ConfidenceType:           convert.Classification,
	}
}

func samplePrefs() convert.Preferences {
	return convert.Preferences{StrictnessLevel: policy.Standard, SchoolOfThought: "hanafi"}
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	root := t.TempDir()
	db, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(root, ".hkb", "hkb.db")); err != nil {
		t.Errorf("database file missing: %v", err)
	}
	if db.Conn() == nil {
		t.Error("Conn should not be nil")
	}
}

func TestHistorySaveAndLatest(t *testing.T) {
	_, h := openTestDB(t)

	id, err := h.Save(sampleResult("Fry the bacon."), samplePrefs())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty id")
	}

	entry, err := h.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if entry == nil {
		t.Fatal("Latest returned nil for a non-empty history")
	}
	if entry.ID != id {
		t.Errorf("id = %s, want %s", entry.ID, id)
	}
	if entry.Strictness != "standard" || entry.Madhab != "hanafi" {
		t.Errorf("entry policy = %s/%s", entry.Strictness, entry.Madhab)
	}
	if entry.Result == nil || entry.Result.OriginalText != "Fry the bacon." {
		t.Errorf("result = %+v", entry.Result)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("createdAt not populated")
	}
}

func TestHistoryLatestEmpty(t *testing.T) {
	_, h := openTestDB(t)

	entry, err := h.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if entry != nil {
		t.Errorf("Latest = %+v, want nil on empty history", entry)
	}
}

func TestHistoryList(t *testing.T) {
	_, h := openTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := h.Save(sampleResult(fmt.Sprintf("recipe %d", i)), samplePrefs()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := h.List(3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}

	all, err := h.List(100)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("got %d entries, want 5", len(all))
	}
}

func TestHistoryPrune(t *testing.T) {
	db, h := openTestDB(t)

	for i := 0; i < 4; i++ {
		if _, err := h.Save(sampleResult(fmt.Sprintf("recipe %d", i)), samplePrefs()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	t.Run("keep trims to the newest entries", func(t *testing.T) {
		if err := h.Prune(24*time.Hour, 2); err != nil {
			t.Fatalf("Prune failed: %v", err)
		}
		entries, err := h.List(100)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("got %d entries after prune, want 2", len(entries))
		}
	})

	t.Run("ttl removes expired entries", func(t *testing.T) {
		// Backdate a row so it falls outside any reasonable ttl.
		stale := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
		_, err := db.Conn().Exec(`
			INSERT INTO conversions (id, created_at, strictness, madhab, original_text, converted_text, result_json, score, confidence_type)
			VALUES ('stale', ?, 'standard', '', '', '', '{}', 0, 'classification')
		`, stale)
		if err != nil {
			t.Fatalf("backdated insert failed: %v", err)
		}

		if err := h.Prune(24*time.Hour, 0); err != nil {
			t.Fatalf("Prune failed: %v", err)
		}
		entries, err := h.List(100)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		for _, e := range entries {
			if e.ID == "stale" {
				t.Error("expired entry survived the ttl prune")
			}
		}
		if len(entries) != 2 {
			t.Errorf("got %d entries, fresh rows should survive", len(entries))
		}
	})
}
