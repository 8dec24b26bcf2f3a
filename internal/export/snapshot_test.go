package export

import (
	"bytes"
	"testing"

	"hkb/internal/kb"
)

func TestSnapshotRoundTrip(t *testing.T) {
	store := kb.BuildStore([]kb.RecordSet{{
		Source: "test.yaml",
		Records: []kb.IngredientRecord{
			{ID: "pork", DisplayName: "Pork", Status: kb.StatusHaram, References: []string{"Quran 2:173"}},
			{ID: "gelatin", DisplayName: "Gelatin", Status: kb.StatusConditional, Aliases: []string{"gelatine"}},
		},
	}}, nil)

	var buf bytes.Buffer
	if err := WriteSnapshot(store, &buf); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	snap, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if snap.SchemaVersion != snapshotSchemaVersion {
		t.Errorf("schemaVersion = %d", snap.SchemaVersion)
	}
	if snap.HkbVersion == "" {
		t.Error("hkbVersion not stamped")
	}
	if snap.CreatedAt.IsZero() {
		t.Error("createdAt not stamped")
	}

	if len(snap.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(snap.Records))
	}
	// Records() is sorted by id, so the snapshot order is deterministic.
	if snap.Records[0].ID != "gelatin" || snap.Records[1].ID != "pork" {
		t.Errorf("record order = %s, %s", snap.Records[0].ID, snap.Records[1].ID)
	}
	if snap.Records[1].References[0] != "Quran 2:173" {
		t.Errorf("references = %v", snap.Records[1].References)
	}
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	if _, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot"))); err == nil {
		t.Error("expected error for non-zstd input")
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	store := kb.BuildStore(nil, nil)

	var buf bytes.Buffer
	if err := WriteSnapshot(store, &buf); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	snap, err := ReadSnapshot(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if len(snap.Records) != 0 {
		t.Errorf("records = %v, want empty", snap.Records)
	}
}
