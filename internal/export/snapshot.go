// Package export writes compressed snapshots of the merged knowledge base
// for backup and for shipping a pre-merged index to other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	hkberrors "hkb/internal/errors"
	"hkb/internal/kb"
	"hkb/internal/version"
)

// Snapshot is the serialized form of a merged store.
type Snapshot struct {
	SchemaVersion int                   `json:"schemaVersion"`
	HkbVersion    string                `json:"hkbVersion"`
	CreatedAt     time.Time             `json:"createdAt"`
	Records       []kb.IngredientRecord `json:"records"`
}

// snapshotSchemaVersion tracks the snapshot layout, not the record schema.
const snapshotSchemaVersion = 1

// WriteSnapshot serializes the store's merged records as zstd-compressed
// JSON.
func WriteSnapshot(store *kb.Store, w io.Writer) error {
	records := store.Records()
	snap := Snapshot{
		SchemaVersion: snapshotSchemaVersion,
		HkbVersion:    version.Version,
		CreatedAt:     time.Now().UTC(),
		Records:       make([]kb.IngredientRecord, 0, len(records)),
	}
	for _, rec := range records {
		snap.Records = append(snap.Records, *rec)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return hkberrors.NewHkbError(hkberrors.ExportFailed, "cannot create compressor", err)
	}

	if err := json.NewEncoder(zw).Encode(&snap); err != nil {
		zw.Close()
		return hkberrors.NewHkbError(hkberrors.ExportFailed, "cannot encode snapshot", err)
	}

	if err := zw.Close(); err != nil {
		return hkberrors.NewHkbError(hkberrors.ExportFailed, "cannot finish snapshot", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, hkberrors.NewHkbError(hkberrors.ExportFailed, "cannot open snapshot", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, hkberrors.NewHkbError(hkberrors.ExportFailed, "cannot decode snapshot", err)
	}
	if snap.SchemaVersion != snapshotSchemaVersion {
		return nil, hkberrors.NewHkbError(hkberrors.ExportFailed,
			fmt.Sprintf("unsupported snapshot schema version %d", snap.SchemaVersion), nil)
	}
	return &snap, nil
}
