package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hkb/internal/convert"
)

// HistoryEntry is one persisted conversion.
type HistoryEntry struct {
	ID         string                    `json:"id"`
	CreatedAt  time.Time                 `json:"createdAt"`
	Strictness string                    `json:"strictness"`
	Madhab     string                    `json:"madhab"`
	Result     *convert.ConversionResult `json:"result"`
}

// History provides access to the persisted conversion results.
type History struct {
	db *DB
}

// NewHistory creates a history store on the given database.
func NewHistory(db *DB) *History {
	return &History{db: db}
}

// Save persists a conversion result and returns its assigned id.
func (h *History) Save(result *convert.ConversionResult, prefs convert.Preferences) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode conversion result: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = h.db.conn.Exec(`
		INSERT INTO conversions (id, created_at, strictness, madhab, original_text, converted_text, result_json, score, confidence_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, now, string(prefs.StrictnessLevel), prefs.SchoolOfThought,
		result.OriginalText, result.ConvertedText, string(resultJSON),
		result.AggregateConfidenceScore, string(result.ConfidenceType))

	if err != nil {
		return "", fmt.Errorf("failed to save conversion: %w", err)
	}

	return id, nil
}

// Latest returns the most recent persisted conversion, or nil when the
// history is empty.
func (h *History) Latest() (*HistoryEntry, error) {
	row := h.db.conn.QueryRow(`
		SELECT id, created_at, strictness, madhab, result_json
		FROM conversions
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)

	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest conversion: %w", err)
	}
	return entry, nil
}

// List returns up to limit recent conversions, newest first.
func (h *History) List(limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := h.db.conn.Query(`
		SELECT id, created_at, strictness, madhab, result_json
		FROM conversions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune removes entries older than ttl and keeps at most keep entries.
func (h *History) Prune(ttl time.Duration, keep int) error {
	cutoff := time.Now().UTC().Add(-ttl).Format(time.RFC3339)

	if _, err := h.db.conn.Exec(`DELETE FROM conversions WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to prune expired conversions: %w", err)
	}

	if keep > 0 {
		_, err := h.db.conn.Exec(`
			DELETE FROM conversions
			WHERE id NOT IN (
				SELECT id FROM conversions ORDER BY created_at DESC, id DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("failed to trim conversion history: %w", err)
		}
	}

	return nil
}

func scanEntry(scan func(dest ...any) error) (*HistoryEntry, error) {
	var entry HistoryEntry
	var createdAt, resultJSON string

	if err := scan(&entry.ID, &createdAt, &entry.Strictness, &entry.Madhab, &resultJSON); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at format: %w", err)
	}
	entry.CreatedAt = ts

	var result convert.ConversionResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("invalid result_json: %w", err)
	}
	entry.Result = &result

	return &entry, nil
}
