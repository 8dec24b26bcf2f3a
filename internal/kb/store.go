package kb

import (
	"sort"

	"hkb/internal/logging"
)

// Store is the merged, read-only ingredient index. It is built once at
// startup and never mutated afterwards, so it is safe for unlimited
// concurrent reads without locking.
type Store struct {
	records map[string]*IngredientRecord
	aliases map[string]string // normalized alias -> canonical id
	ids     []string          // sorted canonical ids
}

// BuildStore merges record sets into a Store. Later sets override earlier
// ones when canonical ids collide; non-colliding records from every set
// remain visible. The alias index is built after the merge, first
// registration winning on alias collision so lookups stay deterministic.
func BuildStore(sets []RecordSet, logger *logging.Logger) *Store {
	records := make(map[string]*IngredientRecord)

	for _, set := range sets {
		for i := range set.Records {
			rec := set.Records[i]
			rec.ID = NormalizeID(rec.ID)
			if rec.ID == "" {
				if logger != nil {
					logger.Warn("Skipping record with empty id", logging.Fields{
						"source": set.Source,
					})
				}
				continue
			}
			if rec.Status == "" {
				rec.Status = StatusUnknown
			}
			if rec.DisplayName == "" {
				rec.DisplayName = displayFromID(rec.ID)
			}
			if _, exists := records[rec.ID]; exists && logger != nil {
				logger.Debug("Record overridden by later set", logging.Fields{
					"id":     rec.ID,
					"source": set.Source,
				})
			}
			records[rec.ID] = &rec
		}
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	aliases := make(map[string]string)
	for _, id := range ids {
		for _, alias := range records[id].Aliases {
			key := NormalizeID(alias)
			if key == "" || key == id {
				continue
			}
			if owner, taken := aliases[key]; taken {
				if owner != id && logger != nil {
					logger.Warn("Alias already registered, keeping first owner", logging.Fields{
						"alias": key,
						"owner": owner,
						"loser": id,
					})
				}
				continue
			}
			aliases[key] = id
		}
	}

	return &Store{records: records, aliases: aliases, ids: ids}
}

// Lookup resolves an id or alias to its record. Canonical ids win over
// aliases. The returned record must be treated as read-only.
func (s *Store) Lookup(id string) (*IngredientRecord, bool) {
	key := NormalizeID(id)
	if rec, ok := s.records[key]; ok {
		return rec, true
	}
	if canonical, ok := s.aliases[key]; ok {
		return s.records[canonical], true
	}
	return nil, false
}

// Canonical resolves an id or alias to its canonical id.
func (s *Store) Canonical(term string) (string, bool) {
	key := NormalizeID(term)
	if _, ok := s.records[key]; ok {
		return key, true
	}
	if canonical, ok := s.aliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// Records returns all records ordered by canonical id.
func (s *Store) Records() []*IngredientRecord {
	out := make([]*IngredientRecord, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.records[id])
	}
	return out
}

// IDs returns all canonical ids in sorted order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of canonical records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// displayFromID derives a human-readable label from a canonical id.
func displayFromID(id string) string {
	runes := []rune(id)
	for i, r := range runes {
		if r == '_' {
			runes[i] = ' '
		}
	}
	return string(runes)
}
