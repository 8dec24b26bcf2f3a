package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	hkberrors "hkb/internal/errors"
)

// RecordSet is one loaded knowledge base file, already migrated to the
// current schema. Sets are merged in load order: later sets override
// earlier ones on id collision.
type RecordSet struct {
	Source  string
	Records []IngredientRecord
}

// currentSet is the on-disk shape of a current-schema (YAML) record set.
type currentSet struct {
	Schema      int                `yaml:"schema"`
	Ingredients []ingredientRecord `yaml:"ingredients"`
}

// ingredientRecord mirrors IngredientRecord with string statuses so that
// unrecognized values degrade to unknown instead of failing the decode.
type ingredientRecord struct {
	ID               string            `yaml:"id"`
	DisplayName      string            `yaml:"displayName"`
	Status           string            `yaml:"status"`
	Aliases          []string          `yaml:"aliases"`
	DerivedFrom      []string          `yaml:"derivedFrom"`
	Rulings          map[string]string `yaml:"rulings"`
	Alternatives     []string          `yaml:"alternatives"`
	ConfidenceImpact int               `yaml:"confidenceImpact"`
	References       []string          `yaml:"references"`
	Notes            string            `yaml:"notes"`
	ELI5             string            `yaml:"eli5"`
	Category         string            `yaml:"category"`
}

// legacySet is the on-disk shape of a legacy (TOML) record set. The legacy
// schema predates the rulings map and uses different field names; it is
// migrated to the current schema at load time so nothing downstream ever
// sees two formats.
type legacySet struct {
	Ingredients []legacyRecord `toml:"ingredients"`
}

type legacyRecord struct {
	Name    string   `toml:"name"`
	Title   string   `toml:"title"`
	State   string   `toml:"state"`
	Also    []string `toml:"also"`
	MadeOf  []string `toml:"made_of"`
	Subs    []string `toml:"subs"`
	Weight  int      `toml:"weight"`
	Sources []string `toml:"sources"`
	Note    string   `toml:"note"`
	Simple  string   `toml:"simple"`
	Group   string   `toml:"group"`
}

// LoadSetFile reads one record set from disk, detecting the schema by file
// extension: .toml is the legacy schema, everything else (.yaml, .yml,
// .json) the current one.
func LoadSetFile(path string) (RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RecordSet{}, hkberrors.NewHkbError(hkberrors.KnowledgeSetUnreadable,
			fmt.Sprintf("cannot read record set %s", path), err)
	}
	return ParseSet(path, data)
}

// ParseSet parses record set bytes using the schema implied by the source
// name's extension.
func ParseSet(source string, data []byte) (RecordSet, error) {
	if strings.EqualFold(filepath.Ext(source), ".toml") {
		return parseLegacySet(source, data)
	}
	return parseCurrentSet(source, data)
}

func parseCurrentSet(source string, data []byte) (RecordSet, error) {
	var raw currentSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RecordSet{}, hkberrors.NewHkbError(hkberrors.KnowledgeSetUnreadable,
			fmt.Sprintf("cannot parse record set %s", source), err)
	}

	records := make([]IngredientRecord, 0, len(raw.Ingredients))
	for _, in := range raw.Ingredients {
		rec := IngredientRecord{
			ID:               in.ID,
			DisplayName:      in.DisplayName,
			Status:           ParseStatus(in.Status),
			Aliases:          in.Aliases,
			DerivedFrom:      normalizeIDs(in.DerivedFrom),
			Alternatives:     normalizeIDs(in.Alternatives),
			ConfidenceImpact: in.ConfidenceImpact,
			References:       in.References,
			Notes:            in.Notes,
			ELI5:             in.ELI5,
			Category:         in.Category,
		}
		if len(in.Rulings) > 0 {
			rec.Rulings = make(map[string]Status, len(in.Rulings))
			for k, v := range in.Rulings {
				rec.Rulings[strings.ToLower(strings.TrimSpace(k))] = ParseStatus(v)
			}
		}
		records = append(records, rec)
	}

	return RecordSet{Source: source, Records: records}, nil
}

func parseLegacySet(source string, data []byte) (RecordSet, error) {
	var raw legacySet
	if err := toml.Unmarshal(data, &raw); err != nil {
		return RecordSet{}, hkberrors.NewHkbError(hkberrors.KnowledgeSetUnreadable,
			fmt.Sprintf("cannot parse legacy record set %s", source), err)
	}

	records := make([]IngredientRecord, 0, len(raw.Ingredients))
	for _, in := range raw.Ingredients {
		records = append(records, migrateLegacyRecord(in))
	}

	return RecordSet{Source: source, Records: records}, nil
}

// migrateLegacyRecord converts one legacy record to the current schema.
// Legacy weights were already signed score adjustments, so they carry over
// as confidenceImpact unchanged.
func migrateLegacyRecord(in legacyRecord) IngredientRecord {
	return IngredientRecord{
		ID:               in.Name,
		DisplayName:      in.Title,
		Status:           ParseStatus(in.State),
		Aliases:          in.Also,
		DerivedFrom:      normalizeIDs(in.MadeOf),
		Alternatives:     normalizeIDs(in.Subs),
		ConfidenceImpact: in.Weight,
		References:       in.Sources,
		Notes:            in.Note,
		ELI5:             in.Simple,
		Category:         in.Group,
	}
}

func normalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := NormalizeID(id); n != "" {
			out = append(out, n)
		}
	}
	return out
}
