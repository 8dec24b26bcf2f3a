package kb

import (
	"embed"
)

// Built-in record sets shipped with the binary. The legacy set loads first
// so both YAML sets can override it.
//
//go:embed data/legacy.toml data/base.yaml data/extended.yaml
var defaultData embed.FS

var defaultSetOrder = []string{
	"data/legacy.toml",
	"data/base.yaml",
	"data/extended.yaml",
}

// DefaultSets returns the built-in record sets in merge order.
func DefaultSets() ([]RecordSet, error) {
	sets := make([]RecordSet, 0, len(defaultSetOrder))
	for _, name := range defaultSetOrder {
		data, err := defaultData.ReadFile(name)
		if err != nil {
			return nil, err
		}
		set, err := ParseSet(name, data)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}
