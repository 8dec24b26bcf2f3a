package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Preferences is the user's evaluation policy, stored separately from the
// main configuration so profiles can be swapped without touching it.
type Preferences struct {
	Strictness string `toml:"strictness"`
	Madhab     string `toml:"madhab"`
}

// PreferencesPath returns the default preferences file location.
func PreferencesPath(root string) string {
	return filepath.Join(root, ".hkb", "preferences.toml")
}

// LoadPreferences reads a preferences file. A missing file is not an
// error: the config defaults apply.
func LoadPreferences(path string, defaults DefaultsConfig) (Preferences, error) {
	prefs := Preferences{
		Strictness: defaults.Strictness,
		Madhab:     defaults.Madhab,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prefs, nil
		}
		return prefs, err
	}

	var onDisk Preferences
	if err := toml.Unmarshal(data, &onDisk); err != nil {
		return prefs, err
	}

	if onDisk.Strictness != "" {
		prefs.Strictness = onDisk.Strictness
	}
	if onDisk.Madhab != "" {
		prefs.Madhab = onDisk.Madhab
	}
	return prefs, nil
}

// SavePreferences writes the preferences file.
func SavePreferences(path string, prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(prefs)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
