package main

import (
	"os"

	"github.com/spf13/cobra"

	"hkb/internal/config"
	"hkb/internal/engine"
	"hkb/internal/policy"
	"hkb/internal/version"
)

var (
	// rootFlag is the directory whose .hkb/ holds config, preferences,
	// and the conversion history database.
	rootFlag string
	// strictnessFlag is the CLI --strictness flag value
	strictnessFlag string
	// madhabFlag is the CLI --madhab flag value
	madhabFlag string
	// formatFlag selects json or human output
	formatFlag string
	// noCacheFlag disables the conversion history database
	noCacheFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "hkb",
	Short: "HKB - Halal Knowledge Backend",
	Long: `HKB (Halal Knowledge Backend) classifies ingredients through multi-level
derivation chains, applies the user's strictness and school-of-thought policy,
and converts whole recipes by substituting non-permissible ingredients.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("HKB version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Directory holding the .hkb configuration and cache")
	rootCmd.PersistentFlags().StringVar(&strictnessFlag, "strictness", "",
		"Strictness level: strict, standard, or flexible")
	rootCmd.PersistentFlags().StringVar(&madhabFlag, "madhab", "",
		"School of thought (hanafi, maliki, shafii, hanbali) or no-preference")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human",
		"Output format (json, human)")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false,
		"Skip the conversion history database")
}

// resolveOptions determines the effective policy.
// Precedence: CLI flag > HKB_STRICTNESS / HKB_MADHAB env var >
// preferences.toml > config.json defaults.
func resolveOptions(cfg *config.Config) (engine.Options, error) {
	prefs, err := config.LoadPreferences(config.PreferencesPath(rootFlag), cfg.Defaults)
	if err != nil {
		return engine.Options{}, err
	}

	strictness := prefs.Strictness
	if env := os.Getenv("HKB_STRICTNESS"); env != "" {
		strictness = env
	}
	if strictnessFlag != "" {
		strictness = strictnessFlag
	}

	madhab := prefs.Madhab
	if env := os.Getenv("HKB_MADHAB"); env != "" {
		madhab = env
	}
	if madhabFlag != "" {
		madhab = madhabFlag
	}

	return engine.Options{
		Strictness: policy.ParseStrictness(strictness),
		Madhab:     madhab,
	}, nil
}
