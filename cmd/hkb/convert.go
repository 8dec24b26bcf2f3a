package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hkb/internal/convert"
	"hkb/internal/logging"
	"hkb/internal/storage"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a recipe to a halal version",
	Long: `Scan recipe text for non-permissible ingredients, substitute known
halal alternatives, and report the flagged ingredients with an aggregate
confidence score.

Reads from the given file, or from stdin when the argument is "-" or omitted.

Examples:
  hkb convert recipe.txt
  cat recipe.txt | hkb convert
  hkb convert recipe.txt --strictness=strict --format=json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := resolveOptions(a.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving preferences: %v\n", err)
		os.Exit(1)
	}

	text, err := readInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	prefs := convert.Preferences{
		StrictnessLevel: opts.Strictness,
		SchoolOfThought: opts.Madhab,
	}
	result := a.converter.Convert(text, prefs)

	saveHistory(a, result, prefs)

	output, err := FormatResponse(result, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// saveHistory persists the conversion unless caching is off. Failures are
// logged, never fatal: the conversion already succeeded.
func saveHistory(a *app, result *convert.ConversionResult, prefs convert.Preferences) {
	if noCacheFlag || !a.cfg.Cache.Enabled || result.Error != "" {
		return
	}

	db, err := storage.Open(rootFlag, a.logger)
	if err != nil {
		a.logger.Warn("Conversion history unavailable", logging.Fields{
			"error": err.Error(),
		})
		return
	}
	defer db.Close()

	history := storage.NewHistory(db)
	if _, err := history.Save(result, prefs); err != nil {
		a.logger.Warn("Failed to save conversion", logging.Fields{
			"error": err.Error(),
		})
		return
	}

	ttl := timeSeconds(a.cfg.Cache.TTLSeconds)
	if err := history.Prune(ttl, a.cfg.Cache.HistoryLimit); err != nil {
		a.logger.Debug("History prune failed", logging.Fields{
			"error": err.Error(),
		})
	}
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
