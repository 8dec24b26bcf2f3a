package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <ingredient>",
	Short: "Classify a single ingredient",
	Long: `Classify one ingredient id or alias through its derivation chain,
applying the selected strictness and school of thought.

Examples:
  hkb check gelatin
  hkb check "red wine" --strictness=strict
  hkb check carmine --madhab=hanafi`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
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

	result := a.evaluator.Evaluate(args[0], opts)

	output, err := FormatResponse(result, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
