package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hkb/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent cached conversions",
	Long: `Show the most recent conversions persisted in the local cache.
The cache exists for offline replay; clearing .hkb/hkb.db resets it.`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(rootFlag, a.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	entries, err := storage.NewHistory(db).List(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing conversions: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(entries, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
