package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hkb/internal/export"
	"hkb/internal/logging"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged knowledge base as a compressed snapshot",
	Long: `Write the fully merged knowledge base (built-in sets plus configured
record files, overrides applied) as zstd-compressed JSON.

Examples:
  hkb export
  hkb export --out=/tmp/kb.json.zst`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "hkb-snapshot.json.zst", "Output file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := export.WriteSnapshot(a.store, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
		os.Exit(1)
	}

	a.logger.Info("Snapshot written", logging.Fields{
		"path":    exportOut,
		"records": a.store.Len(),
	})
}
