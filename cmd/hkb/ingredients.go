package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	ingredientsCategory string
	ingredientsStatus   string
)

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Inspect the merged knowledge base",
}

var ingredientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known ingredients",
	Run:   runIngredientsList,
}

var ingredientsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the raw record for one ingredient",
	Args:  cobra.ExactArgs(1),
	Run:   runIngredientsShow,
}

func init() {
	ingredientsListCmd.Flags().StringVar(&ingredientsCategory, "category", "", "Filter by category")
	ingredientsListCmd.Flags().StringVar(&ingredientsStatus, "status", "", "Filter by recorded status")
	ingredientsCmd.AddCommand(ingredientsListCmd)
	ingredientsCmd.AddCommand(ingredientsShowCmd)
	rootCmd.AddCommand(ingredientsCmd)
}

func runIngredientsList(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if formatFlag == "json" {
		records := a.store.Records()
		output, err := FormatResponse(records, JSONOutput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCATEGORY\tDISPLAY")
	for _, rec := range a.store.Records() {
		if ingredientsCategory != "" && rec.Category != ingredientsCategory {
			continue
		}
		if ingredientsStatus != "" && string(rec.Status) != ingredientsStatus {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ID, rec.Status, rec.Category, rec.DisplayName)
	}
	w.Flush()
}

func runIngredientsShow(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rec, ok := a.store.Lookup(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown ingredient: %s\n", args[0])
		os.Exit(1)
	}

	output, err := FormatResponse(rec, JSONOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
