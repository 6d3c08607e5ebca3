package main

import (
	"fmt"
	"os"

	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored CV submissions",
	Long:  "Prints the most recent submissions of the configured collection, newest first.",
	RunE:  runList,
}

var (
	listLimit int
)

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of submissions to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if listLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.store.ListRecords(cmd.Context(), a.cfg.Collection, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintRecords(a.cfg.Collection, records)
	return nil
}
