package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/jonathan/cv-uploader/internal/store"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one stored CV submission",
	Long:  "Prints the stored draft of a submission in the configured collection.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return showRecord(cmd.Context(), a.store, a.cfg.Collection, args[0], observability.NewPrinter(os.Stdout))
}

func showRecord(ctx context.Context, s store.Store, collection, id string, printer *observability.Printer) error {
	rec, err := s.GetRecord(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("submission %s not found in %s", id, collection)
	}

	printer.PrintSubmission(rec.Collection, rec.ID, rec.Record.CreatedAt)
	printer.PrintDraft(rec.Record.Draft)
	return nil
}
