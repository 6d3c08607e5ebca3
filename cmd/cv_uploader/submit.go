package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/cv-uploader/internal/form"
	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/jonathan/cv-uploader/internal/schemas"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a CV draft from a JSON file",
	Long:  "Checks a draft JSON file against the draft schema and submits it through the configured store.",
	RunE:  runSubmit,
}

var (
	submitFile string
)

func init() {
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "Path to draft JSON file (required)")

	if err := submitCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	draft, err := loadDraftFile(submitFile)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(os.Stdout)
	if verbose {
		printer.PrintDraft(draft.Normalize())
	}

	id, submittedAt, err := submitDraft(cmd.Context(), a.store, a.cfg.Collection, draft, a.logger)
	if err != nil {
		return err
	}

	if verbose {
		printer.PrintSubmission(a.cfg.Collection, id, submittedAt)
	} else {
		fmt.Printf("Submitted CV %s\n", id)
	}
	return nil
}

// loadDraftFile validates path against the draft schema and decodes it.
func loadDraftFile(path string) (types.Draft, error) {
	if err := schemas.ValidateDraftFile(path); err != nil {
		return types.Draft{}, fmt.Errorf("invalid draft file %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return types.Draft{}, fmt.Errorf("failed to read draft file: %w", err)
	}

	var draft types.Draft
	if err := json.Unmarshal(content, &draft); err != nil {
		return types.Draft{}, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return draft, nil
}

// submitDraft loads draft into a fresh controller and submits it. It returns the
// record id and the creation time stamped on the record.
func submitDraft(ctx context.Context, rec form.Recorder, collection string, draft types.Draft, logger zerolog.Logger) (string, time.Time, error) {
	ctrl := form.New(rec,
		form.WithCollection(collection),
		form.WithLogger(logger),
	)
	ctrl.Load(draft)
	id, err := ctrl.Submit(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	return id, ctrl.Status().SubmittedAt, nil
}
