package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/cv-uploader/internal/form"
	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/jonathan/cv-uploader/internal/tui"
	"github.com/spf13/cobra"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in and submit a CV interactively",
	Long:  "Prompts for contact details, then offers a menu to add, edit and remove work experience and education entries before submitting.",
	RunE:  runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := form.New(a.store,
		form.WithCollection(a.cfg.Collection),
		form.WithLogger(a.logger),
	)

	id, err := tui.Fill(cmd.Context(), ctrl, tui.NewSurveyDriver(os.Stdout))
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(os.Stderr, "Aborted.")
		return nil
	}
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("No CV submitted.")
		return nil
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintSubmission(a.cfg.Collection, id, ctrl.Status().SubmittedAt)
	} else {
		fmt.Printf("Submitted CV %s\n", id)
	}
	return nil
}
