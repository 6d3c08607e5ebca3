// Package observability provides boxed summaries of drafts and stored records for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-uploader/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens line to the box's inner width, counting runes.
func truncate(line string) string {
	if utf8.RuneCountInString(line) <= boxWidth-4 {
		return line
	}
	runes := []rune(line)
	return string(runes[:boxWidth-7]) + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yearRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return fmt.Sprintf(" (%s - %s)", orDash(start), orDash(end))
}

func writeDraft(sb *strings.Builder, d types.Draft) {
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(d.Name)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(d.Email)))
	if d.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", strings.ReplaceAll(d.Summary, "\n", " ")))
	}

	sb.WriteString(fmt.Sprintf("\nExperience (%d):\n", len(d.Experiences)))
	for i, e := range d.Experiences {
		sb.WriteString(fmt.Sprintf("  %d. %s @ %s%s\n", i+1, orDash(e.JobTitle), orDash(e.Company), yearRange(e.StartYear, e.EndYear)))
	}

	sb.WriteString(fmt.Sprintf("\nEducation (%d):\n", len(d.Education)))
	for i, e := range d.Education {
		sb.WriteString(fmt.Sprintf("  %d. %s, %s%s\n", i+1, orDash(e.Degree), orDash(e.University), yearRange(e.StartYear, e.EndYear)))
	}
}

// PrintDraft outputs the draft being edited.
func (p *Printer) PrintDraft(d types.Draft) {
	var sb strings.Builder
	writeDraft(&sb, d)
	p.printBox("CV DRAFT", sb.String())
}

// PrintSubmission outputs the result of a successful submission.
func (p *Printer) PrintSubmission(collection, id string, at time.Time) {
	content := fmt.Sprintf("Collection: %s\nID:         %s\nCreated:    %s", collection, id, at.UTC().Format(time.RFC3339))
	p.printBox("CV SUBMITTED", content)
}

// PrintRecords outputs stored submissions, newest first, with the most recent
// ones expanded.
func (p *Printer) PrintRecords(collection string, records []types.StoredRecord) {
	var sb strings.Builder
	if len(records) == 0 {
		sb.WriteString("No submissions yet.\n")
		p.printBox(fmt.Sprintf("STORED CVS: %s", collection), sb.String())
		return
	}

	for i, r := range records {
		sb.WriteString(fmt.Sprintf("%s  %s <%s>\n", r.Record.CreatedAt.UTC().Format("2006-01-02 15:04"), orDash(r.Record.Name), orDash(r.Record.Email)))
		sb.WriteString(fmt.Sprintf("  id: %s\n", r.ID))
		if i < maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  %d experience, %d education\n", len(r.Record.Experiences), len(r.Record.Education)))
		}
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\nShowing details for the latest %d of %d\n", maxItemsToShow, len(records)))
	}

	p.printBox(fmt.Sprintf("STORED CVS: %s (%d)", collection, len(records)), sb.String())
}
