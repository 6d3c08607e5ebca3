package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleDraft() types.Draft {
	d := types.NewDraft()
	d.Name = "Jane Doe"
	d.Email = "jane@example.com"
	d.Summary = "Backend engineer\nwho likes Go"
	d.Experiences[0] = types.ExperienceEntry{JobTitle: "Engineer", Company: "Acme", StartYear: "2019", EndYear: "2023"}
	d.Education[0] = types.EducationEntry{University: "MIT", Degree: "BSc"}
	return d
}

func TestPrintDraft(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraft(sampleDraft())
	output := buf.String()

	assert.Contains(t, output, "CV DRAFT")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Backend engineer who likes Go")
	assert.Contains(t, output, "1. Engineer @ Acme (2019 - 2023)")
	assert.Contains(t, output, "1. BSc, MIT")
	assert.NotContains(t, output, "MIT (")
}

func TestPrintDraft_EmptyFieldsShowDash(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraft(types.NewDraft())
	output := buf.String()

	assert.Contains(t, output, "Name:     -")
	assert.Contains(t, output, "1. - @ -")
	assert.NotContains(t, output, "Summary:")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintSubmission(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSubmission("cvs", "abc-123", time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC))
	output := buf.String()

	assert.Contains(t, output, "CV SUBMITTED")
	assert.Contains(t, output, "abc-123")
	assert.Contains(t, output, "2024-05-06T07:08:09Z")
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var records []types.StoredRecord
	for i := 0; i < 7; i++ {
		d := sampleDraft()
		d.Name = fmt.Sprintf("Person %d", i)
		records = append(records, types.StoredRecord{
			ID:         fmt.Sprintf("id-%d", i),
			Collection: "cvs",
			Record:     types.SubmissionRecord{Draft: d, CreatedAt: time.Date(2024, 1, 1, 10, i, 0, 0, time.UTC)},
		})
	}

	p.PrintRecords("cvs", records)
	output := buf.String()

	assert.Contains(t, output, "STORED CVS: cvs (7)")
	assert.Contains(t, output, "Person 6")
	assert.Contains(t, output, "id: id-0")
	assert.Contains(t, output, "2024-01-01 10:03")
	assert.Equal(t, maxItemsToShow, strings.Count(output, "1 experience, 1 education"))
	assert.Contains(t, output, "latest 5 of 7")
}

func TestPrintRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecords("cvs", nil)

	assert.Contains(t, buf.String(), "No submissions yet.")
}
