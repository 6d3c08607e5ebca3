// Package types provides type definitions for the CV data collected by the uploader.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DefaultCollection is the document collection submissions are written to.
const DefaultCollection = "cvs"

// Draft is the in-progress CV submission being edited.
type Draft struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Summary     string            `json:"summary"`
	Experiences []ExperienceEntry `json:"experiences"`
	Education   []EducationEntry  `json:"education"`
}

// ExperienceEntry is one work experience item. Years are free-form strings.
type ExperienceEntry struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
	Description string `json:"description"`
}

// EducationEntry is one education item. Years are free-form strings.
type EducationEntry struct {
	University string `json:"university"`
	Degree     string `json:"degree"`
	StartYear  string `json:"startYear"`
	EndYear    string `json:"endYear"`
}

// SubmissionRecord is the document written to the store: the draft plus its creation time.
type SubmissionRecord struct {
	Draft
	CreatedAt time.Time `json:"createdAt"`
}

// StoredRecord pairs a persisted record with the id the store assigned to it.
type StoredRecord struct {
	ID         string           `json:"id"`
	Collection string           `json:"collection"`
	Record     SubmissionRecord `json:"record"`
}

// NewDraft returns the pristine draft: empty scalars, one empty experience and one empty education entry.
func NewDraft() Draft {
	return Draft{
		Experiences: []ExperienceEntry{{}},
		Education:   []EducationEntry{{}},
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	out.Experiences = append([]ExperienceEntry(nil), d.Experiences...)
	out.Education = append([]EducationEntry(nil), d.Education...)
	return out
}

// Normalize pads empty lists with a single empty entry so both lists hold at least one item.
func (d Draft) Normalize() Draft {
	out := d.Clone()
	if len(out.Experiences) == 0 {
		out.Experiences = []ExperienceEntry{{}}
	}
	if len(out.Education) == 0 {
		out.Education = []EducationEntry{{}}
	}
	return out
}

// Mode is the entry mode shown by the form.
type Mode string

const (
	ModeManual Mode = "manual"
	// ModePDF is shown but never selectable.
	ModePDF Mode = "pdf"
)
