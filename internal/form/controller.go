// Package form holds the CV draft state and the operations the form applies to it.
package form

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Recorder persists a finished submission and returns the id assigned by the store.
type Recorder interface {
	CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error)
}

// Status is the banner state shown next to the form.
type Status struct {
	InFlight    bool      `json:"in_flight"`
	Succeeded   bool      `json:"succeeded"`
	SubmittedAt time.Time `json:"submitted_at,omitzero"`
	Error       string    `json:"error,omitempty"`
}

// Controller owns one Draft and applies edits, list operations and submission to it.
// It is safe for concurrent use; at most one submission is in flight at a time.
type Controller struct {
	recorder   Recorder
	collection string
	now        func() time.Time
	logger     zerolog.Logger

	mu     sync.Mutex
	draft  types.Draft
	mode   types.Mode
	status Status

	submitting *semaphore.Weighted
}

// Option configures a Controller.
type Option func(*Controller)

// WithCollection sets the collection submissions are written to.
func WithCollection(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.collection = name
		}
	}
}

// WithClock overrides the clock used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used to report submission failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a Controller holding a pristine draft.
func New(recorder Recorder, opts ...Option) *Controller {
	c := &Controller{
		recorder:   recorder,
		collection: types.DefaultCollection,
		now:        time.Now,
		logger:     zerolog.Nop(),
		draft:      types.NewDraft(),
		mode:       types.ModeManual,
		submitting: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() types.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Load replaces the draft with d. Empty lists are padded with one empty entry.
func (c *Controller) Load(d types.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d.Normalize()
}

// Reset replaces the draft with the pristine shape.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = types.NewDraft()
}

// Status returns the current banner state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Mode returns the active entry mode.
func (c *Controller) Mode() types.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the entry mode. Only manual entry is implemented.
func (c *Controller) SetMode(mode types.Mode) error {
	if mode != types.ModeManual {
		return ErrModeUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	return nil
}

// EditScalarField sets name, email or summary.
func (c *Controller) EditScalarField(field types.ScalarField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.draft.Clone()
	if !next.Set(field, value) {
		return &ErrUnknownField{Scope: "draft", Field: string(field)}
	}
	c.draft = next
	return nil
}

// EditExperience replaces one field of the experience entry at index.
func (c *Controller) EditExperience(index int, field types.ExperienceField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(types.ListExperiences, index); err != nil {
		return err
	}
	next := c.draft.Clone()
	if !next.Experiences[index].Set(field, value) {
		return &ErrUnknownField{Scope: string(types.ListExperiences), Field: string(field)}
	}
	c.draft = next
	return nil
}

// EditEducation replaces one field of the education entry at index.
func (c *Controller) EditEducation(index int, field types.EducationField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(types.ListEducation, index); err != nil {
		return err
	}
	next := c.draft.Clone()
	if !next.Education[index].Set(field, value) {
		return &ErrUnknownField{Scope: string(types.ListEducation), Field: string(field)}
	}
	c.draft = next
	return nil
}

// EditListEntry edits a list entry addressed by wire names, as posted by a presentation layer.
func (c *Controller) EditListEntry(list types.ListName, index int, fieldName, value string) error {
	switch list {
	case types.ListExperiences:
		field, ok := types.ParseExperienceField(fieldName)
		if !ok {
			return &ErrUnknownField{Scope: string(list), Field: fieldName}
		}
		return c.EditExperience(index, field, value)
	case types.ListEducation:
		field, ok := types.ParseEducationField(fieldName)
		if !ok {
			return &ErrUnknownField{Scope: string(list), Field: fieldName}
		}
		return c.EditEducation(index, field, value)
	default:
		return &ErrUnknownList{List: string(list)}
	}
}

// AddListEntry appends an empty entry to the named list.
func (c *Controller) AddListEntry(list types.ListName) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.draft.Clone()
	switch list {
	case types.ListExperiences:
		next.Experiences = append(next.Experiences, types.ExperienceEntry{})
	case types.ListEducation:
		next.Education = append(next.Education, types.EducationEntry{})
	default:
		return &ErrUnknownList{List: string(list)}
	}
	c.draft = next
	return nil
}

// RemoveListEntry removes the entry at index, shifting later entries left.
// It reports false and leaves the list untouched when only one entry remains.
func (c *Controller) RemoveListEntry(list types.ListName, index int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(list, index); err != nil {
		return false, err
	}
	if c.lenLocked(list) <= 1 {
		return false, nil
	}
	next := c.draft.Clone()
	switch list {
	case types.ListExperiences:
		next.Experiences = append(next.Experiences[:index], next.Experiences[index+1:]...)
	case types.ListEducation:
		next.Education = append(next.Education[:index], next.Education[index+1:]...)
	}
	c.draft = next
	return true, nil
}

// Len returns the number of entries in the named list, or 0 for an unknown list.
func (c *Controller) Len(list types.ListName) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lenLocked(list)
}

// Submit writes the current draft to the recorder.
//
// On success the draft is reset to the pristine shape and the record id is returned.
// On failure the draft is kept and a *SubmitError is returned. A call made while
// another submission is outstanding returns ErrSubmissionInFlight without side effects.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	if !c.submitting.TryAcquire(1) {
		return "", ErrSubmissionInFlight
	}
	defer c.submitting.Release(1)

	c.mu.Lock()
	record := types.SubmissionRecord{
		Draft:     c.draft.Clone(),
		CreatedAt: c.now().UTC(),
	}
	c.status = Status{InFlight: true}
	c.mu.Unlock()

	id, err := c.recorder.CreateRecord(ctx, c.collection, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error().Err(err).Str("collection", c.collection).Msg("cv submission failed")
		c.status = Status{Error: FailureMessage}
		return "", &SubmitError{Cause: err}
	}

	c.logger.Info().Str("collection", c.collection).Str("id", id).Msg("cv submitted")
	c.draft = types.NewDraft()
	c.status = Status{Succeeded: true, SubmittedAt: record.CreatedAt}
	return id, nil
}

func (c *Controller) lenLocked(list types.ListName) int {
	switch list {
	case types.ListExperiences:
		return len(c.draft.Experiences)
	case types.ListEducation:
		return len(c.draft.Education)
	}
	return 0
}

func (c *Controller) checkIndex(list types.ListName, index int) error {
	if _, ok := types.ParseListName(string(list)); !ok {
		return &ErrUnknownList{List: string(list)}
	}
	n := c.lenLocked(list)
	if index < 0 || index >= n {
		return &ErrIndexOutOfRange{List: string(list), Index: index, Len: n}
	}
	return nil
}
