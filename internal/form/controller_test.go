package form

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecorder records every call and returns the configured result.
type fakeRecorder struct {
	mu      sync.Mutex
	id      string
	err     error
	calls   []types.SubmissionRecord
	colls   []string
	release chan struct{}
	entered chan struct{}
}

func (f *fakeRecorder) CreateRecord(_ context.Context, collection string, record types.SubmissionRecord) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, record)
	f.colls = append(f.colls, collection)
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	return f.id, f.err
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestController(rec Recorder) *Controller {
	return New(rec, WithClock(func() time.Time { return fixedNow }))
}

func TestNew_PristineDraft(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	assert.Equal(t, types.NewDraft(), c.Draft())
	assert.Equal(t, types.ModeManual, c.Mode())
	assert.Equal(t, Status{}, c.Status())
}

func TestAddListEntry_Experiences(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	require.NoError(t, c.AddListEntry(types.ListExperiences))

	d := c.Draft()
	require.Len(t, d.Experiences, 2)
	assert.Equal(t, types.ExperienceEntry{}, d.Experiences[1])
	assert.Len(t, d.Education, 1)
}

func TestAddListEntry_UnknownList(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	err := c.AddListEntry("skills")

	var target *ErrUnknownList
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, types.NewDraft(), c.Draft())
}

func TestRemoveListEntry_LastEntryIsNoop(t *testing.T) {
	for _, list := range []types.ListName{types.ListExperiences, types.ListEducation} {
		t.Run(string(list), func(t *testing.T) {
			c := newTestController(&fakeRecorder{})
			require.NoError(t, c.EditListEntry(list, 0, firstField(list), "kept"))
			before := c.Draft()

			removed, err := c.RemoveListEntry(list, 0)

			require.NoError(t, err)
			assert.False(t, removed)
			assert.Equal(t, before, c.Draft())
			assert.Equal(t, 1, c.Len(list))
		})
	}
}

func TestRemoveListEntry_ShiftsLeft(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	require.NoError(t, c.AddListEntry(types.ListExperiences))
	require.NoError(t, c.EditExperience(0, types.ExperienceCompany, "First"))
	require.NoError(t, c.EditExperience(1, types.ExperienceCompany, "Second"))
	second := c.Draft().Experiences[1]

	removed, err := c.RemoveListEntry(types.ListExperiences, 0)

	require.NoError(t, err)
	assert.True(t, removed)
	d := c.Draft()
	require.Len(t, d.Experiences, 1)
	assert.Equal(t, second, d.Experiences[0])
}

func TestRemoveListEntry_MiddleKeepsOrder(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	for i := 0; i < 3; i++ {
		require.NoError(t, c.AddListEntry(types.ListEducation))
	}
	for i, name := range []string{"A", "B", "C", "D"} {
		require.NoError(t, c.EditEducation(i, types.EducationUniversity, name))
	}

	removed, err := c.RemoveListEntry(types.ListEducation, 1)
	require.NoError(t, err)
	require.True(t, removed)

	var got []string
	for _, e := range c.Draft().Education {
		got = append(got, e.University)
	}
	assert.Equal(t, []string{"A", "C", "D"}, got)
}

func TestRemoveListEntry_OutOfRange(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	require.NoError(t, c.AddListEntry(types.ListEducation))

	_, err := c.RemoveListEntry(types.ListEducation, 5)

	var target *ErrIndexOutOfRange
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 5, target.Index)
	assert.Equal(t, 2, target.Len)
	assert.Equal(t, 2, c.Len(types.ListEducation))
}

func TestListLengthAccounting(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, list := range []types.ListName{types.ListExperiences, types.ListEducation} {
		c := newTestController(&fakeRecorder{})
		adds, removes := 0, 0

		for i := 0; i < 500; i++ {
			if rng.Intn(2) == 0 {
				require.NoError(t, c.AddListEntry(list))
				adds++
			} else {
				idx := rng.Intn(c.Len(list))
				removed, err := c.RemoveListEntry(list, idx)
				require.NoError(t, err)
				if removed {
					removes++
				}
			}
			require.GreaterOrEqual(t, c.Len(list), 1)
			require.Equal(t, 1+adds-removes, c.Len(list))
		}
	}
}

func TestEditExperience_NonInterference(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	require.NoError(t, c.EditScalarField(types.FieldName, "Alice"))
	require.NoError(t, c.AddListEntry(types.ListExperiences))
	require.NoError(t, c.AddListEntry(types.ListExperiences))
	for i := 0; i < 3; i++ {
		for _, f := range types.ExperienceFields {
			require.NoError(t, c.EditExperience(i, f, "orig"))
		}
	}
	before := c.Draft()

	require.NoError(t, c.EditExperience(1, types.ExperienceEndYear, "2024"))

	after := c.Draft()
	want := before.Clone()
	want.Experiences[1].EndYear = "2024"
	if diff := cmp.Diff(want, after); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestEditEducation_NonInterference(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	require.NoError(t, c.AddListEntry(types.ListEducation))
	require.NoError(t, c.EditEducation(0, types.EducationDegree, "BSc"))
	before := c.Draft()

	require.NoError(t, c.EditEducation(1, types.EducationDegree, "MSc"))

	want := before.Clone()
	want.Education[1].Degree = "MSc"
	if diff := cmp.Diff(want, c.Draft()); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestEditListEntry_OutOfRangeLeavesDraft(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	before := c.Draft()

	err := c.EditExperience(3, types.ExperienceCompany, "Nope")

	var target *ErrIndexOutOfRange
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, before, c.Draft())

	err = c.EditEducation(-1, types.EducationDegree, "Nope")
	assert.ErrorAs(t, err, &target)
}

func TestEditListEntry_ByWireName(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	require.NoError(t, c.EditListEntry(types.ListExperiences, 0, "jobTitle", "Engineer"))
	require.NoError(t, c.EditListEntry(types.ListEducation, 0, "university", "MIT"))

	d := c.Draft()
	assert.Equal(t, "Engineer", d.Experiences[0].JobTitle)
	assert.Equal(t, "MIT", d.Education[0].University)

	var fieldErr *ErrUnknownField
	assert.ErrorAs(t, c.EditListEntry(types.ListEducation, 0, "description", "x"), &fieldErr)
	var listErr *ErrUnknownList
	assert.ErrorAs(t, c.EditListEntry("skills", 0, "name", "x"), &listErr)
}

func TestEditScalarField_DoesNotTouchLists(t *testing.T) {
	c := newTestController(&fakeRecorder{})
	require.NoError(t, c.AddListEntry(types.ListExperiences))
	require.NoError(t, c.EditExperience(1, types.ExperienceCompany, "Acme"))
	before := c.Draft()

	for _, f := range types.ScalarFields {
		require.NoError(t, c.EditScalarField(f, "value-"+string(f)))
	}

	after := c.Draft()
	assert.Equal(t, before.Experiences, after.Experiences)
	assert.Equal(t, before.Education, after.Education)
	assert.Equal(t, "value-name", after.Name)
	assert.Equal(t, "value-email", after.Email)
	assert.Equal(t, "value-summary", after.Summary)
}

func TestEditScalarField_Idempotent(t *testing.T) {
	once := newTestController(&fakeRecorder{})
	twice := newTestController(&fakeRecorder{})

	require.NoError(t, once.EditScalarField(types.FieldName, "Alice"))
	require.NoError(t, twice.EditScalarField(types.FieldName, "Alice"))
	require.NoError(t, twice.EditScalarField(types.FieldName, "Alice"))

	assert.Equal(t, once.Draft(), twice.Draft())
}

func TestEditScalarField_Unknown(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	err := c.EditScalarField("experiences", "x")

	var target *ErrUnknownField
	assert.ErrorAs(t, err, &target)
}

func TestDraft_ReturnsCopy(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	d := c.Draft()
	d.Experiences[0].Company = "Mutated"
	d.Name = "Mutated"

	assert.Equal(t, types.NewDraft(), c.Draft())
}

func TestLoad_PadsEmptyLists(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	c.Load(types.Draft{Name: "Bob"})

	d := c.Draft()
	assert.Equal(t, "Bob", d.Name)
	assert.Len(t, d.Experiences, 1)
	assert.Len(t, d.Education, 1)
}

func TestSetMode(t *testing.T) {
	c := newTestController(&fakeRecorder{})

	assert.ErrorIs(t, c.SetMode(types.ModePDF), ErrModeUnavailable)
	assert.Equal(t, types.ModeManual, c.Mode())
	assert.NoError(t, c.SetMode(types.ModeManual))
}

func TestSubmit_SuccessResetsDraft(t *testing.T) {
	rec := &fakeRecorder{id: "rec-1"}
	c := New(rec, WithClock(func() time.Time { return fixedNow }), WithCollection("applicants"))
	require.NoError(t, c.EditScalarField(types.FieldName, "Alice"))
	require.NoError(t, c.EditScalarField(types.FieldEmail, "alice@example.com"))
	require.NoError(t, c.AddListEntry(types.ListExperiences))
	require.NoError(t, c.EditExperience(1, types.ExperienceJobTitle, "Engineer"))
	submitted := c.Draft()

	id, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "rec-1", id)
	assert.Equal(t, types.NewDraft(), c.Draft())
	assert.Equal(t, Status{Succeeded: true, SubmittedAt: fixedNow}, c.Status())

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "applicants", rec.colls[0])
	assert.Equal(t, submitted, rec.calls[0].Draft)
	assert.Equal(t, fixedNow, rec.calls[0].CreatedAt)
}

func TestSubmit_FailureKeepsDraft(t *testing.T) {
	cause := errors.New("connection refused")
	rec := &fakeRecorder{err: cause}
	c := newTestController(rec)
	require.NoError(t, c.EditScalarField(types.FieldName, "Alice"))
	require.NoError(t, c.EditEducation(0, types.EducationDegree, "PhD"))
	before := c.Draft()

	id, err := c.Submit(context.Background())

	assert.Empty(t, id)
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.NotEmpty(t, err.Error())
	assert.Equal(t, FailureMessage, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, before, c.Draft())
	assert.Equal(t, Status{Error: FailureMessage}, c.Status())
	assert.Equal(t, types.DefaultCollection, rec.colls[0])
}

func TestSubmit_SuccessClearsPriorError(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("boom")}
	c := newTestController(rec)

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, FailureMessage, c.Status().Error)

	rec.err = nil
	rec.id = "ok"
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Status{Succeeded: true, SubmittedAt: fixedNow}, c.Status())
}

func TestSubmit_RejectsConcurrentCall(t *testing.T) {
	rec := &fakeRecorder{
		id:      "first",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := newTestController(rec)

	type result struct {
		id  string
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := c.Submit(context.Background())
		done <- result{id, err}
	}()

	<-rec.entered
	assert.True(t, c.Status().InFlight)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(rec.release)
	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, "first", first.id)
	assert.Len(t, rec.calls, 1)
	assert.False(t, c.Status().InFlight)
}

func firstField(list types.ListName) string {
	if list == types.ListExperiences {
		return string(types.ExperienceJobTitle)
	}
	return string(types.EducationUniversity)
}
