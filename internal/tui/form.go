package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-uploader/internal/form"
	"github.com/jonathan/cv-uploader/internal/observability"
	"github.com/jonathan/cv-uploader/internal/types"
)

// Menu entries.
const (
	menuEditContact      = "Edit contact details"
	menuAddExperience    = "Add experience"
	menuEditExperience   = "Edit experience"
	menuRemoveExperience = "Remove experience"
	menuAddEducation     = "Add education"
	menuEditEducation    = "Edit education"
	menuRemoveEducation  = "Remove education"
	menuReview           = "Review draft"
	menuSubmit           = "Submit CV"
	menuQuit             = "Quit without submitting"
)

const successMessage = "CV uploaded successfully!"

// filler runs one terminal form session against a controller.
type filler struct {
	ctrl     *form.Controller
	driver   PromptDriver
	validate *validator.Validate
}

// Fill asks for the contact fields and then runs the menu until the draft is
// submitted or the user quits. It returns the record id, or "" when the user
// quit without submitting. A failed submission keeps the draft and returns to the menu.
func Fill(ctx context.Context, ctrl *form.Controller, driver PromptDriver) (string, error) {
	f := &filler{ctrl: ctrl, driver: driver, validate: validator.New()}

	if err := f.editContact(ctx); err != nil {
		return "", err
	}

	for {
		options := f.menu()
		choice, err := driver.Select(ctx, SelectConfig{Message: "What next?", Options: options, PageSize: len(options)})
		if err != nil {
			return "", err
		}
		if choice < 0 || choice >= len(options) {
			return "", fmt.Errorf("invalid menu choice %d", choice)
		}

		switch options[choice] {
		case menuEditContact:
			err = f.editContact(ctx)
		case menuAddExperience:
			err = f.addEntry(ctx, types.ListExperiences)
		case menuEditExperience:
			err = f.editEntry(ctx, types.ListExperiences)
		case menuRemoveExperience:
			err = f.removeEntry(ctx, types.ListExperiences)
		case menuAddEducation:
			err = f.addEntry(ctx, types.ListEducation)
		case menuEditEducation:
			err = f.editEntry(ctx, types.ListEducation)
		case menuRemoveEducation:
			err = f.removeEntry(ctx, types.ListEducation)
		case menuReview:
			err = f.review(ctx)
		case menuSubmit:
			id, done, submitErr := f.submit(ctx)
			if submitErr != nil || done {
				return id, submitErr
			}
		case menuQuit:
			return "", nil
		}
		if err != nil {
			return "", err
		}
	}
}

// menu lists the actions available for the current draft. Remove entries
// appear only when the list holds more than one entry.
func (f *filler) menu() []string {
	options := []string{menuEditContact, menuAddExperience, menuEditExperience}
	if f.ctrl.Len(types.ListExperiences) > 1 {
		options = append(options, menuRemoveExperience)
	}
	options = append(options, menuAddEducation, menuEditEducation)
	if f.ctrl.Len(types.ListEducation) > 1 {
		options = append(options, menuRemoveEducation)
	}
	return append(options, menuReview, menuSubmit, menuQuit)
}

func (f *filler) required(tag string) func(string) error {
	return func(v string) error {
		if err := f.validate.Var(strings.TrimSpace(v), tag); err != nil {
			if strings.Contains(tag, "email") && strings.TrimSpace(v) != "" {
				return errors.New("please enter a valid email address")
			}
			return errors.New("this field is required")
		}
		return nil
	}
}

func (f *filler) editContact(ctx context.Context) error {
	d := f.ctrl.Draft()

	name, err := f.driver.Input(ctx, InputConfig{
		Message:   types.FieldName.Label(),
		Default:   d.Name,
		Validator: f.required("required"),
	})
	if err != nil {
		return err
	}
	email, err := f.driver.Input(ctx, InputConfig{
		Message:   types.FieldEmail.Label(),
		Default:   d.Email,
		Validator: f.required("required,email"),
	})
	if err != nil {
		return err
	}
	summary, err := f.driver.TextArea(ctx, TextAreaConfig{
		Message: types.FieldSummary.Label(),
		Default: d.Summary,
	})
	if err != nil {
		return err
	}

	for field, value := range map[types.ScalarField]string{
		types.FieldName:    name,
		types.FieldEmail:   email,
		types.FieldSummary: summary,
	} {
		if err := f.ctrl.EditScalarField(field, value); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) addEntry(ctx context.Context, list types.ListName) error {
	if err := f.ctrl.AddListEntry(list); err != nil {
		return err
	}
	return f.editFields(ctx, list, f.ctrl.Len(list)-1)
}

func (f *filler) editEntry(ctx context.Context, list types.ListName) error {
	index, err := f.pickEntry(ctx, list, "Which entry?")
	if err != nil {
		return err
	}
	return f.editFields(ctx, list, index)
}

func (f *filler) removeEntry(ctx context.Context, list types.ListName) error {
	index, err := f.pickEntry(ctx, list, "Remove which entry?")
	if err != nil {
		return err
	}
	ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Remove %s?", f.entryLabels(list)[index])})
	if err != nil || !ok {
		return err
	}
	_, err = f.ctrl.RemoveListEntry(list, index)
	return err
}

// pickEntry asks which entry to work on; a single entry is picked without asking.
func (f *filler) pickEntry(ctx context.Context, list types.ListName, message string) (int, error) {
	labels := f.entryLabels(list)
	if len(labels) == 1 {
		return 0, nil
	}
	index, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels})
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(labels) {
		return 0, &form.ErrIndexOutOfRange{List: string(list), Index: index, Len: len(labels)}
	}
	return index, nil
}

func (f *filler) entryLabels(list types.ListName) []string {
	d := f.ctrl.Draft()
	var labels []string
	switch list {
	case types.ListExperiences:
		for i, e := range d.Experiences {
			labels = append(labels, fmt.Sprintf("%d. %s @ %s", i+1, placeholder(e.JobTitle), placeholder(e.Company)))
		}
	case types.ListEducation:
		for i, e := range d.Education {
			labels = append(labels, fmt.Sprintf("%d. %s, %s", i+1, placeholder(e.Degree), placeholder(e.University)))
		}
	}
	return labels
}

func placeholder(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

func (f *filler) editFields(ctx context.Context, list types.ListName, index int) error {
	d := f.ctrl.Draft()
	switch list {
	case types.ListExperiences:
		entry := d.Experiences[index]
		for _, field := range types.ExperienceFields {
			value, err := f.ask(ctx, field.Label(), entry.Get(field), field == types.ExperienceDescription)
			if err != nil {
				return err
			}
			if err := f.ctrl.EditExperience(index, field, value); err != nil {
				return err
			}
		}
	case types.ListEducation:
		entry := d.Education[index]
		for _, field := range types.EducationFields {
			value, err := f.ask(ctx, field.Label(), entry.Get(field), false)
			if err != nil {
				return err
			}
			if err := f.ctrl.EditEducation(index, field, value); err != nil {
				return err
			}
		}
	default:
		return &form.ErrUnknownList{List: string(list)}
	}
	return nil
}

func (f *filler) ask(ctx context.Context, label, current string, multiline bool) (string, error) {
	if multiline {
		return f.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current})
	}
	return f.driver.Input(ctx, InputConfig{Message: label, Default: current})
}

func (f *filler) review(ctx context.Context) error {
	var sb strings.Builder
	observability.NewPrinter(&sb).PrintDraft(f.ctrl.Draft())
	return f.driver.Info(ctx, sb.String())
}

// submit reports done when the draft was stored. A *form.SubmitError is shown
// and swallowed so the user can retry.
func (f *filler) submit(ctx context.Context) (id string, done bool, err error) {
	ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Submit this CV?", Default: true})
	if err != nil || !ok {
		return "", false, err
	}

	id, err = f.ctrl.Submit(ctx)
	var submitErr *form.SubmitError
	switch {
	case err == nil:
		return id, true, f.driver.Info(ctx, successMessage)
	case errors.As(err, &submitErr):
		return "", false, f.driver.Info(ctx, submitErr.Error())
	default:
		return "", false, err
	}
}
