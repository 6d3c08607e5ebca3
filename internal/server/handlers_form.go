package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jonathan/cv-uploader/internal/form"
	"github.com/jonathan/cv-uploader/internal/types"
)

// maxListEntries bounds the entries per list accepted from a posted form or JSON draft.
const maxListEntries = 100

const (
	actionSubmit = "submit"
	actionAdd    = "add:"
	actionRemove = "remove:"
	actionMode   = "mode:"
)

const rateLimitedMessage = "Too many submissions. Please wait a moment and try again."

type inputView struct {
	Name      string
	Label     string
	Value     string
	Type      string
	Required  bool
	Multiline bool
}

type entryView struct {
	Index  int
	Inputs []inputView
}

type listView struct {
	Name      types.ListName
	Title     string
	AddLabel  string
	Entries   []entryView
	CanRemove bool
}

type formView struct {
	Session    string
	ManualMode bool
	Scalars    []inputView
	Lists      []listView
	InFlight   bool
	Succeeded  bool
	RecordID   string
	Error      string
}

// handleFormPage renders an empty form with a fresh session id.
func (s *Server) handleFormPage(w http.ResponseWriter, _ *http.Request) {
	s.renderForm(w, http.StatusOK, s.buildView(newSessionID(), s.newController()))
}

// handleFormPost applies the posted action to the posted draft and re-renders the form.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	ctrl := s.newController()
	if err := applyPostedDraft(ctrl, r.PostForm); err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	id := sessionID(r.PostForm.Get(sessionField))
	action := r.PostForm.Get("action")
	if action == actionSubmit {
		s.submitForm(w, r, id, ctrl)
		return
	}

	err := applyAction(ctrl, action)
	view := s.buildView(id, ctrl)
	status := http.StatusOK
	if err != nil {
		status = HTTPStatus(err)
		view.Error = err.Error()
		if status == http.StatusInternalServerError {
			s.logger.Error().Err(err).Str("action", action).Msg("form action failed")
		}
	}
	s.renderForm(w, status, view)
}

// submitForm submits the posted draft through the session's controller. Only
// submits count against the client's form rate limit; a limited submit
// re-renders the posted draft.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, id string, posted *form.Controller) {
	allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
	s.setRateLimitHeaders(w, info)
	if !allowed {
		s.logRateLimited(info)
		setRetryAfter(w, info)
		view := s.buildView(id, posted)
		view.Error = rateLimitedMessage
		s.renderForm(w, http.StatusTooManyRequests, view)
		return
	}

	ctrl := s.sessions.acquire(id)
	ctrl.Load(posted.Draft())
	recordID, err := ctrl.Submit(r.Context())

	view := s.buildView(id, ctrl)
	if err != nil {
		view.Error = err.Error()
		s.renderForm(w, HTTPStatus(err), view)
		return
	}
	view.Succeeded = true
	view.RecordID = recordID
	s.renderForm(w, http.StatusOK, view)
}

// applyAction runs one non-submit form action.
func applyAction(ctrl *form.Controller, action string) error {
	switch {
	case strings.HasPrefix(action, actionAdd):
		return ctrl.AddListEntry(types.ListName(strings.TrimPrefix(action, actionAdd)))
	case strings.HasPrefix(action, actionRemove):
		list, idx, ok := strings.Cut(strings.TrimPrefix(action, actionRemove), ":")
		if !ok {
			return &ErrBadAction{Action: action}
		}
		index, err := strconv.Atoi(idx)
		if err != nil {
			return &ErrBadAction{Action: action}
		}
		_, err = ctrl.RemoveListEntry(types.ListName(list), index)
		return err
	case strings.HasPrefix(action, actionMode):
		return ctrl.SetMode(types.Mode(strings.TrimPrefix(action, actionMode)))
	default:
		return &ErrBadAction{Action: action}
	}
}

type postedEntry struct {
	list  types.ListName
	index int
	field string
	value string
}

// applyPostedDraft loads form values named name, email, summary and
// <list>.<index>.<field> into ctrl. Each list is sized by its highest posted
// index; entries between posted indices stay empty.
func applyPostedDraft(ctrl *form.Controller, values url.Values) error {
	var (
		d       types.Draft
		entries []postedEntry
		sizes   = make(map[types.ListName]int)
	)
	for key, vals := range values {
		value := ""
		if len(vals) > 0 {
			value = vals[0]
		}

		listName, rest, ok := strings.Cut(key, ".")
		if !ok {
			if field, ok := types.ParseScalarField(key); ok {
				d.Set(field, value)
			}
			continue
		}
		list, ok := types.ParseListName(listName)
		if !ok {
			continue
		}
		idx, fieldName, ok := strings.Cut(rest, ".")
		if !ok {
			return &ErrValidation{Field: key, Message: "expected <list>.<index>.<field>"}
		}
		index, err := strconv.Atoi(idx)
		if err != nil || index < 0 || index >= maxListEntries {
			return &ErrValidation{Field: key, Message: "invalid entry index"}
		}

		entries = append(entries, postedEntry{list: list, index: index, field: fieldName, value: value})
		sizes[list] = max(sizes[list], index+1)
	}

	d.Experiences = make([]types.ExperienceEntry, sizes[types.ListExperiences])
	d.Education = make([]types.EducationEntry, sizes[types.ListEducation])
	ctrl.Load(d)

	for _, e := range entries {
		if err := ctrl.EditListEntry(e.list, e.index, e.field, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) buildView(session string, ctrl *form.Controller) formView {
	d := ctrl.Draft()
	view := formView{
		Session:    session,
		ManualMode: ctrl.Mode() == types.ModeManual,
		InFlight:   ctrl.Status().InFlight,
	}

	for _, f := range types.ScalarFields {
		in := inputView{Name: string(f), Label: f.Label(), Value: d.Get(f), Type: "text"}
		switch f {
		case types.FieldName:
			in.Required = true
		case types.FieldEmail:
			in.Required = true
			in.Type = "email"
		case types.FieldSummary:
			in.Multiline = true
		}
		view.Scalars = append(view.Scalars, in)
	}

	experiences := listView{
		Name:      types.ListExperiences,
		Title:     "Work Experience",
		AddLabel:  "Add Experience",
		CanRemove: len(d.Experiences) > 1,
	}
	for i := range d.Experiences {
		entry := entryView{Index: i}
		for _, f := range types.ExperienceFields {
			entry.Inputs = append(entry.Inputs, inputView{
				Name:      entryInputName(types.ListExperiences, i, string(f)),
				Label:     f.Label(),
				Value:     d.Experiences[i].Get(f),
				Type:      "text",
				Multiline: f == types.ExperienceDescription,
			})
		}
		experiences.Entries = append(experiences.Entries, entry)
	}

	education := listView{
		Name:      types.ListEducation,
		Title:     "Education",
		AddLabel:  "Add Education",
		CanRemove: len(d.Education) > 1,
	}
	for i := range d.Education {
		entry := entryView{Index: i}
		for _, f := range types.EducationFields {
			entry.Inputs = append(entry.Inputs, inputView{
				Name:  entryInputName(types.ListEducation, i, string(f)),
				Label: f.Label(),
				Value: d.Education[i].Get(f),
				Type:  "text",
			})
		}
		education.Entries = append(education.Entries, entry)
	}

	view.Lists = []listView{experiences, education}
	return view
}

func entryInputName(list types.ListName, index int, field string) string {
	return string(list) + "." + strconv.Itoa(index) + "." + field
}

func (s *Server) renderForm(w http.ResponseWriter, status int, view formView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "form.html", view); err != nil {
		s.logger.Error().Err(err).Msg("failed to render form")
	}
}
