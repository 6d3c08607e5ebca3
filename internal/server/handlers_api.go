package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/cv-uploader/internal/types"
)

// maxRequestBytes bounds a JSON draft body.
const maxRequestBytes = 1 << 20

// createCVRequest is a draft posted as JSON. Name and email carry the same
// constraints as the HTML inputs; list lengths match maxListEntries.
type createCVRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Email       string                  `json:"email" validate:"required,email"`
	Summary     string                  `json:"summary"`
	Experiences []types.ExperienceEntry `json:"experiences" validate:"max=100"`
	Education   []types.EducationEntry  `json:"education" validate:"max=100"`
}

func (r createCVRequest) draft() types.Draft {
	return types.Draft{
		Name:        r.Name,
		Email:       r.Email,
		Summary:     r.Summary,
		Experiences: r.Experiences,
		Education:   r.Education,
	}
}

// handleCreateCV submits a JSON draft. Requests sharing an X-Form-Session
// header share one controller.
func (s *Server) handleCreateCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req createCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationError(err).Error())
		return
	}

	ctrl := s.newController()
	if header := r.Header.Get(sessionHeader); header != "" {
		session := sessionID(header)
		ctrl = s.sessions.acquire(session)
		w.Header().Set(sessionHeader, session)
	}
	ctrl.Load(req.draft())

	id, err := ctrl.Submit(r.Context())
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id})
}
