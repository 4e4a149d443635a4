package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/middleware"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

type ResumeHandler struct {
	service *service.ResumeService
	log     zerolog.Logger
}

func NewResumeHandler(svc *service.ResumeService, log zerolog.Logger) *ResumeHandler {
	return &ResumeHandler{service: svc, log: log}
}

// HandleGet handles GET /api/resume requests.
func (h *ResumeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSave handles PUT /api/resume requests.
func (h *ResumeHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ResumeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Save(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
