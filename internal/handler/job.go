package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/middleware"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

// JobHandler handles HTTP requests for job applications.
type JobHandler struct {
	service  *service.JobService
	validate *Validator
	log      zerolog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc *service.JobService, v *Validator, log zerolog.Logger) *JobHandler {
	return &JobHandler{service: svc, validate: v, log: log}
}

// HandleList handles GET /api/jobs requests.
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	jobs, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// HandleGet handles GET /api/jobs/{id} requests.
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	job, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleCreate handles POST /api/jobs requests.
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.JobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	job, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// HandleUpdate handles PUT /api/jobs/{id} requests.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req model.JobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	job, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleDelete handles DELETE /api/jobs/{id} requests.
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// target resolves the caller and the {id} URL parameter.
func (h *JobHandler) target(w http.ResponseWriter, r *http.Request) (userID, id int64, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return 0, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid job id"))
		return 0, 0, false
	}
	return userID, id, true
}
