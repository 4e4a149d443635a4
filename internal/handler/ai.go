package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

// AIHandler handles resume analysis and cover letter requests.
type AIHandler struct {
	service  *service.AIService
	validate *Validator
	log      zerolog.Logger
}

func NewAIHandler(svc *service.AIService, v *Validator, log zerolog.Logger) *AIHandler {
	return &AIHandler{service: svc, validate: v, log: log}
}

// HandleAnalyze handles POST /ai/analyze requests.
func (h *AIHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCoverLetter handles POST /ai/cover-letter requests.
func (h *AIHandler) HandleCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req model.CoverLetterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.service.CoverLetter(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
