package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

// ResetHandler serves the two halves of the password reset flow.
type ResetHandler struct {
	service  *service.ResetService
	validate *Validator
	log      zerolog.Logger
}

func NewResetHandler(svc *service.ResetService, v *Validator, log zerolog.Logger) *ResetHandler {
	return &ResetHandler{service: svc, validate: v, log: log}
}

// HandleForgotPassword handles POST /api/auth/forgot-password requests.
func (h *ResetHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.service.RequestReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleResetPassword handles POST /api/auth/reset-password requests.
func (h *ResetHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Validate(req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp, err := h.service.ConsumeReset(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
