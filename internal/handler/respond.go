package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
)

const maxBodyBytes = 1 << 20 // 1MB

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// writeError renders err using its apperr kind. Server errors are logged with
// their cause and reach the client only as "internal server error".
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	if kind == apperr.KindServer {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, status, errorResponse("internal server error"))
		return
	}

	var e *apperr.Error
	errors.As(err, &e)
	writeJSON(w, status, ErrorResponse{Error: e.Message, Details: e.Details})
}

// decodeJSON reads a size-limited JSON body into dst. On failure it writes the
// response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}
