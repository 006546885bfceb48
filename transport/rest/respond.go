package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

type errorResponse struct {
	Message string `json:"message"`
}

func (that *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// respondError - translates the error taxonomy into transport status codes.
// This is the only layer allowed to do that translation.
func (that *Handlers) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case apperror.IsNotFound(err):
		status = http.StatusNotFound
	case apperror.IsValidation(err), apperror.IsInvalidMove(err):
		status = http.StatusBadRequest
	case apperror.IsConflict(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.respondJSON(w, status, errorResponse{Message: err.Error()})
}

// decodeBody - decodes a JSON request body; responds 400 and returns false on
// malformed input.
func (that *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		that.respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}

	return true
}
