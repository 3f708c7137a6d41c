package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"blackgpt-backend/internal/models"
	"blackgpt-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Message: message,
		Error: models.APIError{
			Code:      code,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Error.Fields = fields
	return resp
}

// handleServiceError maps typed service errors to responses. Anything else
// collapses to a 500 carrying fallbackMessage.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", verr.Error(), verr.Fields, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", fallbackMessage, r))
	}
}

// conversationIDParam returns the {id} route parameter exactly as it was
// written. chi matches on the raw path when one exists, so escaped ids are
// decoded here.
func conversationIDParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(id); err == nil {
			id = decoded
		}
	}
	return id
}
