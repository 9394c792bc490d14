package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"boohk/pkg/types"
)

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps the error taxonomy onto status codes: validation
// 422, not-found 404, generation 502, everything else 500. Validation
// and not-found bodies carry the message; internal causes do not leak.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	var validationErr *types.ValidationError
	var generationErr *types.GenerationError

	switch {
	case errors.As(err, &validationErr):
		s.respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: validationErr.Error()})
	case isNotFound(err):
		s.respondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &generationErr):
		s.logger.WithError(err).Error("pdf generation failed")
		s.respondJSON(w, http.StatusBadGateway, errorBody{Error: "pdf generation failed"})
	default:
		s.logger.WithError(err).Error("request failed")
		s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrQuotationNotFound) ||
		errors.Is(err, types.ErrArtifactNotFound) ||
		errors.Is(err, types.ErrBookingNotFound) ||
		errors.Is(err, types.ErrSignerNotFound) ||
		errors.Is(err, types.ErrComplianceItemNotFound)
}

func (s *Service) unauthorized(w http.ResponseWriter) {
	s.respondJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
}
