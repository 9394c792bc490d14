package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

func testService() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Service{logger: logger}
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        &types.ValidationError{Field: "projectName", Reason: "must not be empty"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "quotation not found",
			err:        types.ErrQuotationNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", types.ErrArtifactNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "generation error",
			err:        &types.GenerationError{Stage: "render", Err: fmt.Errorf("boom")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unclassified error",
			err:        fmt.Errorf("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	s := testService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.respondError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("Expected a non-empty error message")
			}
		})
	}
}

func TestRespondErrorDoesNotLeakInternalCauses(t *testing.T) {
	s := testService()

	rec := httptest.NewRecorder()
	s.respondError(rec, fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("Internal cause leaked into the response: %q", body.Error)
	}
}
