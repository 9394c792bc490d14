package server

import (
	"net/http"

	"boohk/pkg/types"

	"github.com/alexedwards/flow"
)

type createBookingForm struct {
	ProjectName           string `form:"project_name"`
	AcknowledgeIncomplete bool   `form:"acknowledge_incomplete"`
}

type bookingCreatedBody struct {
	BookingID string `json:"bookingId"`
}

type complianceIncompleteBody struct {
	ComplianceIncomplete bool                      `json:"complianceIncomplete"`
	Snapshot             *types.ComplianceSnapshot `json:"snapshot"`
}

func (s *Service) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")

	if err := r.ParseForm(); err != nil {
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	var input createBookingForm
	if err := decoder.Decode(&input, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode booking form")
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	result, err := s.gate.CreateBooking(ctx, quotationID, input.ProjectName, input.AcknowledgeIncomplete)
	if err != nil {
		s.respondError(w, err)
		return
	}

	// An incomplete checklist without acknowledgement is a distinct
	// control-flow branch: the caller shows the missing items and may
	// re-submit with acknowledge_incomplete set.
	if result.Incomplete != nil {
		s.respondJSON(w, http.StatusConflict, complianceIncompleteBody{
			ComplianceIncomplete: true,
			Snapshot:             result.Incomplete,
		})
		return
	}

	s.respondJSON(w, http.StatusCreated, bookingCreatedBody{BookingID: result.BookingID})
}

type jobOrderValidationBody struct {
	Valid    bool                      `json:"valid"`
	Snapshot *types.ComplianceSnapshot `json:"snapshot"`
}

func (s *Service) handleJobOrderValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")

	if _, err := s.quotationsRepo.Quotation(ctx, quotationID); err != nil {
		s.respondError(w, err)
		return
	}

	valid, snapshot, err := s.gate.ValidateForJobOrder(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, jobOrderValidationBody{Valid: valid, Snapshot: snapshot})
}
