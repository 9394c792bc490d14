package server

import (
	"io"
	"net/http"

	"boohk/internal/compliance"
	"boohk/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleComplianceSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")

	if _, err := s.quotationsRepo.Quotation(ctx, quotationID); err != nil {
		s.respondError(w, err)
		return
	}

	snapshot, err := s.tracker.Snapshot(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, snapshot)
}

func (s *Service) handleComplianceUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")
	itemKey := flow.Param(ctx, "itemKey")

	signerID, err := s.signerIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain signer")
		s.respondError(w, err)
		return
	}

	if _, err := s.quotationsRepo.Quotation(ctx, quotationID); err != nil {
		s.respondError(w, err)
		return
	}

	// Cap the multipart read slightly above the evidence limit so an
	// oversized file surfaces as a validation error, not a parse error.
	r.Body = http.MaxBytesReader(w, r.Body, compliance.MaxEvidenceBytes+1<<20)
	if err := r.ParseMultipartForm(compliance.MaxEvidenceBytes); err != nil {
		s.respondError(w, &types.ValidationError{Field: "file", Reason: "file exceeds the 10 MB limit"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, &types.ValidationError{Field: "file", Reason: "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded evidence")
		s.respondError(w, err)
		return
	}

	uploaded := compliance.UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}

	if err := s.tracker.UploadEvidence(ctx, quotationID, itemKey, uploaded, signerID); err != nil {
		s.respondError(w, err)
		return
	}

	snapshot, err := s.tracker.Snapshot(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, snapshot)
}

type complianceDecisionForm struct {
	Decision string `form:"decision"` // accept | decline
}

func (s *Service) handleComplianceDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")
	itemKey := flow.Param(ctx, "itemKey")

	signerID, err := s.signerIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain signer")
		s.respondError(w, err)
		return
	}

	if _, err := s.quotationsRepo.Quotation(ctx, quotationID); err != nil {
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	var input complianceDecisionForm
	if err := decoder.Decode(&input, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode decision form")
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	switch input.Decision {
	case "accept":
		err = s.tracker.Accept(ctx, quotationID, itemKey, signerID)
	case "decline":
		err = s.tracker.Decline(ctx, quotationID, itemKey, signerID)
	default:
		s.respondError(w, &types.ValidationError{Field: "decision", Reason: "must be accept or decline"})
		return
	}

	if err != nil {
		s.respondError(w, err)
		return
	}

	snapshot, err := s.tracker.Snapshot(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, snapshot)
}
