package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"boohk/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleQuotationList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID, _ := ctx.Value(contextKeyOrgID).(string)

	filter := types.QuotationFilter{
		OrgID:  orgID,
		Status: types.QuotationStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search: r.URL.Query().Get("q"),
	}

	pageNumber := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, &types.ValidationError{Field: "page", Reason: "must be a positive integer"})
			return
		}
		pageNumber = parsed
	}

	page, err := s.pager.FetchPage(ctx, filter, pageNumber)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, page)
}

type createQuotationForm struct {
	Title     string `form:"title"`
	OrgID     string `form:"org_id"`
	IssueDate string `form:"issue_date"` // 2006-01-02, defaults to today
}

func (s *Service) handleQuotationCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	signerID, err := s.signerIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain signer")
		s.respondError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	var input createQuotationForm
	if err := decoder.Decode(&input, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode create quotation form")
		s.respondError(w, &types.ValidationError{Field: "form", Reason: "malformed form body"})
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		s.respondError(w, &types.ValidationError{Field: "title", Reason: "must not be empty"})
		return
	}

	issueDate := time.Now().UTC()
	if input.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", input.IssueDate)
		if err != nil {
			s.respondError(w, &types.ValidationError{Field: "issue_date", Reason: "expected YYYY-MM-DD"})
			return
		}
		issueDate = parsed
	}

	quotation := &types.Quotation{
		OrgID:     strings.TrimSpace(input.OrgID),
		SignerID:  signerID,
		Title:     strings.TrimSpace(input.Title),
		Status:    types.QuotationStatusDraft,
		IssueDate: issueDate,
	}

	if err := s.quotationsRepo.CreateQuotation(ctx, quotation); err != nil {
		s.logger.WithError(err).Error("failed to create quotation")
		s.respondError(w, err)
		return
	}

	// The checklist is part of the quotation, not an afterthought:
	// items exist from the moment the quotation does.
	if err := s.tracker.InitChecklist(ctx, quotation.ID); err != nil {
		s.logger.WithError(err).WithField("quotation_id", quotation.ID).Error("failed to seed compliance checklist")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, quotation)
}

func (s *Service) handleQuotationDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quotationID := flow.Param(ctx, "quotationID")

	quotation, err := s.quotationsRepo.Quotation(ctx, quotationID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, quotation)
}
