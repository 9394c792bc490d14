// Package booking gates reservation creation on the compliance
// checklist and orchestrates artifact availability plus booking record
// creation as one logical unit.
package booking

import (
	"context"
	"strings"
	"time"

	"boohk/internal/artifact"
	"boohk/internal/utils"
	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

type QuotationStore interface {
	Quotation(ctx context.Context, quotationID string) (*types.Quotation, error)
	SetStatus(ctx context.Context, quotationID string, status types.QuotationStatus) error
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *types.Booking) error
}

type ComplianceSource interface {
	Snapshot(ctx context.Context, quotationID string) (*types.ComplianceSnapshot, error)
}

type ArtifactSource interface {
	GetOrGenerate(ctx context.Context, quotationID string) (*artifact.Result, error)
}

// CreateResult carries exactly one of the two outcomes: the new booking
// ID, or the snapshot the caller must present for acknowledgement.
// Incomplete is a control-flow branch, not an error.
type CreateResult struct {
	BookingID  string
	Incomplete *types.ComplianceSnapshot
}

type Gate struct {
	quotations QuotationStore
	bookings   BookingStore
	compliance ComplianceSource
	artifacts  ArtifactSource
	logger     *logrus.Logger
}

func NewGate(
	quotations QuotationStore,
	bookings BookingStore,
	compliance ComplianceSource,
	artifacts ArtifactSource,
	logger *logrus.Logger,
) *Gate {
	return &Gate{
		quotations: quotations,
		bookings:   bookings,
		compliance: compliance,
		artifacts:  artifacts,
		logger:     logger,
	}
}

// CreateBooking runs the reservation gate. With a complete checklist or
// an explicit acknowledgement it creates the booking, copies the
// current snapshot onto it, and moves the quotation to reserved.
// Otherwise it creates nothing and returns the snapshot.
func (g *Gate) CreateBooking(ctx context.Context, quotationID, projectName string, acknowledgeIncomplete bool) (*CreateResult, error) {

	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, &types.ValidationError{Field: "projectName", Reason: "must not be empty"}
	}

	quotation, err := g.quotations.Quotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	var artifactID string
	if quotation.ArtifactID != nil {
		artifactID = *quotation.ArtifactID
	} else {
		generated, err := g.artifacts.GetOrGenerate(ctx, quotationID)
		if err != nil {
			return nil, err
		}
		artifactID = generated.ArtifactID
	}

	snapshot, err := g.compliance.Snapshot(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	if !snapshot.Complete() && !acknowledgeIncomplete {
		return &CreateResult{Incomplete: snapshot}, nil
	}

	booking := &types.Booking{
		ID:          utils.NanoID(),
		QuotationID: quotationID,
		ProjectName: projectName,
		Snapshot:    *snapshot,
		ArtifactID:  artifactID,
		Status:      types.BookingStatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}

	if err := g.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if err := g.quotations.SetStatus(ctx, quotationID, types.QuotationStatusReserved); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"quotation_id": quotationID,
		"booking_id":   booking.ID,
		"acknowledged": acknowledgeIncomplete && !snapshot.Complete(),
	}).Info("booking created")

	return &CreateResult{BookingID: booking.ID}, nil
}

// ValidateForJobOrder is the narrower precondition for creating a job
// order: either the signed contract or the signed quotation must be
// completed, independent of the rest of the checklist.
func (g *Gate) ValidateForJobOrder(ctx context.Context, quotationID string) (bool, *types.ComplianceSnapshot, error) {

	snapshot, err := g.compliance.Snapshot(ctx, quotationID)
	if err != nil {
		return false, nil, err
	}

	for _, item := range snapshot.Items {
		if item.Key != types.ItemSignedContract && item.Key != types.ItemSignedQuotation {
			continue
		}
		if item.State == types.StateCompleted {
			return true, snapshot, nil
		}
	}

	return false, snapshot, nil
}
