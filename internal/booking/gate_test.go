package booking

import (
	"context"
	"errors"
	"io"
	"testing"

	"boohk/internal/artifact"
	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

type fakeQuotationStore struct {
	quotations map[string]*types.Quotation
	statuses   map[string]types.QuotationStatus
}

func (s *fakeQuotationStore) Quotation(_ context.Context, quotationID string) (*types.Quotation, error) {
	q, ok := s.quotations[quotationID]
	if !ok {
		return nil, types.ErrQuotationNotFound
	}
	return q, nil
}

func (s *fakeQuotationStore) SetStatus(_ context.Context, quotationID string, status types.QuotationStatus) error {
	if s.statuses == nil {
		s.statuses = make(map[string]types.QuotationStatus)
	}
	s.statuses[quotationID] = status
	return nil
}

type fakeBookingStore struct {
	created []*types.Booking
}

func (s *fakeBookingStore) CreateBooking(_ context.Context, booking *types.Booking) error {
	s.created = append(s.created, booking)
	return nil
}

type fakeComplianceSource struct {
	snapshot *types.ComplianceSnapshot
}

func (s *fakeComplianceSource) Snapshot(_ context.Context, _ string) (*types.ComplianceSnapshot, error) {
	return s.snapshot, nil
}

type fakeArtifactSource struct {
	calls  int
	result *artifact.Result
}

func (s *fakeArtifactSource) GetOrGenerate(_ context.Context, _ string) (*artifact.Result, error) {
	s.calls++
	return s.result, nil
}

func completeSnapshot() *types.ComplianceSnapshot {
	items := []types.ComplianceItemStatus{
		{Key: types.ItemSignedContract, Name: "Signed Contract", State: types.StateCompleted},
		{Key: types.ItemIrrevocablePO, Name: "Irrevocable PO", State: types.StateCompleted},
		{Key: types.ItemPaymentAsDeposit, Name: "Payment as Deposit", State: types.StateCompleted},
		{Key: types.ItemFinalArtwork, Name: "Final Artwork", State: types.StateCompleted},
		{Key: types.ItemSignedQuotation, Name: "Signed Quotation", State: types.StateCompleted},
	}
	return &types.ComplianceSnapshot{CompletedCount: 5, TotalCount: 5, MissingItems: []string{}, Items: items}
}

func incompleteSnapshot() *types.ComplianceSnapshot {
	items := []types.ComplianceItemStatus{
		{Key: types.ItemSignedContract, Name: "Signed Contract", State: types.StateCompleted},
		{Key: types.ItemIrrevocablePO, Name: "Irrevocable PO", State: types.StatePending},
		{Key: types.ItemPaymentAsDeposit, Name: "Payment as Deposit", State: types.StatePending},
		{Key: types.ItemFinalArtwork, Name: "Final Artwork", State: types.StateDeclined},
		{Key: types.ItemSignedQuotation, Name: "Signed Quotation", State: types.StatePending},
	}
	return &types.ComplianceSnapshot{
		CompletedCount: 1,
		TotalCount:     5,
		MissingItems:   []string{"Irrevocable PO", "Payment as Deposit", "Final Artwork", "Signed Quotation"},
		Items:          items,
	}
}

type gateFixture struct {
	gate       *Gate
	quotations *fakeQuotationStore
	bookings   *fakeBookingStore
	artifacts  *fakeArtifactSource
}

func newGateFixture(quotation *types.Quotation, snapshot *types.ComplianceSnapshot) *gateFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &gateFixture{
		quotations: &fakeQuotationStore{quotations: map[string]*types.Quotation{quotation.ID: quotation}},
		bookings:   &fakeBookingStore{},
		artifacts:  &fakeArtifactSource{result: &artifact.Result{ArtifactID: "art-generated", StorageKey: "quotations/q1/art-generated.pdf", Password: "p"}},
	}
	f.gate = NewGate(f.quotations, f.bookings, &fakeComplianceSource{snapshot: snapshot}, f.artifacts, logger)
	return f
}

func TestCreateBookingEmptyProjectName(t *testing.T) {
	f := newGateFixture(&types.Quotation{ID: "q1"}, completeSnapshot())

	_, err := f.gate.CreateBooking(context.Background(), "q1", "   ", false)

	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(f.bookings.created) != 0 {
		t.Error("Invalid input must not create a booking")
	}
}

func TestCreateBookingIncompleteWithoutAcknowledgement(t *testing.T) {
	artifactID := "art-1"
	f := newGateFixture(&types.Quotation{ID: "q1", ArtifactID: &artifactID}, incompleteSnapshot())

	result, err := f.gate.CreateBooking(context.Background(), "q1", "Spring campaign", false)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if result.Incomplete == nil {
		t.Fatal("Expected the incomplete snapshot back")
	}
	if result.BookingID != "" {
		t.Error("Incomplete gate must not return a booking ID")
	}
	if len(f.bookings.created) != 0 {
		t.Error("Incomplete gate must not create a booking")
	}
	if _, ok := f.quotations.statuses["q1"]; ok {
		t.Error("Incomplete gate must not change quotation status")
	}
}

func TestCreateBookingIncompleteAcknowledged(t *testing.T) {
	artifactID := "art-1"
	f := newGateFixture(&types.Quotation{ID: "q1", ArtifactID: &artifactID}, incompleteSnapshot())

	result, err := f.gate.CreateBooking(context.Background(), "q1", "Spring campaign", true)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if result.Incomplete != nil {
		t.Fatal("Acknowledged incomplete must create the booking")
	}
	if result.BookingID == "" {
		t.Fatal("Expected a booking ID")
	}
	if len(f.bookings.created) != 1 {
		t.Fatalf("Expected one booking, got %d", len(f.bookings.created))
	}

	booking := f.bookings.created[0]
	if booking.Snapshot.CompletedCount != 1 || booking.Snapshot.TotalCount != 5 {
		t.Errorf("Booking must carry the snapshot as of creation, got %d/%d", booking.Snapshot.CompletedCount, booking.Snapshot.TotalCount)
	}
	if f.quotations.statuses["q1"] != types.QuotationStatusReserved {
		t.Errorf("Expected quotation reserved, got %s", f.quotations.statuses["q1"])
	}
}

func TestCreateBookingCompleteChecklist(t *testing.T) {
	artifactID := "art-1"
	f := newGateFixture(&types.Quotation{ID: "q1", ArtifactID: &artifactID}, completeSnapshot())

	result, err := f.gate.CreateBooking(context.Background(), "q1", "Spring campaign", false)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if result.BookingID == "" {
		t.Fatal("Expected a booking ID")
	}
	booking := f.bookings.created[0]
	if booking.ArtifactID != artifactID {
		t.Errorf("Expected existing artifact %s on the booking, got %s", artifactID, booking.ArtifactID)
	}
	if booking.Status != types.BookingStatusConfirmed {
		t.Errorf("Expected confirmed booking, got %s", booking.Status)
	}
	if f.artifacts.calls != 0 {
		t.Error("Existing artifact must not trigger generation")
	}
}

func TestCreateBookingGeneratesMissingArtifact(t *testing.T) {
	f := newGateFixture(&types.Quotation{ID: "q1"}, completeSnapshot())

	_, err := f.gate.CreateBooking(context.Background(), "q1", "Spring campaign", false)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if f.artifacts.calls != 1 {
		t.Fatalf("Expected one artifact generation, got %d", f.artifacts.calls)
	}
	if f.bookings.created[0].ArtifactID != "art-generated" {
		t.Errorf("Booking must reference the generated artifact, got %s", f.bookings.created[0].ArtifactID)
	}
}

func TestCreateBookingUnknownQuotation(t *testing.T) {
	f := newGateFixture(&types.Quotation{ID: "q1"}, completeSnapshot())

	_, err := f.gate.CreateBooking(context.Background(), "missing", "Spring campaign", false)
	if !errors.Is(err, types.ErrQuotationNotFound) {
		t.Fatalf("Expected ErrQuotationNotFound, got %v", err)
	}
}

func TestValidateForJobOrder(t *testing.T) {
	withStates := func(contract, quotation types.ComplianceState) *types.ComplianceSnapshot {
		return &types.ComplianceSnapshot{
			TotalCount: 5,
			Items: []types.ComplianceItemStatus{
				{Key: types.ItemSignedContract, Name: "Signed Contract", State: contract},
				{Key: types.ItemIrrevocablePO, Name: "Irrevocable PO", State: types.StatePending},
				{Key: types.ItemPaymentAsDeposit, Name: "Payment as Deposit", State: types.StatePending},
				{Key: types.ItemFinalArtwork, Name: "Final Artwork", State: types.StatePending},
				{Key: types.ItemSignedQuotation, Name: "Signed Quotation", State: quotation},
			},
		}
	}

	tests := []struct {
		name      string
		contract  types.ComplianceState
		quotation types.ComplianceState
		want      bool
	}{
		{name: "signed contract completed", contract: types.StateCompleted, quotation: types.StatePending, want: true},
		{name: "signed quotation completed", contract: types.StatePending, quotation: types.StateCompleted, want: true},
		{name: "both completed", contract: types.StateCompleted, quotation: types.StateCompleted, want: true},
		{name: "neither completed", contract: types.StatePending, quotation: types.StateDeclined, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(&types.Quotation{ID: "q1"}, withStates(tt.contract, tt.quotation))

			valid, snapshot, err := f.gate.ValidateForJobOrder(context.Background(), "q1")
			if err != nil {
				t.Fatalf("ValidateForJobOrder failed: %v", err)
			}
			if valid != tt.want {
				t.Errorf("Expected valid=%v, got %v", tt.want, valid)
			}
			if snapshot == nil {
				t.Error("Expected the snapshot alongside the verdict")
			}
		})
	}
}
