// Package compliance owns the fixed document checklist each quotation
// carries and the transition rules for its items.
package compliance

import (
	"context"
	"fmt"
	"strings"

	"boohk/internal/utils"
	"boohk/pkg/types"

	"github.com/sirupsen/logrus"
)

const MaxEvidenceBytes = 10 << 20 // 10 MB

// ItemDef is one predeclared checklist entry. The set is fixed and not
// user-configurable; Checklist order is the display order everywhere.
type ItemDef struct {
	Key      string
	Name     string
	Category types.ComplianceCategory
	Kind     types.ComplianceKind
}

var Checklist = []ItemDef{
	{Key: types.ItemSignedContract, Name: "Signed Contract", Category: types.CategoryToReserve, Kind: types.KindUpload},
	{Key: types.ItemIrrevocablePO, Name: "Irrevocable PO", Category: types.CategoryToReserve, Kind: types.KindUpload},
	{Key: types.ItemPaymentAsDeposit, Name: "Payment as Deposit", Category: types.CategoryToReserve, Kind: types.KindConfirmation},
	{Key: types.ItemFinalArtwork, Name: "Final Artwork", Category: types.CategoryOtherRequirements, Kind: types.KindUpload},
	{Key: types.ItemSignedQuotation, Name: "Signed Quotation", Category: types.CategoryOtherRequirements, Kind: types.KindUpload},
}

func checklistDef(itemKey string) (ItemDef, bool) {
	for _, def := range Checklist {
		if def.Key == itemKey {
			return def, true
		}
	}
	return ItemDef{}, false
}

type ItemStore interface {
	ItemsByQuotation(ctx context.Context, quotationID string) ([]types.ComplianceItem, error)
	Item(ctx context.Context, quotationID, itemKey string) (*types.ComplianceItem, error)
	SeedItems(ctx context.Context, items []types.ComplianceItem) error
	SetState(ctx context.Context, quotationID, itemKey string, state types.ComplianceState, fileKey *string, actor string) error
}

type BlobStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// UploadedFile is the evidence payload after the HTTP boundary has read
// it out of the multipart form.
type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

type Tracker struct {
	items  ItemStore
	blobs  BlobStore
	logger *logrus.Logger
}

func NewTracker(items ItemStore, blobs BlobStore, logger *logrus.Logger) *Tracker {
	return &Tracker{
		items:  items,
		blobs:  blobs,
		logger: logger,
	}
}

// InitChecklist seeds the fixed item set for a new quotation. All items
// start pending.
func (t *Tracker) InitChecklist(ctx context.Context, quotationID string) error {
	items := make([]types.ComplianceItem, 0, len(Checklist))
	for _, def := range Checklist {
		items = append(items, types.ComplianceItem{
			QuotationID: quotationID,
			ItemKey:     def.Key,
			Category:    def.Category,
			Kind:        def.Kind,
			State:       types.StatePending,
		})
	}

	return t.items.SeedItems(ctx, items)
}

// UploadEvidence validates the file, stores it, and completes the item.
// Nothing is mutated when validation fails.
func (t *Tracker) UploadEvidence(ctx context.Context, quotationID, itemKey string, file UploadedFile, actor string) error {

	def, ok := checklistDef(itemKey)
	if !ok {
		return types.ErrComplianceItemNotFound
	}

	if def.Kind != types.KindUpload {
		return &types.ValidationError{Field: "itemKey", Reason: fmt.Sprintf("%s is a confirmation item, not an upload", itemKey)}
	}

	if err := validateEvidence(file); err != nil {
		return err
	}

	storageKey := fmt.Sprintf("compliance/%s/%s-%s.pdf", quotationID, itemKey, utils.NanoIDSize(8))
	if _, err := t.blobs.Upload(ctx, storageKey, file.Data, "application/pdf"); err != nil {
		return fmt.Errorf("failed to store evidence for %s: %w", itemKey, err)
	}

	if err := t.items.SetState(ctx, quotationID, itemKey, types.StateCompleted, &storageKey, actor); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"quotation_id": quotationID,
		"item_key":     itemKey,
		"file_name":    file.Name,
	}).Info("compliance evidence uploaded")

	return nil
}

// Accept marks an item completed without a fresh upload: confirmation
// items always, upload items only when evidence is already on file (the
// re-accept path after a decline).
func (t *Tracker) Accept(ctx context.Context, quotationID, itemKey string, actor string) error {

	def, ok := checklistDef(itemKey)
	if !ok {
		return types.ErrComplianceItemNotFound
	}

	if def.Kind == types.KindUpload {
		item, err := t.items.Item(ctx, quotationID, itemKey)
		if err != nil {
			return err
		}
		if item.FileKey == nil || *item.FileKey == "" {
			return &types.ValidationError{Field: "itemKey", Reason: fmt.Sprintf("%s requires an uploaded file before it can be accepted", itemKey)}
		}
	}

	return t.items.SetState(ctx, quotationID, itemKey, types.StateCompleted, nil, actor)
}

// Decline marks an item declined. Declined counts as not completed but
// stays distinguishable from pending for audit.
func (t *Tracker) Decline(ctx context.Context, quotationID, itemKey string, actor string) error {

	if _, ok := checklistDef(itemKey); !ok {
		return types.ErrComplianceItemNotFound
	}

	return t.items.SetState(ctx, quotationID, itemKey, types.StateDeclined, nil, actor)
}

// Snapshot derives the aggregate checklist state from the live item
// set. Missing items keep the fixed checklist order, toReserve before
// otherRequirements.
func (t *Tracker) Snapshot(ctx context.Context, quotationID string) (*types.ComplianceSnapshot, error) {

	items, err := t.items.ItemsByQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	states := make(map[string]types.ComplianceState, len(items))
	for _, item := range items {
		states[item.ItemKey] = item.State
	}

	snapshot := &types.ComplianceSnapshot{
		TotalCount:   len(Checklist),
		MissingItems: make([]string, 0, len(Checklist)),
		Items:        make([]types.ComplianceItemStatus, 0, len(Checklist)),
	}

	for _, def := range Checklist {
		state, ok := states[def.Key]
		if !ok {
			state = types.StatePending
		}

		snapshot.Items = append(snapshot.Items, types.ComplianceItemStatus{
			Key:   def.Key,
			Name:  def.Name,
			State: state,
		})

		if state == types.StateCompleted {
			snapshot.CompletedCount++
		} else {
			snapshot.MissingItems = append(snapshot.MissingItems, def.Name)
		}
	}

	return snapshot, nil
}

func validateEvidence(file UploadedFile) error {
	if file.Size <= 0 || len(file.Data) == 0 {
		return &types.ValidationError{Field: "file", Reason: "empty file"}
	}

	if file.Size > MaxEvidenceBytes {
		return &types.ValidationError{Field: "file", Reason: "file exceeds the 10 MB limit"}
	}

	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if contentType != "application/pdf" && contentType != "application/x-pdf" {
		return &types.ValidationError{Field: "file", Reason: "only PDF files are accepted"}
	}

	return nil
}
