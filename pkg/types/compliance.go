package types

import "time"

type ComplianceCategory string

const (
	CategoryToReserve         ComplianceCategory = "toReserve"
	CategoryOtherRequirements ComplianceCategory = "otherRequirements"
)

type ComplianceKind string

const (
	KindUpload       ComplianceKind = "upload"
	KindConfirmation ComplianceKind = "confirmation"
)

type ComplianceState string

const (
	StatePending   ComplianceState = "pending"
	StateCompleted ComplianceState = "completed"
	StateDeclined  ComplianceState = "declined"
)

// Checklist item keys. The set is fixed; items are seeded with the
// quotation and never removed.
const (
	ItemSignedContract   = "signedContract"
	ItemIrrevocablePO    = "irrevocablePo"
	ItemPaymentAsDeposit = "paymentAsDeposit"
	ItemFinalArtwork     = "finalArtwork"
	ItemSignedQuotation  = "signedQuotation"
)

type ComplianceItem struct {
	QuotationID string             `db:"quotation_id"`
	ItemKey     string             `db:"item_key"`
	Category    ComplianceCategory `db:"category"`
	Kind        ComplianceKind     `db:"kind"`
	State       ComplianceState    `db:"state"`
	FileKey     *string            `db:"file_key"`
	UploadedBy  *string            `db:"uploaded_by"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

type ComplianceItemStatus struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	State ComplianceState `json:"state"`
}

// ComplianceSnapshot is derived from the live item set at read time and
// copied onto a booking at creation.
type ComplianceSnapshot struct {
	CompletedCount int                    `json:"completedCount"`
	TotalCount     int                    `json:"totalCount"`
	MissingItems   []string               `json:"missingItems"`
	Items          []ComplianceItemStatus `json:"items"`
}

func (s *ComplianceSnapshot) Complete() bool {
	return s.CompletedCount == s.TotalCount
}
