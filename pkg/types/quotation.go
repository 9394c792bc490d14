package types

import (
	"time"
)

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusViewed   QuotationStatus = "viewed"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
	QuotationStatusReserved QuotationStatus = "reserved"
	QuotationStatusBooked   QuotationStatus = "booked"
)

// LineItem is one priced row of a quotation. Stored as jsonb on the
// quotation record.
type LineItem struct {
	Description string `json:"description" form:"description"`
	Quantity    int    `json:"quantity" form:"quantity"`
	UnitCents   int64  `json:"unitCents" form:"unit_cents"`
	TotalCents  int64  `json:"totalCents"`
}

type Quotation struct {
	ID          string          `db:"id" json:"id"`
	OrgID       string          `db:"org_id" json:"orgId"`
	SignerID    string          `db:"signer_id" json:"signerId"`
	Title       string          `db:"title" json:"title"`
	Status      QuotationStatus `db:"status" json:"status"`
	PageGroupID *string         `db:"page_group_id" json:"pageGroupId"`
	LineItems   []LineItem      `db:"line_items" json:"lineItems"` // jsonb
	IssueDate   time.Time       `db:"issue_date" json:"issueDate"`
	ExpiryDate  *time.Time      `db:"expiry_date" json:"expiryDate"`

	// ArtifactID points at the current PDF artifact. Superseded artifacts
	// keep their rows; only this pointer moves.
	ArtifactID *string `db:"artifact_id" json:"artifactId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (q *Quotation) TotalCents() int64 {
	var total int64
	for _, item := range q.LineItems {
		total += item.TotalCents
	}
	return total
}

// QuotationFilter scopes a page fetch. Search is applied as a post-filter
// on fetched pages, not pushed into the query.
type QuotationFilter struct {
	OrgID  string
	Status QuotationStatus
	Search string
}

// PageKey is the ordering key of the last item on a page: creation
// timestamp descending with the ID as tie-break.
type PageKey struct {
	CreatedAt time.Time
	ID        string
}
