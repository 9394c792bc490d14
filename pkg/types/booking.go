package types

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          string             `db:"id"`
	QuotationID string             `db:"quotation_id"`
	ProjectName string             `db:"project_name"`
	Snapshot    ComplianceSnapshot `db:"snapshot"` // jsonb, copied at creation
	ArtifactID  string             `db:"artifact_id"`
	Status      BookingStatus      `db:"status"`
	CreatedAt   time.Time          `db:"created_at"`
}
