package types

import "time"

// Artifact is a generated quotation PDF. Rows are immutable; a
// regeneration inserts a new row and repoints Quotation.ArtifactID.
type Artifact struct {
	ID          string `db:"id"`
	QuotationID string `db:"quotation_id"`
	StorageKey  string `db:"storage_key"`
	Password    string `db:"password"`

	// SignerVersion is the signature version the PDF was rendered
	// against. Nil when the signer had no signature on file at render
	// time.
	SignerVersion *time.Time `db:"signer_version"`

	GeneratedAt time.Time `db:"generated_at"`
}
