package types

import "time"

// Signer is the identity a quotation is signed by. SignatureSignedAt is
// the signature version: it moves every time the capture widget stores a
// new signature image.
type Signer struct {
	ID                string     `db:"id"`
	Email             *string    `db:"email"`
	DisplayName       *string    `db:"display_name"`
	CompanyID         *string    `db:"company_id"`
	SignatureKey      *string    `db:"signature_key"`
	SignatureSignedAt *time.Time `db:"signature_signed_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

type Company struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	ContactEmail  *string   `db:"contact_email"`
	ContactPerson *string   `db:"contact_person"`
	LogoKey       *string   `db:"logo_key"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
