package types

import (
	"errors"
	"fmt"
)

var (
	ErrQuotationNotFound      = errors.New("quotation not found")
	ErrArtifactNotFound       = errors.New("artifact not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrSignerNotFound         = errors.New("signer not found")
	ErrCompanyNotFound        = errors.New("company not found")
	ErrComplianceItemNotFound = errors.New("compliance item not found")
)

// ValidationError is a boundary failure (bad file type/size, empty
// project name). Nothing is mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GenerationError wraps a renderer or asset-fetch failure during PDF
// generation. No artifact is recorded when one is returned, so callers
// may retry.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("pdf generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
