package models

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the targeted record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrListingUnavailable indicates a sale was attempted on a listing that is already sold.
var ErrListingUnavailable = errors.New("listing is no longer available")

// ErrEmptyExport indicates an export was requested over an empty result set.
var ErrEmptyExport = errors.New("no sales to export")

// ErrStorage marks failures of the persistence or network layer.
var ErrStorage = errors.New("storage failure")

// ValidationError reports a missing or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PartialFailureError is returned when a sale was persisted but the follow-up
// step that closes the listing failed. The sale stands; the caller must run the
// compensation keyed on SaleID.
type PartialFailureError struct {
	SaleID string
	Step   string
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("sale %s persisted but %s failed: %v", e.SaleID, e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
