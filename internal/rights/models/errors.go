package models

import (
	"errors"
	"fmt"

	"mostokey/pkg/domain"
)

// Failure taxonomy for the rights ledger. Typed values so callers can match
// with errors.Is/errors.As and read the structured fields; the service layer
// attaches transport codes when surfacing them.
var (
	ErrInvalidSupply       = errors.New("total supply must be greater than 0")
	ErrInvalidPrice        = errors.New("price per token must be greater than 0")
	ErrMissingAttestation  = errors.New("ownership attestation is required")
	ErrInvalidAttestation  = errors.New("ownership attestation failed verification")
	ErrOverflow            = errors.New("purchase cost overflows the payment amount range")
	ErrTransferFailed      = errors.New("value transfer failed")
	ErrRecordInactive      = errors.New("token record is inactive")
	ErrAlreadyDeactivated  = errors.New("token record is already inactive")
)

// Duplicate fields reported by DuplicateError.
const (
	FieldVideoURL = "video_url"
	FieldName     = "name"
	FieldSymbol   = "symbol"
)

// DuplicateError reports which field of a new record collided with an
// existing active record.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an active token record with this %s already exists", e.Field)
}

// AvailabilityError reports a purchase amount exceeding the unsold supply
// (or a zero amount).
type AvailabilityError struct {
	Requested uint64
	Available uint64
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("requested %d units, %d available", e.Requested, e.Available)
}

// InsufficientPaymentError reports attached payment below the purchase cost.
type InsufficientPaymentError struct {
	Required uint64
	Given    uint64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment of %d is below the required %d", e.Given, e.Required)
}

// NotFoundError reports an unknown record id.
type NotFoundError struct {
	ID domain.RecordID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("token record %s not found", e.ID)
}
