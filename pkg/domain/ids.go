// Package domain holds identity primitives shared across modules. IDs are
// validated at parse time so services never see malformed identifiers.
package domain

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	dErrors "mostokey/pkg/domain-errors"
)

// RecordID identifies a token record. It is the address-equivalent stable id
// handed back by createToken and used by every subsequent operation.
type RecordID uuid.UUID

// NewRecordID allocates a fresh record id.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

// ParseRecordID validates and returns a RecordID.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseRecordID(s string) (RecordID, error) {
	if s == "" {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return RecordID{}, dErrors.New(dErrors.CodeInvalidInput, "record id must not be the nil UUID")
	}
	return RecordID(parsed), nil
}

func (id RecordID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the id is the zero value.
func (id RecordID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id RecordID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// AccountID identifies an account in the host payment environment. The ledger
// treats it as an opaque, printable token supplied by the session layer.
type AccountID string

const maxAccountIDLen = 128

// ParseAccountID validates and returns an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	if len(trimmed) > maxAccountIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id must be 128 characters or less")
	}
	for _, r := range trimmed {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "account id must not contain whitespace or control characters")
		}
	}
	return AccountID(trimmed), nil
}

func (a AccountID) String() string { return string(a) }

// IsZero reports whether the account id is unset.
func (a AccountID) IsZero() bool { return a == "" }
