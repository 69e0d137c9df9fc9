// Package store defines the persistence contract for the rights ledger. The
// record table, share balances, and creator earnings are owned exclusively by
// one Ledger implementation; services mutate them only through Atomic so
// every state-mutating operation commits as one indivisible transition.
package store

import (
	"context"

	"mostokey/internal/rights/models"
	"mostokey/pkg/domain"
)

// Ledger is the handle services hold on the backing store. Read methods
// observe only fully-committed state and may run concurrently; mutations go
// through Atomic.
type Ledger interface {
	// Atomic runs fn against a transactional view of the ledger. Either
	// every mutation fn performed commits, or (when fn returns an error)
	// none of them are observable. Implementations serialize Atomic calls
	// into a total order with respect to each other.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	// FindRecord returns a snapshot of one record, or sentinel.ErrNotFound.
	FindRecord(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error)

	// ListRecords returns every record id in creation order.
	ListRecords(ctx context.Context) ([]domain.RecordID, error)

	// RecordAt returns the id at the given creation-order index, or
	// sentinel.ErrNotFound past the end.
	RecordAt(ctx context.Context, index uint64) (domain.RecordID, error)

	// ListByCreator returns the creator's record ids in creation order.
	ListByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error)

	// Balance returns the holder's unit count for a record, 0 if absent.
	Balance(ctx context.Context, id domain.RecordID, holder domain.AccountID) (uint64, error)

	// Earnings returns the creator's accrued, unwithdrawn balance, 0 if absent.
	Earnings(ctx context.Context, creator domain.AccountID) (uint64, error)
}

// Tx is the mutable view handed to Atomic callbacks. All methods are pure
// I/O; validation and business rules belong to the service layer.
type Tx interface {
	// InsertRecord stores a new record after checking active-scope
	// uniqueness of video URL, name, and symbol. A collision returns
	// *models.DuplicateError naming the field; the check and the insert
	// are indivisible with respect to concurrent Atomic calls.
	InsertRecord(ctx context.Context, rec *models.TokenRecord) error

	// RecordForUpdate returns the record locked for the duration of the
	// transaction, or sentinel.ErrNotFound.
	RecordForUpdate(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error)

	// AddSold increments a record's sold counter. Fails with
	// sentinel.ErrInvalidState if the increment would exceed total supply.
	AddSold(ctx context.Context, id domain.RecordID, amount uint64) error

	// AddBalance credits units to a holder and returns the new balance.
	AddBalance(ctx context.Context, id domain.RecordID, holder domain.AccountID, units uint64) (uint64, error)

	// AddEarnings credits a creator's accrued balance and returns it.
	AddEarnings(ctx context.Context, creator domain.AccountID, amount uint64) (uint64, error)

	// TakeEarnings zeroes a creator's accrued balance and returns the prior
	// value (0 for absent creators).
	TakeEarnings(ctx context.Context, creator domain.AccountID) (uint64, error)

	// DeactivateRecord retires a record from new purchases. Administrative
	// path; sentinel.ErrNotFound for unknown ids, sentinel.ErrInvalidState
	// if already inactive.
	DeactivateRecord(ctx context.Context, id domain.RecordID) error
}
