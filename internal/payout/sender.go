// Package payout abstracts the settlement rail used to move funds out of the
// ledger: buyer refunds and creator withdrawals.
package payout

import (
	"context"

	"mostokey/pkg/domain"
)

//go:generate mockgen -source=sender.go -destination=mock/sender.go -package=mock

// Sender pushes funds to an account. Transfer is called inside a ledger
// transaction; a returned error aborts the surrounding state transition, so
// implementations must not leave partial external effects behind on failure.
type Sender interface {
	Transfer(ctx context.Context, to domain.AccountID, amount uint64) error
}
