package payout

import (
	"context"
	"sync"

	"mostokey/pkg/domain"
)

// Transfer is one settled outbound payment.
type Transfer struct {
	To     domain.AccountID
	Amount uint64
}

// Bank is an in-process Sender that credits accounts in memory. It backs
// deployments without an external settlement rail and doubles as a visible
// ledger of outbound payments in tests.
type Bank struct {
	mu       sync.Mutex
	accounts map[domain.AccountID]uint64
	log      []Transfer
}

// NewBank constructs an empty in-memory bank.
func NewBank() *Bank {
	return &Bank{accounts: make(map[domain.AccountID]uint64)}
}

func (b *Bank) Transfer(_ context.Context, to domain.AccountID, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[to] += amount
	b.log = append(b.log, Transfer{To: to, Amount: amount})
	return nil
}

// BalanceOf returns the total amount credited to an account.
func (b *Bank) BalanceOf(account domain.AccountID) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[account]
}

// Transfers returns a copy of the settled payment log in order.
func (b *Bank) Transfers() []Transfer {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transfer, len(b.log))
	copy(out, b.log)
	return out
}
