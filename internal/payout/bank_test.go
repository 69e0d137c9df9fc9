package payout

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankCreditsAccounts(t *testing.T) {
	bank := NewBank()
	ctx := context.Background()

	require.NoError(t, bank.Transfer(ctx, "0xalice", 100))
	require.NoError(t, bank.Transfer(ctx, "0xalice", 50))
	require.NoError(t, bank.Transfer(ctx, "0xbob", 25))

	assert.Equal(t, uint64(150), bank.BalanceOf("0xalice"))
	assert.Equal(t, uint64(25), bank.BalanceOf("0xbob"))
	assert.Zero(t, bank.BalanceOf("0xnobody"))

	log := bank.Transfers()
	require.Len(t, log, 3)
	assert.Equal(t, Transfer{To: "0xalice", Amount: 100}, log[0])
	assert.Equal(t, Transfer{To: "0xbob", Amount: 25}, log[2])
}

func TestBankConcurrentTransfers(t *testing.T) {
	bank := NewBank()
	ctx := context.Background()
	const goroutines = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bank.Transfer(ctx, "0xalice", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(goroutines), bank.BalanceOf("0xalice"))
	assert.Len(t, bank.Transfers(), goroutines)
}
