package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostokey/pkg/domain"
)

func TestNewTokenRecord_ChecksPreconditionsInOrder(t *testing.T) {
	now := time.Now()
	creator := domain.AccountID("0xcreator")

	t.Run("zero supply fails first even with other bad fields", func(t *testing.T) {
		_, err := NewTokenRecord(creator, "Name", "SYM", 0, 0, "url", "", now)
		assert.ErrorIs(t, err, ErrInvalidSupply)
	})

	t.Run("zero price", func(t *testing.T) {
		_, err := NewTokenRecord(creator, "Name", "SYM", 1000, 0, "url", "", now)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("price beyond storable range", func(t *testing.T) {
		_, err := NewTokenRecord(creator, "Name", "SYM", 1000, math.MaxUint64, "url", "sig", now)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("blank attestation", func(t *testing.T) {
		_, err := NewTokenRecord(creator, "Name", "SYM", 1000, 1, "url", "   ", now)
		assert.ErrorIs(t, err, ErrMissingAttestation)
	})

	t.Run("valid record starts active with nothing sold", func(t *testing.T) {
		rec, err := NewTokenRecord(creator, " My Video Token ", " MVT ", 1000, 100000000000000000,
			"https://youtube.com/watch?v=example", "signature:0x123;msg:I own this content", now)
		require.NoError(t, err)
		assert.False(t, rec.ID.IsNil())
		assert.Equal(t, "My Video Token", rec.Name)
		assert.Equal(t, "MVT", rec.Symbol)
		assert.Equal(t, uint64(1000), rec.TotalSupply)
		assert.Zero(t, rec.SoldTokens)
		assert.Equal(t, uint64(1000), rec.Available())
		assert.True(t, rec.Active)
	})
}

func TestDeactivate_IsTerminal(t *testing.T) {
	rec, err := NewTokenRecord("0xcreator", "N", "S", 10, 1, "url", "sig", time.Now())
	require.NoError(t, err)

	require.NoError(t, rec.Deactivate())
	assert.False(t, rec.Active)
	assert.ErrorIs(t, rec.Deactivate(), ErrAlreadyDeactivated)
}

func TestCost_DetectsOverflow(t *testing.T) {
	t.Run("exact multiple", func(t *testing.T) {
		cost, err := Cost(10, 100000000000000000)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000000000000000000), cost)
	})

	t.Run("128-bit overflow fails instead of wrapping", func(t *testing.T) {
		_, err := Cost(math.MaxUint64, 2)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("product above MaxAmount fails", func(t *testing.T) {
		_, err := Cost(2, MaxAmount/2+1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("product at MaxAmount is fine", func(t *testing.T) {
		cost, err := Cost(1, MaxAmount)
		require.NoError(t, err)
		assert.Equal(t, uint64(MaxAmount), cost)
	})
}
