package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mostokey/pkg/domain-errors"
)

// TestParseRecordID_Invariants validates the parsing invariant:
// record ids must be valid, non-empty, non-nil UUIDs.
func TestParseRecordID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRecordID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRecordID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseRecordID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseRecordID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, RecordID(valid), id)
	})

	t.Run("round-trips through text marshalling", func(t *testing.T) {
		id := NewRecordID()
		text, err := id.MarshalText()
		require.NoError(t, err)

		var back RecordID
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, id, back)
	})
}

func TestParseAccountID_Invariants(t *testing.T) {
	t.Run("rejects empty and whitespace-only input", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\t\n"} {
			_, err := ParseAccountID(in)
			require.Error(t, err, "input %q", in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("rejects embedded whitespace", func(t *testing.T) {
		_, err := ParseAccountID("alice smith")
		require.Error(t, err)
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		long := make([]byte, 129)
		for i := range long {
			long[i] = 'a'
		}
		_, err := ParseAccountID(string(long))
		require.Error(t, err)
	})

	t.Run("trims and accepts printable tokens", func(t *testing.T) {
		got, err := ParseAccountID("  0xAbC123  ")
		require.NoError(t, err)
		assert.Equal(t, AccountID("0xAbC123"), got)
	})
}
