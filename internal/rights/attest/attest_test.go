package attest

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostokey/internal/rights/models"
)

func TestVerifyPermissive(t *testing.T) {
	assert.NoError(t, Verify(ModePermissive, "sig:anything", "https://v/1", "0xalice"))
	assert.ErrorIs(t, Verify(ModePermissive, "   ", "https://v/1", "0xalice"), models.ErrMissingAttestation)
}

func TestVerifyStrict(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_ = pub

	const videoURL = "https://v/strict"
	attestation := Sign(priv, videoURL, "0xalice")

	t.Run("accepts a valid signature", func(t *testing.T) {
		assert.NoError(t, Verify(ModeStrict, attestation, videoURL, "0xalice"))
	})

	t.Run("rejects a signature bound to another creator", func(t *testing.T) {
		assert.ErrorIs(t, Verify(ModeStrict, attestation, videoURL, "0xbob"), models.ErrInvalidAttestation)
	})

	t.Run("rejects a signature bound to another video", func(t *testing.T) {
		assert.ErrorIs(t, Verify(ModeStrict, attestation, "https://v/other", "0xalice"), models.ErrInvalidAttestation)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		for _, payload := range []string{
			"sig:anything",
			"ed25519:zz:zz",
			"ed25519:" + attestation,
			"rsa:00:00",
		} {
			assert.ErrorIs(t, Verify(ModeStrict, payload, videoURL, "0xalice"), models.ErrInvalidAttestation, payload)
		}
	})

	t.Run("rejects empty payloads", func(t *testing.T) {
		assert.ErrorIs(t, Verify(ModeStrict, "", videoURL, "0xalice"), models.ErrMissingAttestation)
	})
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"permissive", "strict"} {
		mode, ok := ParseMode(valid)
		assert.True(t, ok)
		assert.Equal(t, Mode(valid), mode)
	}
	_, ok := ParseMode("lenient")
	assert.False(t, ok)
}
