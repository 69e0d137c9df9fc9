// Package attest verifies creator attestations presented at token creation.
// An attestation binds a video URL to the account that claims it.
package attest

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"mostokey/internal/rights/models"
	"mostokey/pkg/domain"
)

// Mode selects how strictly attestations are checked.
type Mode string

const (
	// ModePermissive accepts any non-empty attestation payload.
	ModePermissive Mode = "permissive"
	// ModeStrict requires a valid ed25519 signature over the claim.
	ModeStrict Mode = "strict"
)

// ParseMode validates a configured mode string.
func ParseMode(value string) (Mode, bool) {
	switch Mode(value) {
	case ModePermissive, ModeStrict:
		return Mode(value), true
	}
	return "", false
}

const strictScheme = "ed25519"

// Verify checks an attestation for the given video URL and creator according
// to the mode. Returns models.ErrMissingAttestation for empty payloads and
// models.ErrInvalidAttestation for malformed or unverifiable ones.
func Verify(mode Mode, attestation, videoURL string, creator domain.AccountID) error {
	if strings.TrimSpace(attestation) == "" {
		return models.ErrMissingAttestation
	}
	if mode != ModeStrict {
		return nil
	}

	// Strict payloads are "ed25519:<hex public key>:<hex signature>".
	parts := strings.SplitN(attestation, ":", 3)
	if len(parts) != 3 || parts[0] != strictScheme {
		return models.ErrInvalidAttestation
	}
	pub, err := hex.DecodeString(parts[1])
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return models.ErrInvalidAttestation
	}
	sig, err := hex.DecodeString(parts[2])
	if err != nil || len(sig) != ed25519.SignatureSize {
		return models.ErrInvalidAttestation
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), ClaimMessage(videoURL, creator), sig) {
		return models.ErrInvalidAttestation
	}
	return nil
}

// ClaimMessage is the byte string a strict attestation signs.
func ClaimMessage(videoURL string, creator domain.AccountID) []byte {
	return []byte(videoURL + "\n" + creator.String())
}

// Sign produces a strict-mode attestation for a claim. Used by tests and
// tooling that mint attestations.
func Sign(priv ed25519.PrivateKey, videoURL string, creator domain.AccountID) string {
	pub := priv.Public().(ed25519.PublicKey)
	sig := ed25519.Sign(priv, ClaimMessage(videoURL, creator))
	return strictScheme + ":" + hex.EncodeToString(pub) + ":" + hex.EncodeToString(sig)
}
