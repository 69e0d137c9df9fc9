package models

import (
	"math"
	"math/bits"
	"strings"
	"time"

	"mostokey/pkg/domain"
)

// TokenRecord is the registry entry describing one tokenized video's supply,
// price, and metadata.
//
// Invariants:
//   - TotalSupply and PricePerToken are positive and immutable
//   - 0 <= SoldTokens <= TotalSupply at all times
//   - VideoURL and Attestation are immutable after creation
//   - among active records, VideoURL, Name, and Symbol are each unique
//     (enforced by the store at creation time)
//   - SoldTokens is the only field mutated post-creation, by the purchase
//     path; Active flips once via Deactivate and never back
type TokenRecord struct {
	ID            domain.RecordID  `json:"id"`
	Creator       domain.AccountID `json:"creator"`
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	TotalSupply   uint64           `json:"total_supply"`
	SoldTokens    uint64           `json:"sold_tokens"`
	PricePerToken uint64           `json:"price_per_token"`
	VideoURL      string           `json:"video_url"`
	Attestation   string           `json:"attestation"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MaxAmount caps every payment amount and cost so values survive the round
// trip through signed 64-bit storage columns.
const MaxAmount = math.MaxInt64

// NewTokenRecord validates creation-time invariants in the order the ledger
// reports them and returns a fresh active record with nothing sold.
func NewTokenRecord(
	creator domain.AccountID,
	name, symbol string,
	totalSupply, pricePerToken uint64,
	videoURL, attestation string,
	now time.Time,
) (*TokenRecord, error) {
	if totalSupply == 0 || totalSupply > MaxAmount {
		return nil, ErrInvalidSupply
	}
	if pricePerToken == 0 || pricePerToken > MaxAmount {
		return nil, ErrInvalidPrice
	}
	if strings.TrimSpace(attestation) == "" {
		return nil, ErrMissingAttestation
	}
	return &TokenRecord{
		ID:            domain.NewRecordID(),
		Creator:       creator,
		Name:          strings.TrimSpace(name),
		Symbol:        strings.TrimSpace(symbol),
		TotalSupply:   totalSupply,
		SoldTokens:    0,
		PricePerToken: pricePerToken,
		VideoURL:      strings.TrimSpace(videoURL),
		Attestation:   attestation,
		Active:        true,
		CreatedAt:     now,
	}, nil
}

// Available returns the unsold unit count.
func (r *TokenRecord) Available() uint64 {
	return r.TotalSupply - r.SoldTokens
}

// CanDeactivate checks the single allowed status transition.
func (r *TokenRecord) CanDeactivate() error {
	if !r.Active {
		return ErrAlreadyDeactivated
	}
	return nil
}

// Deactivate retires the record from new purchases. Historical reads still
// resolve; there is no transition back to active.
func (r *TokenRecord) Deactivate() error {
	if err := r.CanDeactivate(); err != nil {
		return err
	}
	r.Active = false
	return nil
}

// Clone returns a copy safe to hand outside the store's lock.
func (r *TokenRecord) Clone() *TokenRecord {
	cp := *r
	return &cp
}

// Cost computes amount × pricePerToken, failing with ErrOverflow instead of
// wrapping when the product exceeds MaxAmount.
func Cost(amount, pricePerToken uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, pricePerToken)
	if hi != 0 || lo > MaxAmount {
		return 0, ErrOverflow
	}
	return lo, nil
}
