package handler

import (
	"time"

	"mostokey/internal/rights/models"
	"mostokey/pkg/domain"
)

// TokenResponse is the HTTP shape of one token record.
type TokenResponse struct {
	ID            domain.RecordID  `json:"id"`
	Creator       domain.AccountID `json:"creator"`
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	TotalSupply   uint64           `json:"total_supply"`
	SoldTokens    uint64           `json:"sold_tokens"`
	Available     uint64           `json:"available"`
	PricePerToken uint64           `json:"price_per_token"`
	VideoURL      string           `json:"video_url"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// FromRecord converts a record snapshot to its HTTP shape. The attestation
// payload stays internal.
func FromRecord(rec *models.TokenRecord) *TokenResponse {
	return &TokenResponse{
		ID:            rec.ID,
		Creator:       rec.Creator,
		Name:          rec.Name,
		Symbol:        rec.Symbol,
		TotalSupply:   rec.TotalSupply,
		SoldTokens:    rec.SoldTokens,
		Available:     rec.Available(),
		PricePerToken: rec.PricePerToken,
		VideoURL:      rec.VideoURL,
		Active:        rec.Active,
		CreatedAt:     rec.CreatedAt,
	}
}

// ListResponse carries record ids in creation order.
type ListResponse struct {
	Records []domain.RecordID `json:"records"`
}

// IndexResponse is the single-index enumeration accessor's result.
type IndexResponse struct {
	Index  uint64          `json:"index"`
	Record domain.RecordID `json:"record"`
}

// BalanceResponse reports a holder's unit count for one record.
type BalanceResponse struct {
	RecordID domain.RecordID  `json:"record_id"`
	Holder   domain.AccountID `json:"holder"`
	Units    uint64           `json:"units"`
}

// EarningsResponse reports a creator's accrued, unwithdrawn balance.
type EarningsResponse struct {
	Creator domain.AccountID `json:"creator"`
	Balance uint64           `json:"balance"`
}

// WithdrawResponse reports the amount paid out by a withdrawal.
type WithdrawResponse struct {
	Creator    domain.AccountID `json:"creator"`
	AmountPaid uint64           `json:"amount_paid"`
}
