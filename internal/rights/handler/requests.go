package handler

import (
	"strings"

	dErrors "mostokey/pkg/domain-errors"
)

// CreateTokenRequest is the HTTP request body for POST /v1/tokens.
type CreateTokenRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	TotalSupply   uint64 `json:"total_supply"`
	PricePerToken uint64 `json:"price_per_token"`
	VideoURL      string `json:"video_url"`
	Attestation   string `json:"attestation"`
}

// Validate normalizes and checks the request shape. Supply, price, and
// attestation semantics are the service's preconditions; only transport-level
// shape is rejected here.
func (r *CreateTokenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	r.Symbol = strings.TrimSpace(r.Symbol)
	r.VideoURL = strings.TrimSpace(r.VideoURL)

	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}
	if r.Symbol == "" {
		return dErrors.New(dErrors.CodeValidation, "symbol is required")
	}
	if len(r.Symbol) > 32 {
		return dErrors.New(dErrors.CodeValidation, "symbol must be at most 32 characters")
	}
	if r.VideoURL == "" {
		return dErrors.New(dErrors.CodeValidation, "video_url is required")
	}
	if len(r.VideoURL) > 2048 {
		return dErrors.New(dErrors.CodeValidation, "video_url must be at most 2048 characters")
	}
	return nil
}

// PurchaseRequest is the HTTP request body for POST /v1/tokens/{recordID}/purchase.
// PaidValue is the payment attached to the call in minor units; overpayment
// is refunded exactly.
type PurchaseRequest struct {
	Amount    uint64 `json:"amount"`
	PaidValue uint64 `json:"paid_value"`
}

func (r *PurchaseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}
