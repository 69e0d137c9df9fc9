package models

import "mostokey/pkg/domain"

// PurchaseReceipt reports the committed outcome of a purchase.
type PurchaseReceipt struct {
	RecordID     domain.RecordID  `json:"record_id"`
	Buyer        domain.AccountID `json:"buyer"`
	Amount       uint64           `json:"amount"`
	Cost         uint64           `json:"cost"`
	Refund       uint64           `json:"refund"`
	SoldTokens   uint64           `json:"sold_tokens"`
	BuyerBalance uint64           `json:"buyer_balance"`
}
