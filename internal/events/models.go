// Package events defines the ledger's emitted event stream and its
// publishers. Events record committed state transitions only; a failed
// operation never emits.
package events

import (
	"strconv"
	"time"

	"mostokey/pkg/domain"
)

// Event types emitted by the rights ledger.
const (
	TypeTokenCreated      = "rights.token_created"
	TypeTokensPurchased   = "rights.tokens_purchased"
	TypeEarningsWithdrawn = "rights.earnings_withdrawn"
	TypeTokenDeactivated  = "rights.token_deactivated"
)

// Event is one committed ledger transition. Attributes carry the
// transition's facts as strings so consumers decode without a schema
// registry.
type Event struct {
	Type       string            `json:"type"`
	Timestamp  time.Time         `json:"timestamp"`
	Attributes map[string]string `json:"attributes"`
}

// TokenCreated reports a new token record entering the registry.
func TokenCreated(id domain.RecordID, creator domain.AccountID, supply, price uint64, videoURL string, at time.Time) Event {
	return Event{
		Type:      TypeTokenCreated,
		Timestamp: at,
		Attributes: map[string]string{
			"record_id":       id.String(),
			"creator":         creator.String(),
			"total_supply":    formatUint(supply),
			"price_per_token": formatUint(price),
			"video_url":       videoURL,
		},
	}
}

// TokensPurchased reports a completed purchase, including any refund.
func TokensPurchased(id domain.RecordID, buyer domain.AccountID, amount, cost, refund uint64, at time.Time) Event {
	return Event{
		Type:      TypeTokensPurchased,
		Timestamp: at,
		Attributes: map[string]string{
			"record_id": id.String(),
			"buyer":     buyer.String(),
			"amount":    formatUint(amount),
			"cost":      formatUint(cost),
			"refund":    formatUint(refund),
		},
	}
}

// EarningsWithdrawn reports a creator draining their accrued balance.
func EarningsWithdrawn(creator domain.AccountID, amount uint64, at time.Time) Event {
	return Event{
		Type:      TypeEarningsWithdrawn,
		Timestamp: at,
		Attributes: map[string]string{
			"creator": creator.String(),
			"amount":  formatUint(amount),
		},
	}
}

// TokenDeactivated reports a record retired from new purchases.
func TokenDeactivated(id domain.RecordID, at time.Time) Event {
	return Event{
		Type:      TypeTokenDeactivated,
		Timestamp: at,
		Attributes: map[string]string{
			"record_id": id.String(),
		},
	}
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
