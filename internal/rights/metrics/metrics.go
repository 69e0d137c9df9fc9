package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rights module. Tracks ledger
// activity counts, value flows in minor units, and critical path durations.
type Metrics struct {
	TokensCreated      prometheus.Counter
	CreationsRejected  *prometheus.CounterVec
	PurchasesCompleted prometheus.Counter
	PurchasesRejected  *prometheus.CounterVec
	UnitsSold          prometheus.Counter
	RefundsIssued      prometheus.Counter
	Withdrawals        prometheus.Counter
	AmountWithdrawn    prometheus.Counter
	PurchaseDuration   prometheus.Histogram
	WithdrawalDuration prometheus.Histogram
}

// New creates a Metrics instance with all rights module metrics registered.
func New() *Metrics {
	return &Metrics{
		TokensCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_tokens_created_total",
			Help: "Total number of token records created",
		}),
		CreationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mostokey_token_creations_rejected_total",
			Help: "Token creations rejected, labelled by reason",
		}, []string{"reason"}),
		PurchasesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_purchases_completed_total",
			Help: "Total number of completed purchases",
		}),
		PurchasesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mostokey_purchases_rejected_total",
			Help: "Purchases rejected, labelled by reason",
		}, []string{"reason"}),
		UnitsSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_units_sold_total",
			Help: "Total token units sold across all records",
		}),
		RefundsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_refunds_issued_total",
			Help: "Total number of purchases that produced an overpayment refund",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_withdrawals_total",
			Help: "Total number of successful earnings withdrawals",
		}),
		AmountWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mostokey_amount_withdrawn_total",
			Help: "Total amount withdrawn by creators in minor units",
		}),
		PurchaseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mostokey_purchase_duration_seconds",
			Help:    "Duration of purchase operations including payout transfer",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		WithdrawalDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mostokey_withdrawal_duration_seconds",
			Help:    "Duration of withdrawal operations including payout transfer",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementTokenCreated records a successful token creation.
func (m *Metrics) IncrementTokenCreated() {
	m.TokensCreated.Inc()
}

// IncrementCreationRejected records a rejected creation with its reason.
func (m *Metrics) IncrementCreationRejected(reason string) {
	m.CreationsRejected.WithLabelValues(reason).Inc()
}

// RecordPurchase records a completed purchase and its value flows.
func (m *Metrics) RecordPurchase(units, refund uint64) {
	m.PurchasesCompleted.Inc()
	m.UnitsSold.Add(float64(units))
	if refund > 0 {
		m.RefundsIssued.Inc()
	}
}

// IncrementPurchaseRejected records a rejected purchase with its reason.
func (m *Metrics) IncrementPurchaseRejected(reason string) {
	m.PurchasesRejected.WithLabelValues(reason).Inc()
}

// RecordWithdrawal records a successful withdrawal of the given amount.
func (m *Metrics) RecordWithdrawal(amount uint64) {
	m.Withdrawals.Inc()
	m.AmountWithdrawn.Add(float64(amount))
}

// ObservePurchase records the duration of a purchase operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePurchase(start time.Time) {
	m.PurchaseDuration.Observe(time.Since(start).Seconds())
}

// ObserveWithdrawal records the duration of a withdrawal operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveWithdrawal(start time.Time) {
	m.WithdrawalDuration.Observe(time.Since(start).Seconds())
}
