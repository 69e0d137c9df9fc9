// Package service orchestrates the rights ledger: token registration,
// the purchase engine with exact-change refunding, and the reentrancy-safe
// earnings withdrawal path.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mostokey/internal/events"
	"mostokey/internal/payout"
	"mostokey/internal/rights/attest"
	"mostokey/internal/rights/metrics"
	"mostokey/internal/rights/store"
)

// Service exposes every ledger operation. All mutating operations run through
// the store's Atomic transaction so each commits as one indivisible
// transition.
type Service struct {
	ledger     store.Ledger
	payouts    payout.Sender
	publisher  events.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	attestMode attest.Mode
	tracer     trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAttestationMode(mode attest.Mode) Option {
	return func(s *Service) {
		s.attestMode = mode
	}
}

// New constructs a Service over a ledger store and a payout rail.
func New(ledger store.Ledger, payouts payout.Sender, opts ...Option) *Service {
	s := &Service{
		ledger:     ledger,
		payouts:    payouts,
		logger:     slog.Default(),
		attestMode: attest.ModePermissive,
		tracer:     otel.Tracer("mostokey/rights"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emit publishes a committed event. Delivery failures are logged, never
// surfaced: the transition they describe has already committed.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "type", event.Type, "error", err)
	}
}
