package service

import (
	"context"
	"errors"
	"time"

	"mostokey/internal/events"
	"mostokey/internal/rights/models"
	"mostokey/internal/rights/store"
	"mostokey/pkg/domain"
	dErrors "mostokey/pkg/domain-errors"
	"mostokey/pkg/requestcontext"
)

// WithdrawEarnings drains a creator's accrued balance to them and returns the
// amount paid. A zero balance is a harmless no-op returning 0. Zeroing and
// the payout attempt form one atomic unit: a reentrant caller can never
// observe a nonzero balance while the first payout is in flight, and a failed
// payout restores the balance in full.
func (s *Service) WithdrawEarnings(ctx context.Context, creator domain.AccountID) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "rights.WithdrawEarnings")
	defer span.End()
	start := time.Now()
	defer s.observeWithdrawal(start)

	var amount uint64
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		var err error
		amount, err = tx.TakeEarnings(ctx, creator)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to drain creator earnings")
		}
		if amount == 0 {
			return nil
		}
		if err := s.payouts.Transfer(ctx, creator, amount); err != nil {
			return dErrors.Wrap(errors.Join(models.ErrTransferFailed, err), dErrors.CodeUnavailable, "withdrawal transfer failed")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, nil
	}

	if s.metrics != nil {
		s.metrics.RecordWithdrawal(amount)
	}
	s.emit(ctx, events.EarningsWithdrawn(creator, amount, requestcontext.Now(ctx)))
	s.logger.InfoContext(ctx, "earnings withdrawn", "creator", creator, "amount", amount)
	return amount, nil
}

// GetCreatorEarnings returns a creator's accrued, unwithdrawn balance.
func (s *Service) GetCreatorEarnings(ctx context.Context, creator domain.AccountID) (uint64, error) {
	balance, err := s.ledger.Earnings(ctx, creator)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load creator earnings")
	}
	return balance, nil
}

func (s *Service) observeWithdrawal(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveWithdrawal(start)
	}
}
