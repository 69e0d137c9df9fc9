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
	"mostokey/pkg/platform/sentinel"
	"mostokey/pkg/requestcontext"
)

// PurchaseTokens exchanges attached payment for units of a record. The sold
// counter, the buyer's share balance, and the creator's earnings move in one
// indivisible transition; overpayment is refunded to the buyer inside that
// same transition, after the ledger mutations. A failed refund rolls the
// whole purchase back. Buying one's own record is not prohibited here.
func (s *Service) PurchaseTokens(
	ctx context.Context,
	recordID domain.RecordID,
	amount, paidValue uint64,
	buyer domain.AccountID,
) (*models.PurchaseReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "rights.PurchaseTokens")
	defer span.End()
	start := time.Now()
	defer s.observePurchase(start)

	var receipt *models.PurchaseReceipt
	err := s.ledger.Atomic(ctx, func(tx store.Tx) error {
		rec, err := tx.RecordForUpdate(ctx, recordID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				s.rejectPurchase("not_found")
				return dErrors.Wrap(&models.NotFoundError{ID: recordID}, dErrors.CodeNotFound, "token record not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token record")
		}
		if !rec.Active {
			s.rejectPurchase("inactive")
			return dErrors.Wrap(models.ErrRecordInactive, dErrors.CodeConflict, "token record is inactive")
		}
		if amount == 0 || amount > rec.Available() {
			s.rejectPurchase("availability")
			return dErrors.Wrap(
				&models.AvailabilityError{Requested: amount, Available: rec.Available()},
				dErrors.CodeConflict, "requested amount is not available",
			)
		}
		cost, err := models.Cost(amount, rec.PricePerToken)
		if err != nil {
			s.rejectPurchase("overflow")
			return dErrors.Wrap(err, dErrors.CodeValidation, "purchase cost overflows")
		}
		if paidValue < cost {
			s.rejectPurchase("payment")
			return dErrors.Wrap(
				&models.InsufficientPaymentError{Required: cost, Given: paidValue},
				dErrors.CodeInvalidInput, "attached payment is below the purchase cost",
			)
		}

		if err := tx.AddSold(ctx, recordID, amount); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update sold counter")
		}
		balance, err := tx.AddBalance(ctx, recordID, buyer, amount)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit share balance")
		}
		if _, err := tx.AddEarnings(ctx, rec.Creator, cost); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit creator earnings")
		}

		// Ledger mutations are staged; the refund is the sole external
		// effect and runs last so its failure unwinds everything above.
		refund := paidValue - cost
		if refund > 0 {
			if err := s.payouts.Transfer(ctx, buyer, refund); err != nil {
				s.rejectPurchase("transfer")
				return dErrors.Wrap(errors.Join(models.ErrTransferFailed, err), dErrors.CodeUnavailable, "refund transfer failed")
			}
		}

		receipt = &models.PurchaseReceipt{
			RecordID:     recordID,
			Buyer:        buyer,
			Amount:       amount,
			Cost:         cost,
			Refund:       refund,
			SoldTokens:   rec.SoldTokens + amount,
			BuyerBalance: balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPurchase(receipt.Amount, receipt.Refund)
	}
	s.emit(ctx, events.TokensPurchased(recordID, buyer, receipt.Amount, receipt.Cost, receipt.Refund, requestcontext.Now(ctx)))
	s.logger.InfoContext(ctx, "tokens purchased",
		"record_id", recordID,
		"buyer", buyer,
		"amount", receipt.Amount,
		"cost", receipt.Cost,
		"refund", receipt.Refund,
	)
	return receipt, nil
}

// BalanceOf returns a holder's unit count for a record, zero when the holder
// never bought in.
func (s *Service) BalanceOf(ctx context.Context, recordID domain.RecordID, holder domain.AccountID) (uint64, error) {
	if _, err := s.GetTokenInfo(ctx, recordID); err != nil {
		return 0, err
	}
	balance, err := s.ledger.Balance(ctx, recordID, holder)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load share balance")
	}
	return balance, nil
}

func (s *Service) rejectPurchase(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementPurchaseRejected(reason)
	}
}

func (s *Service) observePurchase(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObservePurchase(start)
	}
}
