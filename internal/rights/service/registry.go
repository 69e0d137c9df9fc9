package service

import (
	"context"
	"errors"

	"mostokey/internal/events"
	"mostokey/internal/rights/attest"
	"mostokey/internal/rights/models"
	"mostokey/internal/rights/store"
	"mostokey/pkg/domain"
	dErrors "mostokey/pkg/domain-errors"
	"mostokey/pkg/platform/sentinel"
	"mostokey/pkg/requestcontext"
)

// CreateToken registers a video as a fixed-supply pool of purchasable units.
// Preconditions are checked in order: supply, price, attestation, then
// active-scope uniqueness of video URL, name, and symbol. The uniqueness
// check and the insert are indivisible, so two concurrent creations for the
// same video URL never both succeed.
func (s *Service) CreateToken(
	ctx context.Context,
	creator domain.AccountID,
	name, symbol string,
	totalSupply, pricePerToken uint64,
	videoURL, attestation string,
) (*models.TokenRecord, error) {
	ctx, span := s.tracer.Start(ctx, "rights.CreateToken")
	defer span.End()

	rec, err := models.NewTokenRecord(creator, name, symbol, totalSupply, pricePerToken, videoURL, attestation, requestcontext.Now(ctx))
	if err != nil {
		s.rejectCreation(creationReason(err))
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid token record")
	}
	if err := attest.Verify(s.attestMode, rec.Attestation, rec.VideoURL, creator); err != nil {
		s.rejectCreation("attestation")
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid token record")
	}

	err = s.ledger.Atomic(ctx, func(tx store.Tx) error {
		return tx.InsertRecord(ctx, rec)
	})
	if err != nil {
		var dup *models.DuplicateError
		if errors.As(err, &dup) {
			s.rejectCreation("duplicate_" + dup.Field)
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "token record collides with an active record")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store token record")
	}

	if s.metrics != nil {
		s.metrics.IncrementTokenCreated()
	}
	s.emit(ctx, events.TokenCreated(rec.ID, rec.Creator, rec.TotalSupply, rec.PricePerToken, rec.VideoURL, rec.CreatedAt))
	s.logger.InfoContext(ctx, "token record created",
		"record_id", rec.ID,
		"creator", rec.Creator,
		"total_supply", rec.TotalSupply,
	)
	return rec, nil
}

// GetTokenInfo returns a snapshot of one record.
func (s *Service) GetTokenInfo(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error) {
	rec, err := s.ledger.FindRecord(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(&models.NotFoundError{ID: id}, dErrors.CodeNotFound, "token record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token record")
	}
	return rec, nil
}

// GetAllTokens returns every record id in creation order.
func (s *Service) GetAllTokens(ctx context.Context) ([]domain.RecordID, error) {
	ids, err := s.ledger.ListRecords(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list token records")
	}
	return ids, nil
}

// AllTokens returns the record id at a creation-order index. Callers without
// access to the bulk listing enumerate by incrementing the index from zero
// until not-found.
func (s *Service) AllTokens(ctx context.Context, index uint64) (domain.RecordID, error) {
	id, err := s.ledger.RecordAt(ctx, index)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.RecordID{}, dErrors.New(dErrors.CodeNotFound, "no token record at index")
		}
		return domain.RecordID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load token record")
	}
	return id, nil
}

// GetTokensByCreator returns the creator's record ids in creation order.
func (s *Service) GetTokensByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error) {
	ids, err := s.ledger.ListByCreator(ctx, creator)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list token records")
	}
	return ids, nil
}

// DeactivateToken retires a record from new purchases. The administrative
// path; only the record's creator may invoke it. Historical reads still
// resolve and the record's video URL, name, and symbol become reusable.
func (s *Service) DeactivateToken(ctx context.Context, id domain.RecordID, caller domain.AccountID) error {
	ctx, span := s.tracer.Start(ctx, "rights.DeactivateToken")
	defer span.End()

	rec, err := s.GetTokenInfo(ctx, id)
	if err != nil {
		return err
	}
	if rec.Creator != caller {
		return dErrors.New(dErrors.CodeForbidden, "only the record creator may deactivate it")
	}

	err = s.ledger.Atomic(ctx, func(tx store.Tx) error {
		return tx.DeactivateRecord(ctx, id)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(&models.NotFoundError{ID: id}, dErrors.CodeNotFound, "token record not found")
		}
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.Wrap(models.ErrAlreadyDeactivated, dErrors.CodeConflict, "token record is already inactive")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate token record")
	}

	s.emit(ctx, events.TokenDeactivated(id, requestcontext.Now(ctx)))
	s.logger.InfoContext(ctx, "token record deactivated", "record_id", id)
	return nil
}

func (s *Service) rejectCreation(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementCreationRejected(reason)
	}
}

func creationReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidSupply):
		return "supply"
	case errors.Is(err, models.ErrInvalidPrice):
		return "price"
	case errors.Is(err, models.ErrMissingAttestation):
		return "attestation"
	default:
		return "invalid"
	}
}
