// Package postgres persists the rights ledger in PostgreSQL. Atomic maps to a
// database transaction; active-scope uniqueness is enforced by partial unique
// indexes so concurrent creates race at the database rather than in memory.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"mostokey/internal/rights/models"
	"mostokey/internal/rights/store"
	"mostokey/pkg/domain"
	"mostokey/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

// Ledger implements store.Ledger on top of PostgreSQL.
type Ledger struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed ledger.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// EnsureSchema creates the ledger tables and indexes if they do not exist.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// Atomic runs fn inside one database transaction. Any error from fn rolls the
// whole transaction back.
func (l *Ledger) Atomic(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	if err := fn(&pgTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback ledger tx: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

const recordColumns = `id, creator, name, symbol, total_supply, sold_tokens, price_per_token, video_url, attestation, active, created_at`

func (l *Ledger) FindRecord(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM token_records WHERE id = $1`
	return scanRecord(l.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (l *Ledger) ListRecords(ctx context.Context) ([]domain.RecordID, error) {
	query := `SELECT id FROM token_records ORDER BY position`
	return l.queryIDs(ctx, query)
}

func (l *Ledger) RecordAt(ctx context.Context, index uint64) (domain.RecordID, error) {
	query := `SELECT id FROM token_records ORDER BY position OFFSET $1 LIMIT 1`
	var raw uuid.UUID
	err := l.db.QueryRowContext(ctx, query, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RecordID{}, sentinel.ErrNotFound
	}
	if err != nil {
		return domain.RecordID{}, fmt.Errorf("query record at index: %w", err)
	}
	return domain.RecordID(raw), nil
}

func (l *Ledger) ListByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error) {
	query := `SELECT id FROM token_records WHERE creator = $1 ORDER BY position`
	return l.queryIDs(ctx, query, creator.String())
}

func (l *Ledger) Balance(ctx context.Context, id domain.RecordID, holder domain.AccountID) (uint64, error) {
	query := `SELECT units FROM share_balances WHERE record_id = $1 AND holder = $2`
	var units int64
	err := l.db.QueryRowContext(ctx, query, uuid.UUID(id), holder.String()).Scan(&units)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query share balance: %w", err)
	}
	return uint64(units), nil
}

func (l *Ledger) Earnings(ctx context.Context, creator domain.AccountID) (uint64, error) {
	query := `SELECT balance FROM creator_earnings WHERE creator = $1`
	var balance int64
	err := l.db.QueryRowContext(ctx, query, creator.String()).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query creator earnings: %w", err)
	}
	return uint64(balance), nil
}

func (l *Ledger) queryIDs(ctx context.Context, query string, args ...any) ([]domain.RecordID, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query record ids: %w", err)
	}
	defer rows.Close()

	var ids []domain.RecordID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record id: %w", err)
		}
		ids = append(ids, domain.RecordID(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record ids: %w", err)
	}
	return ids, nil
}

type pgTx struct {
	tx *sql.Tx
}

// uniqueIndexFields maps partial unique index names to the colliding field
// reported to callers.
var uniqueIndexFields = map[string]string{
	"token_records_active_video_url": models.FieldVideoURL,
	"token_records_active_name":      models.FieldName,
	"token_records_active_symbol":    models.FieldSymbol,
}

func (t *pgTx) InsertRecord(ctx context.Context, rec *models.TokenRecord) error {
	query := `
		INSERT INTO token_records (
			id, creator, name, symbol, total_supply, sold_tokens,
			price_per_token, video_url, attestation, active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := t.tx.ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		rec.Creator.String(),
		rec.Name,
		rec.Symbol,
		int64(rec.TotalSupply),
		int64(rec.SoldTokens),
		int64(rec.PricePerToken),
		rec.VideoURL,
		rec.Attestation,
		rec.Active,
		rec.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		if field, ok := uniqueIndexFields[pqErr.Constraint]; ok {
			return &models.DuplicateError{Field: field}
		}
	}
	if err != nil {
		return fmt.Errorf("insert token record: %w", err)
	}
	return nil
}

func (t *pgTx) RecordForUpdate(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM token_records WHERE id = $1 FOR UPDATE`
	return scanRecord(t.tx.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (t *pgTx) AddSold(ctx context.Context, id domain.RecordID, amount uint64) error {
	query := `
		UPDATE token_records
		SET sold_tokens = sold_tokens + $2
		WHERE id = $1 AND sold_tokens + $2 <= total_supply
	`
	res, err := t.tx.ExecContext(ctx, query, uuid.UUID(id), int64(amount))
	if err != nil {
		return fmt.Errorf("increment sold tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment sold tokens: %w", err)
	}
	if affected == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM token_records WHERE id = $1)`
		if err := t.tx.QueryRowContext(ctx, check, uuid.UUID(id)).Scan(&exists); err != nil {
			return fmt.Errorf("check token record: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (t *pgTx) AddBalance(ctx context.Context, id domain.RecordID, holder domain.AccountID, units uint64) (uint64, error) {
	query := `
		INSERT INTO share_balances (record_id, holder, units)
		VALUES ($1, $2, $3)
		ON CONFLICT (record_id, holder)
		DO UPDATE SET units = share_balances.units + EXCLUDED.units
		RETURNING units
	`
	var balance int64
	err := t.tx.QueryRowContext(ctx, query, uuid.UUID(id), holder.String(), int64(units)).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("credit share balance: %w", err)
	}
	return uint64(balance), nil
}

func (t *pgTx) AddEarnings(ctx context.Context, creator domain.AccountID, amount uint64) (uint64, error) {
	query := `
		INSERT INTO creator_earnings (creator, balance)
		VALUES ($1, $2)
		ON CONFLICT (creator)
		DO UPDATE SET balance = creator_earnings.balance + EXCLUDED.balance
		RETURNING balance
	`
	var balance int64
	err := t.tx.QueryRowContext(ctx, query, creator.String(), int64(amount)).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("credit creator earnings: %w", err)
	}
	return uint64(balance), nil
}

func (t *pgTx) TakeEarnings(ctx context.Context, creator domain.AccountID) (uint64, error) {
	var balance int64
	lock := `SELECT balance FROM creator_earnings WHERE creator = $1 FOR UPDATE`
	err := t.tx.QueryRowContext(ctx, lock, creator.String()).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lock creator earnings: %w", err)
	}
	if balance == 0 {
		return 0, nil
	}
	if _, err := t.tx.ExecContext(ctx, `UPDATE creator_earnings SET balance = 0 WHERE creator = $1`, creator.String()); err != nil {
		return 0, fmt.Errorf("zero creator earnings: %w", err)
	}
	return uint64(balance), nil
}

func (t *pgTx) DeactivateRecord(ctx context.Context, id domain.RecordID) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE token_records SET active = FALSE WHERE id = $1 AND active`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("deactivate token record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate token record: %w", err)
	}
	if affected == 0 {
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM token_records WHERE id = $1)`
		if err := t.tx.QueryRowContext(ctx, check, uuid.UUID(id)).Scan(&exists); err != nil {
			return fmt.Errorf("check token record: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.TokenRecord, error) {
	var (
		rec           models.TokenRecord
		rawID         uuid.UUID
		creator       string
		totalSupply   int64
		soldTokens    int64
		pricePerToken int64
	)
	err := row.Scan(
		&rawID,
		&creator,
		&rec.Name,
		&rec.Symbol,
		&totalSupply,
		&soldTokens,
		&pricePerToken,
		&rec.VideoURL,
		&rec.Attestation,
		&rec.Active,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan token record: %w", err)
	}
	rec.ID = domain.RecordID(rawID)
	rec.Creator = domain.AccountID(creator)
	rec.TotalSupply = uint64(totalSupply)
	rec.SoldTokens = uint64(soldTokens)
	rec.PricePerToken = uint64(pricePerToken)
	return &rec, nil
}
