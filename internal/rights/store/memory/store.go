// Package memory implements the rights ledger store as mutex-guarded maps.
// One writer lock serializes every Atomic call, so each mutating operation
// runs to completion before the next is admitted; readers see only committed
// state. Mutations inside a transaction record compensation closures that are
// replayed in reverse when the transaction fails, which keeps the rollback
// path explicit instead of relying on copies of the whole state.
package memory

import (
	"context"
	"sync"

	"mostokey/internal/rights/models"
	"mostokey/internal/rights/store"
	"mostokey/pkg/domain"
	"mostokey/pkg/platform/sentinel"
)

type balanceKey struct {
	record domain.RecordID
	holder domain.AccountID
}

// Ledger is the in-memory store. It favors clarity over performance; the
// uniqueness check is a scan over active records.
type Ledger struct {
	mu        sync.RWMutex
	records   map[domain.RecordID]*models.TokenRecord
	order     []domain.RecordID
	byCreator map[domain.AccountID][]domain.RecordID
	balances  map[balanceKey]uint64
	earnings  map[domain.AccountID]uint64
}

func New() *Ledger {
	return &Ledger{
		records:   make(map[domain.RecordID]*models.TokenRecord),
		byCreator: make(map[domain.AccountID][]domain.RecordID),
		balances:  make(map[balanceKey]uint64),
		earnings:  make(map[domain.AccountID]uint64),
	}
}

var _ store.Ledger = (*Ledger)(nil)

// Atomic holds the writer lock for the whole callback, including any external
// payout attempt the service makes, so the transition is indivisible with
// respect to every other call. On error the journal is undone in reverse
// before the lock is released; readers never observe the partial state.
func (l *Ledger) Atomic(_ context.Context, fn func(tx store.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &memTx{ledger: l}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (l *Ledger) FindRecord(_ context.Context, id domain.RecordID) (*models.TokenRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

func (l *Ledger) ListRecords(_ context.Context) ([]domain.RecordID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.RecordID{}, l.order...), nil
}

func (l *Ledger) RecordAt(_ context.Context, index uint64) (domain.RecordID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index >= uint64(len(l.order)) {
		return domain.RecordID{}, sentinel.ErrNotFound
	}
	return l.order[index], nil
}

func (l *Ledger) ListByCreator(_ context.Context, creator domain.AccountID) ([]domain.RecordID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.RecordID{}, l.byCreator[creator]...), nil
}

func (l *Ledger) Balance(_ context.Context, id domain.RecordID, holder domain.AccountID) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey{record: id, holder: holder}], nil
}

func (l *Ledger) Earnings(_ context.Context, creator domain.AccountID) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.earnings[creator], nil
}

// memTx mutates the ledger in place under the writer lock and journals an
// undo closure per mutation.
type memTx struct {
	ledger *Ledger
	undo   []func()
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) InsertRecord(_ context.Context, rec *models.TokenRecord) error {
	l := t.ledger
	for _, existing := range l.records {
		if !existing.Active {
			continue
		}
		switch {
		case existing.VideoURL == rec.VideoURL:
			return &models.DuplicateError{Field: models.FieldVideoURL}
		case existing.Name == rec.Name:
			return &models.DuplicateError{Field: models.FieldName}
		case existing.Symbol == rec.Symbol:
			return &models.DuplicateError{Field: models.FieldSymbol}
		}
	}

	id := rec.ID
	creator := rec.Creator
	l.records[id] = rec.Clone()
	l.order = append(l.order, id)
	l.byCreator[creator] = append(l.byCreator[creator], id)
	t.undo = append(t.undo, func() {
		delete(l.records, id)
		l.order = l.order[:len(l.order)-1]
		l.byCreator[creator] = l.byCreator[creator][:len(l.byCreator[creator])-1]
	})
	return nil
}

func (t *memTx) RecordForUpdate(_ context.Context, id domain.RecordID) (*models.TokenRecord, error) {
	rec, ok := t.ledger.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return rec.Clone(), nil
}

func (t *memTx) AddSold(_ context.Context, id domain.RecordID, amount uint64) error {
	rec, ok := t.ledger.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if amount > rec.TotalSupply-rec.SoldTokens {
		return sentinel.ErrInvalidState
	}
	rec.SoldTokens += amount
	t.undo = append(t.undo, func() { rec.SoldTokens -= amount })
	return nil
}

func (t *memTx) AddBalance(_ context.Context, id domain.RecordID, holder domain.AccountID, units uint64) (uint64, error) {
	l := t.ledger
	key := balanceKey{record: id, holder: holder}
	prior := l.balances[key]
	l.balances[key] = prior + units
	t.undo = append(t.undo, func() {
		if prior == 0 {
			delete(l.balances, key)
			return
		}
		l.balances[key] = prior
	})
	return prior + units, nil
}

func (t *memTx) AddEarnings(_ context.Context, creator domain.AccountID, amount uint64) (uint64, error) {
	l := t.ledger
	prior := l.earnings[creator]
	if amount > models.MaxAmount-prior {
		return 0, sentinel.ErrInvalidState
	}
	l.earnings[creator] = prior + amount
	t.undo = append(t.undo, func() {
		if prior == 0 {
			delete(l.earnings, creator)
			return
		}
		l.earnings[creator] = prior
	})
	return prior + amount, nil
}

func (t *memTx) TakeEarnings(_ context.Context, creator domain.AccountID) (uint64, error) {
	l := t.ledger
	prior, ok := l.earnings[creator]
	if !ok || prior == 0 {
		return 0, nil
	}
	delete(l.earnings, creator)
	t.undo = append(t.undo, func() { l.earnings[creator] = prior })
	return prior, nil
}

func (t *memTx) DeactivateRecord(_ context.Context, id domain.RecordID) error {
	rec, ok := t.ledger.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !rec.Active {
		return sentinel.ErrInvalidState
	}
	rec.Active = false
	t.undo = append(t.undo, func() { rec.Active = true })
	return nil
}
