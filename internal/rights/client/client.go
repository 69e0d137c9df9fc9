// Package client wraps a rights registry's read surface with a ranked
// enumeration strategy. Some hosts lack the bulk listing or cap its size;
// rather than duplicating fallback logic at every call site, callers go
// through Client and it degrades from bulk listing to indexed probing on its
// own, remembering which access mode the host supports.
package client

import (
	"context"
	"sync/atomic"

	"mostokey/internal/rights/models"
	"mostokey/pkg/domain"
	dErrors "mostokey/pkg/domain-errors"
)

// Registry is the read surface of a rights ledger host.
type Registry interface {
	GetAllTokens(ctx context.Context) ([]domain.RecordID, error)
	AllTokens(ctx context.Context, index uint64) (domain.RecordID, error)
	GetTokensByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error)
	GetTokenInfo(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error)
}

// Client enumerates registry state with automatic fallback.
type Client struct {
	registry Registry

	// Capability flags flip once a mode fails and stay flipped; probing a
	// broken accessor again on every call would just repeat the failure.
	bulkUnsupported      atomic.Bool
	byCreatorUnsupported atomic.Bool
}

// New wraps a registry.
func New(registry Registry) *Client {
	return &Client{registry: registry}
}

// Enumerate returns every record id in creation order, preferring the bulk
// listing and probing index by index when the host cannot serve it.
func (c *Client) Enumerate(ctx context.Context) ([]domain.RecordID, error) {
	if !c.bulkUnsupported.Load() {
		ids, err := c.registry.GetAllTokens(ctx)
		if err == nil {
			return ids, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.bulkUnsupported.Store(true)
	}
	return c.probe(ctx)
}

// ByCreator returns a creator's record ids in creation order, falling back to
// a full enumeration filtered through record snapshots.
func (c *Client) ByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error) {
	if !c.byCreatorUnsupported.Load() {
		ids, err := c.registry.GetTokensByCreator(ctx, creator)
		if err == nil {
			return ids, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.byCreatorUnsupported.Store(true)
	}

	all, err := c.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	var mine []domain.RecordID
	for _, id := range all {
		rec, err := c.registry.GetTokenInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.Creator == creator {
			mine = append(mine, id)
		}
	}
	return mine, nil
}

func (c *Client) probe(ctx context.Context) ([]domain.RecordID, error) {
	var ids []domain.RecordID
	for index := uint64(0); ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := c.registry.AllTokens(ctx, index)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				return ids, nil
			}
			return nil, err
		}
		ids = append(ids, id)
	}
}
