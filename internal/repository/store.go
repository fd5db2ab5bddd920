package repository

import (
	"context"
	"errors"

	"github.com/kjannette/ativos-backend/internal/models"
)

// DefaultListLimit caps ListRecent when callers pass a non-positive limit.
const DefaultListLimit = 100

// ErrInvalidAsset is returned by Save for records that break the Asset
// invariants (empty symbol, negative price).
var ErrInvalidAsset = errors.New("invalid asset")

// AssetStore persists asset snapshots. Save is a blind insert; every
// call appends a new row.
type AssetStore interface {
	Save(ctx context.Context, a models.Asset) (*models.Asset, error)
	ListRecent(ctx context.Context, symbol string, limit int) ([]models.Asset, error)
	Ping(ctx context.Context) error
}

func validate(a models.Asset) error {
	if a.Symbol == "" {
		return errors.Join(ErrInvalidAsset, errors.New("symbol is empty"))
	}
	if a.Price.IsNegative() {
		return errors.Join(ErrInvalidAsset, errors.New("price is negative"))
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
