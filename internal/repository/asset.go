package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kjannette/ativos-backend/internal/models"
)

const assetColumns = `id, symbol, name, price::text, updated_at, source`

// AssetRepo stores assets in PostgreSQL.
type AssetRepo struct {
	pool *pgxpool.Pool
}

func NewAssetRepo(pool *pgxpool.Pool) *AssetRepo {
	return &AssetRepo{pool: pool}
}

func (r *AssetRepo) Save(ctx context.Context, a models.Asset) (*models.Asset, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO assets (symbol, name, price, updated_at, source)
		 VALUES ($1, $2, $3::numeric, $4, $5)
		 RETURNING `+assetColumns,
		a.Symbol, a.Name, a.Price.String(), a.UpdatedAt, a.Source,
	)
	saved, err := scanAsset(row)
	if err != nil {
		return nil, fmt.Errorf("insert asset %s: %w", a.Symbol, err)
	}
	return saved, nil
}

// ListRecent returns the newest snapshots first, optionally for one symbol.
func (r *AssetRepo) ListRecent(ctx context.Context, symbol string, limit int) ([]models.Asset, error) {
	limit = normalizeLimit(limit)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	rows, err := r.pool.Query(ctx,
		`SELECT `+assetColumns+` FROM assets
		 WHERE ($1 = '' OR symbol = $1)
		 ORDER BY updated_at DESC, id DESC
		 LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows, scanAsset)
}

func (r *AssetRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanAsset(row scannable) (*models.Asset, error) {
	var a models.Asset
	var price string
	if err := row.Scan(&a.ID, &a.Symbol, &a.Name, &price, &a.UpdatedAt, &a.Source); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("scan price %q: %w", price, err)
	}
	a.Price = d
	return &a, nil
}

func collectAssets(rows rowsIter, scan func(scannable) (*models.Asset, error)) ([]models.Asset, error) {
	out := []models.Asset{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
