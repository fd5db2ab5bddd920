package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kjannette/ativos-backend/internal/models"
)

const sqliteAssetColumns = `id, symbol, name, price, updated_at, source`

// SQLiteAssetRepo stores assets in an embedded SQLite database.
// Prices are kept as decimal text and timestamps as Unix nanoseconds.
type SQLiteAssetRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteAssetRepo(db *sql.DB) *SQLiteAssetRepo {
	return &SQLiteAssetRepo{db: db, now: time.Now}
}

func (r *SQLiteAssetRepo) Save(ctx context.Context, a models.Asset) (*models.Asset, error) {
	if err := validate(a); err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO assets (symbol, name, price, updated_at, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+sqliteAssetColumns,
		a.Symbol, a.Name, a.Price.String(), a.UpdatedAt.UnixNano(), a.Source, r.now().UnixNano(),
	)
	saved, err := scanSQLiteAsset(row)
	if err != nil {
		return nil, fmt.Errorf("insert asset %s: %w", a.Symbol, err)
	}
	return saved, nil
}

func (r *SQLiteAssetRepo) ListRecent(ctx context.Context, symbol string, limit int) ([]models.Asset, error) {
	limit = normalizeLimit(limit)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteAssetColumns+` FROM assets
		 WHERE (? = '' OR symbol = ?)
		 ORDER BY updated_at DESC, id DESC
		 LIMIT ?`,
		symbol, symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssets(rows, scanSQLiteAsset)
}

func (r *SQLiteAssetRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSQLiteAsset(row scannable) (*models.Asset, error) {
	var a models.Asset
	var price string
	var updated int64
	if err := row.Scan(&a.ID, &a.Symbol, &a.Name, &price, &updated, &a.Source); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("scan price %q: %w", price, err)
	}
	a.Price = d
	a.UpdatedAt = time.Unix(0, updated)
	return &a, nil
}
