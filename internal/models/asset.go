package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is one traded instrument priced at one point in time.
// A new Asset is built on every fetch; it is never updated in place.
type Asset struct {
	ID        int64           `json:"id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source"`
}

// Asset kinds, also used as the per-symbol status tag in batch reports.
const (
	KindEquity = "equity"
	KindCrypto = "crypto"
)
