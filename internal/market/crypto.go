package market

import "strings"

var cryptoNames = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"SOL":   "Solana",
	"BNB":   "Binance Coin",
	"ADA":   "Cardano",
	"XRP":   "Ripple",
	"DOT":   "Polkadot",
	"MATIC": "Polygon",
}

// NormalizeCode trims and uppercases a ticker or crypto code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CryptoName returns the display name for a crypto code. Unknown codes
// come back as their normalized code.
func CryptoName(code string) string {
	c := NormalizeCode(code)
	if name, ok := cryptoNames[c]; ok {
		return name
	}
	return c
}

// IsCrypto reports whether symbol is one of the known crypto codes.
func IsCrypto(symbol string) bool {
	_, ok := cryptoNames[NormalizeCode(symbol)]
	return ok
}
