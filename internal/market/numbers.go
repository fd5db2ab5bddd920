package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const labelLayout = "02/01"

// rawScalar unwraps a JSON number or JSON string into its text.
// Absent and null values report false.
func rawScalar(raw json.RawMessage) (string, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return "", false
	}
	if t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return string(t), true
}

func parseDecimal(field string, raw json.RawMessage) (decimal.Decimal, error) {
	s, ok := rawScalar(raw)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s missing", ErrUpstreamData, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w: %s %q", ErrUpstreamData, ErrParse, field, s)
	}
	return d, nil
}

func parseInt(field string, raw json.RawMessage) (int64, error) {
	s, ok := rawScalar(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", ErrUpstreamData, field)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrParse, field, s)
	}
	return n, nil
}

func parseFloat(field string, raw json.RawMessage) (float64, error) {
	s, ok := rawScalar(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", ErrUpstreamData, field)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrParse, field, s)
	}
	return f, nil
}

// dayMonthLabel formats a millisecond timestamp as dd/MM in loc.
func dayMonthLabel(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc).Format(labelLayout)
}
