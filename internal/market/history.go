package market

import (
	"fmt"
	"time"

	"github.com/kjannette/ativos-backend/internal/models"
)

// NormalizeEquityHistory converts results[0].historicalDataPrice into
// history points. Points without a numeric date and close are skipped.
func NormalizeEquityHistory(payload EquityQuoteResponse, loc *time.Location) ([]models.HistoryPoint, error) {
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: results missing or empty", ErrUpstreamData)
	}

	series := payload.Results[0].HistoricalDataPrice
	out := make([]models.HistoryPoint, 0, len(series))
	for _, entry := range series {
		ts, err := parseInt("date", entry.Date)
		if err != nil {
			continue
		}
		price, err := parseFloat("close", entry.Close)
		if err != nil {
			continue
		}
		out = append(out, models.HistoryPoint{
			Label: dayMonthLabel(ts*1000, loc),
			Price: price,
		})
	}
	return out, nil
}

// NormalizeKlines converts kline rows into history points. A single bad
// row fails the whole conversion.
func NormalizeKlines(rows []KlineRow, loc *time.Location) ([]models.HistoryPoint, error) {
	out := make([]models.HistoryPoint, 0, len(rows))
	for i, row := range rows {
		if len(row) <= klineClose {
			return nil, fmt.Errorf("%w: kline %d has %d fields", ErrUpstreamData, i, len(row))
		}
		ms, err := parseInt("openTime", row[klineOpenTime])
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		price, err := parseFloat("close", row[klineClose])
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		out = append(out, models.HistoryPoint{
			Label: dayMonthLabel(ms, loc),
			Price: price,
		})
	}
	return out, nil
}
