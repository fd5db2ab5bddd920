package market

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEquityInterval(t *testing.T) {
	cases := map[string]string{
		"1d":  "5m",
		"7d":  "15m",
		"1mo": "60m",
		"6mo": "1d",
		"1y":  "1d",
		"5y":  "1wk",
		"":    "1h",
		"3mo": "1h",
		"max": "1h",
	}
	for period, want := range cases {
		require.Equal(t, want, EquityInterval(period), "period %q", period)
	}
}

func TestCryptoGranularity(t *testing.T) {
	cases := map[string]Granularity{
		"1d":  {"5m", 288},
		"7d":  {"15m", 672},
		"1mo": {"1h", 720},
		"6mo": {"1d", 180},
		"1y":  {"1d", 365},
		"5y":  {"1w", 260},
		"2w":  {"1d", 30},
		"":    {"1d", 30},
	}
	for period, want := range cases {
		require.Equal(t, want, CryptoGranularity(period), "period %q", period)
	}
}

func TestNormalizeEquityHistory_SkipsIncompletePoints(t *testing.T) {
	var payload EquityQuoteResponse
	require.NoError(t, json.Unmarshal([]byte(`{"results":[{"symbol":"VALE3","historicalDataPrice":[
		{"date":1700000000,"close":61.2},
		{"date":null,"close":61.3},
		{"date":1700086400,"close":null},
		{"close":61.4},
		{"date":"oops","close":61.5},
		{"date":1700000100,"close":"NaN"},
		{"date":1700000200,"close":"+Inf"},
		{"date":1700172800,"close":"62.05"}
	]}]}`), &payload))

	points, err := NormalizeEquityHistory(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "14/11", points[0].Label)
	require.InDelta(t, 61.2, points[0].Price, 1e-9)
	require.Equal(t, "16/11", points[1].Label)
	require.InDelta(t, 62.05, points[1].Price, 1e-9)
}

func TestNormalizeEquityHistory_LabelUsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	payload := EquityQuoteResponse{Results: []EquityResult{{
		Symbol: "ITUB4",
		HistoricalDataPrice: []EquityHistoryEntry{
			// 2024-01-01 01:00 UTC is still 31/12 in UTC-3.
			{Date: json.RawMessage(`1704070800`), Close: json.RawMessage(`33.1`)},
		},
	}}}

	points, err := NormalizeEquityHistory(payload, saoPaulo)
	require.NoError(t, err)
	require.Equal(t, "31/12", points[0].Label)
}

func TestNormalizeEquityHistory_NoSeries(t *testing.T) {
	payload := EquityQuoteResponse{Results: []EquityResult{{Symbol: "WEGE3"}}}
	points, err := NormalizeEquityHistory(payload, time.UTC)
	require.NoError(t, err)
	require.Empty(t, points)

	_, err = NormalizeEquityHistory(EquityQuoteResponse{}, time.UTC)
	require.ErrorIs(t, err, ErrUpstreamData)
}

func klines(t *testing.T, body string) []KlineRow {
	t.Helper()
	var rows []KlineRow
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	return rows
}

func TestNormalizeKlines(t *testing.T) {
	rows := klines(t, `[
		[1700000000000,"10.0","11.0","9.0","10.5","100",1700000899999],
		[1700086400000,"10.5","12.0","10.0","11.25","100",1700087299999]
	]`)

	points, err := NormalizeKlines(rows, time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "14/11", points[0].Label)
	require.InDelta(t, 10.5, points[0].Price, 1e-9)
	require.Equal(t, "15/11", points[1].Label)
	require.InDelta(t, 11.25, points[1].Price, 1e-9)
}

func TestNormalizeKlines_AnyBadRowAbortsAll(t *testing.T) {
	cases := map[string]string{
		"non-numeric close": `[
			[1700000000000,"10.0","11.0","9.0","10.5"],
			[1700086400000,"10.5","12.0","10.0","n/a"]
		]`,
		"null close": `[
			[1700000000000,"10.0","11.0","9.0",null]
		]`,
		"short row": `[
			[1700000000000,"10.0","11.0","9.0","10.5"],
			[1700086400000,"10.5"]
		]`,
		"NaN close": `[
			[1700000000000,"10.0","11.0","9.0","10.5"],
			[1700086400000,"10.5","12.0","10.0","NaN"]
		]`,
		"infinite close": `[
			[1700000000000,"10.0","11.0","9.0","Inf"]
		]`,
		"bad open time": `[
			["yesterday","10.0","11.0","9.0","10.5"]
		]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			points, err := NormalizeKlines(klines(t, body), time.UTC)
			require.Error(t, err)
			require.Nil(t, points)
		})
	}
}

func TestNormalizeKlines_Empty(t *testing.T) {
	points, err := NormalizeKlines(nil, time.UTC)
	require.NoError(t, err)
	require.Empty(t, points)
}
