package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kjannette/ativos-backend/internal/external"
	"github.com/kjannette/ativos-backend/internal/logging"
	"github.com/kjannette/ativos-backend/internal/market"
	"github.com/kjannette/ativos-backend/internal/models"
	"github.com/kjannette/ativos-backend/internal/repository"
	"github.com/kjannette/ativos-backend/internal/service"
	"github.com/kjannette/ativos-backend/internal/testutil"
)

// upstream fakes both APIs on one server: /brapi/... and /binance/...
type upstream struct {
	brapiDown atomic.Bool

	mu      sync.Mutex
	tickers []string
}

func (u *upstream) tickerCalls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.tickers...)
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /brapi/quote/{symbols}", func(w http.ResponseWriter, r *http.Request) {
		if u.brapiDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch {
		case r.URL.Query().Get("range") == "1d":
			w.Write([]byte(`{"results":[{"symbol":"PETR4","historicalDataPrice":[
				{"date":1700000000,"close":38.1},
				{"date":1700000300,"close":null},
				{"date":1700000600,"close":38.3}
			]}]}`))
		case r.PathValue("symbols") == "PETR4":
			w.Write([]byte(`{"results":[{"symbol":"PETR4","longName":"Petroleo Brasileiro S.A. - Petrobras","regularMarketPrice":38.47}]}`))
		case r.PathValue("symbols") == "PETR4,VALE3":
			w.Write([]byte(`{"results":[
				{"symbol":"PETR4","longName":"Petroleo Brasileiro S.A. - Petrobras","regularMarketPrice":38.47},
				{"symbol":"VALE3","longName":null,"regularMarketPrice":"oops"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":true}`))
		}
	})
	mux.HandleFunc("GET /binance/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		pair := r.URL.Query().Get("symbol")
		u.mu.Lock()
		u.tickers = append(u.tickers, pair)
		u.mu.Unlock()
		switch pair {
		case "BTCBRL":
			w.Write([]byte(`{"symbol":"BTCBRL","price":"351234.56000000"}`))
		case "ETHBRL":
			w.Write([]byte(`{"symbol":"ETHBRL","price":"18000.00000000"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
		}
	})
	mux.HandleFunc("GET /binance/klines", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "ETHBRL" {
			w.Write([]byte(`[[1700000000000,"1","1","1","18000.5"],[1700000900000,"1","1","1","bad"]]`))
			return
		}
		w.Write([]byte(`[[1700000000000,"1","1","1","350000.5"],[1700086400000,"1","1","1","351000"]]`))
	})
	return mux
}

func newService(t *testing.T, store repository.AssetStore) (*service.AssetService, *upstream) {
	t.Helper()
	return newServiceWith(t, store, nil)
}

func newServiceWith(t *testing.T, store repository.AssetStore, notify service.Notifier) (*service.AssetService, *upstream) {
	t.Helper()
	up := &upstream{}
	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	opts := external.Options{HTTPClient: &http.Client{Timeout: 5 * time.Second}}
	brapiOpts, binanceOpts := opts, opts
	brapiOpts.BaseURL = srv.URL + "/brapi"
	binanceOpts.BaseURL = srv.URL + "/binance"

	equity := market.NewEquityProvider(external.NewBrapiClient("tok", brapiOpts), time.UTC)
	crypto := market.NewCryptoProvider(external.NewBinanceClient(binanceOpts), "BRL", time.UTC)
	if store == nil {
		store = repository.NewSQLiteAssetRepo(testutil.SetupSQLite(t))
	}
	svc := service.NewAssetService(equity, crypto, store, logging.Discard(), service.Options{
		DashboardEquities: "PETR4",
		DashboardCryptos:  "BTC,ETH",
		Notifier:          notify,
	})
	return svc, up
}

func symbols(assets []models.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Symbol
	}
	return out
}

func TestFetchBatch_PartialCryptoFailure(t *testing.T) {
	svc, up := newService(t, nil)

	assets := svc.FetchBatch(context.Background(), "PETR4", "BTC,XYZ")
	require.Equal(t, []string{"PETR4", "BTC"}, symbols(assets))
	require.Equal(t, []string{"BTCBRL", "XYZBRL"}, up.tickerCalls())

	for _, a := range assets {
		require.NotZero(t, a.ID, "returned assets are the saved copies")
	}
	require.Equal(t, "Bitcoin", assets[1].Name)
	require.Equal(t, "351234.56", assets[1].Price.String())

	saved, err := svc.Snapshots(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, saved, 2)
}

func TestFetchBatchReport_Statuses(t *testing.T) {
	svc, _ := newService(t, nil)

	report := svc.FetchBatchReport(context.Background(), "PETR4, VALE3", " BTC , , XYZ")
	require.Equal(t, []string{"PETR4", "BTC"}, symbols(report.Assets))
	require.Len(t, report.Statuses, 4)

	got := map[string]service.SymbolStatus{}
	for _, s := range report.Statuses {
		got[s.Symbol] = s
	}
	require.True(t, got["PETR4"].OK)
	require.Equal(t, models.KindEquity, got["PETR4"].Kind)
	require.False(t, got["VALE3"].OK)
	require.Contains(t, got["VALE3"].Error, "regularMarketPrice")
	require.True(t, got["BTC"].OK)
	require.False(t, got["XYZ"].OK)
	require.Equal(t, models.KindCrypto, got["XYZ"].Kind)
	require.Len(t, report.Failed(), 2)
}

func TestFetchBatch_EquityOutageStillFetchesCryptos(t *testing.T) {
	svc, up := newService(t, nil)
	up.brapiDown.Store(true)

	report := svc.FetchBatchReport(context.Background(), "PETR4,VALE3", "ETH")
	require.Equal(t, []string{"ETH"}, symbols(report.Assets))
	require.Len(t, report.Failed(), 2)
}

func TestFetchBatch_EmptyInputs(t *testing.T) {
	svc, up := newService(t, nil)

	assets := svc.FetchBatch(context.Background(), "", " , ")
	require.NotNil(t, assets)
	require.Empty(t, assets)
	require.Empty(t, up.tickerCalls())
}

type recordingNotifier struct {
	msgs []string
}

func (r *recordingNotifier) Send(_ context.Context, msg string) {
	r.msgs = append(r.msgs, msg)
}

func TestFetchBatch_NotifiesOnFailures(t *testing.T) {
	notify := &recordingNotifier{}
	svc, _ := newServiceWith(t, nil, notify)

	svc.FetchBatch(context.Background(), "PETR4", "BTC")
	require.Empty(t, notify.msgs)

	svc.FetchBatch(context.Background(), "PETR4", "BTC,XYZ")
	require.Equal(t, []string{"quote batch: 1 of 3 symbols failed: XYZ"}, notify.msgs)
}

type failingStore struct {
	repository.AssetStore
	failSymbol string
	nextID     int64
}

func (f *failingStore) Save(_ context.Context, a models.Asset) (*models.Asset, error) {
	if a.Symbol == f.failSymbol {
		return nil, errors.New("connection reset")
	}
	f.nextID++
	a.ID = f.nextID
	return &a, nil
}

func TestFetchBatch_SaveFailureDropsOnlyThatSymbol(t *testing.T) {
	svc, _ := newService(t, &failingStore{failSymbol: "PETR4"})

	report := svc.FetchBatchReport(context.Background(), "PETR4", "BTC")
	require.Equal(t, []string{"BTC"}, symbols(report.Assets))
	require.Len(t, report.Failed(), 1)
	require.Equal(t, "PETR4", report.Failed()[0].Symbol)
	require.Contains(t, report.Failed()[0].Error, "connection reset")
}

func TestGetDashboard_UsesConfiguredLists(t *testing.T) {
	svc, up := newService(t, nil)

	assets := svc.GetDashboard(context.Background())
	require.Equal(t, []string{"PETR4", "BTC", "ETH"}, symbols(assets))
	require.Equal(t, []string{"BTCBRL", "ETHBRL"}, up.tickerCalls())
}

func TestGetQuote(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	a, err := svc.GetQuote(ctx, "PETR4")
	require.NoError(t, err)
	require.Equal(t, "Petroleo Brasileiro S.A. - Petrobras", a.Name)
	require.Zero(t, a.ID, "single quotes are not saved")

	a, err = svc.GetQuote(ctx, "eth")
	require.NoError(t, err)
	require.Equal(t, "Ethereum", a.Name)

	_, err = svc.GetQuote(ctx, "NOPE3")
	require.ErrorIs(t, err, market.ErrUpstreamUnavailable)
	require.True(t, strings.HasPrefix(err.Error(), "fetch quote NOPE3:"), err.Error())

	_, err = svc.GetQuote(ctx, "  ")
	require.ErrorIs(t, err, service.ErrEmptySymbol)
}

func TestGetHistory(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	equity := svc.GetHistory(ctx, "PETR4", "1d")
	require.Len(t, equity, 2, "null close is skipped")
	require.Equal(t, "14/11", equity[0].Label)

	crypto := svc.GetHistory(ctx, "BTC", "1y")
	require.Len(t, crypto, 2)
	require.InDelta(t, 351000, crypto[1].Price, 1e-9)

	// One bad kline row empties the whole ETH series.
	broken := svc.GetHistory(ctx, "ETH", "7d")
	require.NotNil(t, broken)
	require.Empty(t, broken)

	// Upstream 404 degrades to an empty series.
	missing := svc.GetHistory(ctx, "NOPE3", "1mo")
	require.NotNil(t, missing)
	require.Empty(t, missing)
}

func TestSplitSymbols(t *testing.T) {
	require.Equal(t, []string{"PETR4", "VALE3"}, service.SplitSymbols(" PETR4 ,VALE3,,"))
	require.Nil(t, service.SplitSymbols(""))
}
