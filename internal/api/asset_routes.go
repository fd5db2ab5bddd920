package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kjannette/ativos-backend/internal/market"
	"github.com/kjannette/ativos-backend/internal/models"
	"github.com/kjannette/ativos-backend/internal/service"
)

// assetJSON keeps the field names the dashboard frontend reads.
type assetJSON struct {
	ID        *int64      `json:"id"`
	Symbol    string      `json:"simbolo"`
	Name      string      `json:"nome"`
	Price     json.Number `json:"precoAtual"`
	UpdatedAt time.Time   `json:"dataAtualizacao"`
	Source    string      `json:"fonte"`
}

type historyJSON struct {
	Label string  `json:"data"`
	Price float64 `json:"preco"`
}

type batchJSON struct {
	Assets   []assetJSON            `json:"ativos"`
	Statuses []service.SymbolStatus `json:"status"`
}

func toAssetJSON(a models.Asset) assetJSON {
	out := assetJSON{
		Symbol:    a.Symbol,
		Name:      a.Name,
		Price:     json.Number(a.Price.String()),
		UpdatedAt: a.UpdatedAt,
		Source:    a.Source,
	}
	if a.ID != 0 {
		id := a.ID
		out.ID = &id
	}
	return out
}

func toAssetsJSON(assets []models.Asset) []assetJSON {
	out := make([]assetJSON, len(assets))
	for i, a := range assets {
		out[i] = toAssetJSON(a)
	}
	return out
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAssetsJSON(s.assets.GetDashboard(r.Context())))
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	equities, cryptos := q.Get("acoes"), q.Get("criptos")
	if equities == "" && cryptos == "" {
		writeError(w, http.StatusBadRequest, "at least one of acoes or criptos is required")
		return
	}

	report := s.assets.FetchBatchReport(r.Context(), equities, cryptos)
	statuses := report.Statuses
	if statuses == nil {
		statuses = []service.SymbolStatus{}
	}
	writeJSON(w, http.StatusOK, batchJSON{
		Assets:   toAssetsJSON(report.Assets),
		Statuses: statuses,
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	asset, err := s.assets.GetQuote(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, service.ErrEmptySymbol) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("quote fetch failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch quote for "+market.NormalizeCode(symbol))
		return
	}
	writeJSON(w, http.StatusOK, toAssetJSON(*asset))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("periodo") {
		writeError(w, http.StatusBadRequest, "missing required query parameter: periodo")
		return
	}

	points := s.assets.GetHistory(r.Context(), r.PathValue("symbol"), q.Get("periodo"))
	out := make([]historyJSON, len(points))
	for i, p := range points {
		out[i] = historyJSON{Label: p.Label, Price: p.Price}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 100)

	assets, err := s.assets.Snapshots(r.Context(), r.URL.Query().Get("symbol"), limit)
	if err != nil {
		s.logger.Error("snapshot query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch snapshots")
		return
	}
	writeJSON(w, http.StatusOK, toAssetsJSON(assets))
}
