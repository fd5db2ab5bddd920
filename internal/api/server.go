package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kjannette/ativos-backend/internal/models"
	"github.com/kjannette/ativos-backend/internal/service"
)

const maxQueryLimit = 1000

// AssetService is what the HTTP layer needs from the service package.
type AssetService interface {
	GetDashboard(ctx context.Context) []models.Asset
	FetchBatchReport(ctx context.Context, equitySymbols, cryptoSymbols string) service.BatchReport
	GetQuote(ctx context.Context, symbol string) (*models.Asset, error)
	GetHistory(ctx context.Context, symbol, period string) []models.HistoryPoint
	Snapshots(ctx context.Context, symbol string, limit int) ([]models.Asset, error)
	Ping(ctx context.Context) error
}

type Server struct {
	assets     AssetService
	httpServer *http.Server
	apiKey     string
	logger     *slog.Logger
}

func NewServer(assets AssetService, port int, apiKey, corsOrigin string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		assets: assets,
		apiKey: apiKey,
		logger: logger.With("component", "api"),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(corsOrigin),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler builds the routed handler with auth and CORS applied.
func (s *Server) Handler(corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	// Asset routes
	mux.HandleFunc("GET /api/ativos/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/ativos/lote", s.handleBatch)
	mux.HandleFunc("GET /api/ativos/ticker/{symbol}", s.handleQuote)
	mux.HandleFunc("GET /api/ativos/historico/{symbol}", s.handleHistory)
	mux.HandleFunc("GET /api/ativos/snapshots", s.handleSnapshots)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.logRequests(s.authMiddleware(corsMiddleware(mux, corsOrigin)))
}

func (s *Server) Start() error {
	s.logger.Info("REST API server started",
		"addr", s.httpServer.Addr,
		"auth", s.apiKey != "")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
