// Package web exposes the paper broker over HTTP: a JSON API, a trade SSE
// stream and an embedded dashboard page.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/broker"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/internal/market"
	"github.com/starfold/paperdesk/internal/quote"
	"github.com/starfold/paperdesk/internal/storage/tradelog"
	"go.uber.org/zap"
)

const streamPollInterval = 2 * time.Second

type ledger interface {
	PlaceOrder(side domain.Side, symbol string, quantity, price decimal.Decimal) (broker.Snapshot, error)
	Positions() []domain.Position
	Trades() []domain.Trade
	Reset() error
}

type portfolioValuator interface {
	Valuate(ctx context.Context, positions []domain.Position) ([]domain.Holding, domain.PortfolioSummary)
}

type tradeJournalReader interface {
	RecordsAfter(index uint64) ([]tradelog.Record, error)
}

type seriesProvider interface {
	DailySeries(ctx context.Context, symbol string) (market.Series, error)
}

// Server exposes HTTP endpoints serving the dashboard and the JSON API.
type Server struct {
	Addr     string
	Ledger   ledger
	Valuator portfolioValuator
	Supplier quote.Supplier
	Analyzer seriesProvider
	Journal  tradeJournalReader
	Logger   *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, ledger ledger, valuator portfolioValuator, supplier quote.Supplier, analyzer seriesProvider, journal tradeJournalReader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Addr:     addr,
		Ledger:   ledger,
		Valuator: valuator,
		Supplier: supplier,
		Analyzer: analyzer,
		Journal:  journal,
		Logger:   logger,
	}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/orders", s.handleOrders)
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/trades", s.handleTrades)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/candles", s.handleCandles)
	mux.HandleFunc("/api/trades/stream", s.handleTradeStream)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

type orderRequest struct {
	Side     string      `json:"side"`
	Symbol   string      `json:"symbol"`
	Quantity json.Number `json:"quantity"`
	Price    json.Number `json:"price"`
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST")
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ORDER", "malformed order payload")
		return
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ORDER", err.Error())
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ORDER", "quantity is not a number")
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ORDER", "price is not a number")
		return
	}

	snapshot, err := s.Ledger.PlaceOrder(side, req.Symbol, quantity, price)
	if err != nil {
		if errors.Is(err, broker.ErrInvalidOrder) {
			writeError(w, http.StatusBadRequest, "INVALID_ORDER", err.Error())
			return
		}
		s.Logger.Error("order failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "order failed")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"positions": s.Ledger.Positions()})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"trades": s.Ledger.Trades()})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, summary := s.Valuator.Valuate(r.Context(), s.Ledger.Positions())
	writeJSON(w, http.StatusOK, map[string]any{"holdings": holdings, "summary": summary})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use POST")
		return
	}
	if err := s.Ledger.Reset(); err != nil {
		s.Logger.Error("reset failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "reset failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SYMBOL", "symbol query parameter is required")
		return
	}

	q, err := s.Supplier.Quote(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, quoteErrorCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SYMBOL", "symbol query parameter is required")
		return
	}
	if s.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_SERIES", "candle history is not available")
		return
	}

	series, err := s.Analyzer.DailySeries(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, quoteErrorCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_JOURNAL", "trade journal is not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendRecords := func() error {
		records, err := s.Journal.RecordsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: %s\n", record.Kind)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendRecords(); err != nil {
		http.Error(w, "failed to load trade journal", http.StatusInternalServerError)
		s.Logger.Error("trade stream initial load", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendRecords(); err != nil {
				s.Logger.Warn("trade stream poll", zap.Error(err))
			}
		}
	}
}

func quoteErrorCode(err error) string {
	var statusErr *quote.StatusError
	switch {
	case errors.Is(err, quote.ErrNoAPIKey):
		return "NO_API_KEY"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.Code)
	default:
		return "BAD_RESPONSE"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
