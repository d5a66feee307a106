// Command paperdesk runs the paper-trading desk: a simulated order ledger
// with live portfolio valuation served over HTTP.
//
// Usage:
//
//	paperdesk --config config.yaml
//	paperdesk (uses CLI arguments)
//	paperdesk setup (interactive configuration wizard)
//
// Vendor credentials can also come from the environment:
//
//	For Finnhub: FINNHUB_TOKEN
//	For Alpha Vantage: ALPHAVANTAGE_API_KEY
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/starfold/paperdesk/config"
	"github.com/starfold/paperdesk/internal/broker"
	"github.com/starfold/paperdesk/internal/market"
	"github.com/starfold/paperdesk/internal/quote"
	"github.com/starfold/paperdesk/internal/setup"
	"github.com/starfold/paperdesk/internal/storage/ledgerstate"
	"github.com/starfold/paperdesk/internal/storage/tradelog"
	"github.com/starfold/paperdesk/internal/valuation"
	"github.com/starfold/paperdesk/internal/web"
	"go.uber.org/zap"
)

const generatedConfigPath = "config.gen.yaml"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(generatedConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store, err := ledgerstate.NewStore(cfg.StateDir)
	if err != nil {
		logger.Fatal("failed to open ledger state store", zap.Error(err))
	}

	journal, err := tradelog.NewWALStore(cfg.JournalDir)
	if err != nil {
		logger.Fatal("failed to open trade journal", zap.Error(err))
	}
	defer journal.Close()

	desk, err := broker.New(store, journal, logger)
	if err != nil {
		logger.Fatal("failed to restore ledger", zap.Error(err))
	}

	var supplier quote.SeriesSupplier
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		supplier = quote.NewAlphaVantage(cfg.AlphaVantageKey, cfg.QuoteTimeout)
	default:
		supplier = quote.NewFinnhub(cfg.FinnhubToken, cfg.QuoteTimeout)
	}

	valuator := valuation.New(supplier, cfg.QuoteTimeout, logger)
	analyzer := market.NewAnalyzer(supplier)

	server := web.NewServer(cfg.ListenAddr, desk, valuator, supplier, analyzer, journal, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("paperdesk started",
		zap.String("listen", cfg.ListenAddr),
		zap.String("provider", cfg.Provider))

	if err := server.Start(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("paperdesk stopped")
}
