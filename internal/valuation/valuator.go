// Package valuation turns the ledger's positions into a priced portfolio
// view. It only reads positions, it never mutates ledger state.
package valuation

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/internal/quote"
	"go.uber.org/zap"
)

const defaultQuoteTimeout = 10 * time.Second

// Valuator prices positions against a quote supplier. Quotes are fetched
// fresh on every call, one request per held symbol, with no caching and no
// cross-symbol ordering. A failed fetch degrades that one holding to its
// cost basis and never fails the valuation.
type Valuator struct {
	supplier quote.Supplier
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Valuator. The timeout bounds each per-symbol quote fetch;
// zero means the default.
func New(supplier quote.Supplier, timeout time.Duration, logger *zap.Logger) *Valuator {
	if timeout <= 0 {
		timeout = defaultQuoteTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Valuator{supplier: supplier, timeout: timeout, logger: logger}
}

// Valuate prices the given positions concurrently. The returned holdings
// are in the same order as the input; every position is represented even
// when its quote fetch failed.
func (v *Valuator) Valuate(ctx context.Context, positions []domain.Position) ([]domain.Holding, domain.PortfolioSummary) {
	holdings := make([]domain.Holding, len(positions))

	var wg sync.WaitGroup
	for i, pos := range positions {
		wg.Add(1)
		go func(i int, pos domain.Position) {
			defer wg.Done()
			holdings[i] = v.valuateOne(ctx, pos)
		}(i, pos)
	}
	wg.Wait()

	return holdings, domain.Summarize(holdings)
}

func (v *Valuator) valuateOne(ctx context.Context, pos domain.Position) domain.Holding {
	quoteCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	q, err := v.supplier.Quote(quoteCtx, pos.Symbol)
	if err != nil {
		v.logger.Warn("quote fetch failed, valuing at cost basis",
			zap.String("symbol", pos.Symbol),
			zap.Error(err))
		return domain.Holding{
			Symbol:               pos.Symbol,
			Quantity:             pos.Quantity,
			AvgPrice:             pos.AvgPrice,
			Price:                pos.AvgPrice,
			MarketValue:          pos.MarketValue(pos.AvgPrice),
			UnrealizedPnL:        decimal.Zero,
			UnrealizedPnLPercent: decimal.Zero,
			Live:                 false,
		}
	}

	return domain.Holding{
		Symbol:               pos.Symbol,
		Quantity:             pos.Quantity,
		AvgPrice:             pos.AvgPrice,
		Price:                q.Price,
		MarketValue:          pos.MarketValue(q.Price),
		UnrealizedPnL:        pos.UnrealizedPnL(q.Price),
		UnrealizedPnLPercent: pos.UnrealizedPnLPercent(q.Price),
		Live:                 true,
	}
}
