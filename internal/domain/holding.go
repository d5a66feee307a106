package domain

import "github.com/shopspring/decimal"

// Holding is a position valued against a market price. When the quote fetch
// for a symbol fails the holding falls back to its cost basis: Price equals
// AvgPrice, both PnL fields are zero and Live is false. The holding is still
// present, a quote outage never hides what the user owns.
type Holding struct {
	Symbol               string          `json:"symbol"`
	Quantity             decimal.Decimal `json:"quantity"`
	AvgPrice             decimal.Decimal `json:"avgPrice"`
	Price                decimal.Decimal `json:"price"`
	MarketValue          decimal.Decimal `json:"marketValue"`
	UnrealizedPnL        decimal.Decimal `json:"unrealizedPL"`
	UnrealizedPnLPercent decimal.Decimal `json:"unrealizedPLPercent"`
	Live                 bool            `json:"live"`
}

// PortfolioSummary aggregates the holdings of one valuation pass.
type PortfolioSummary struct {
	TotalValue             decimal.Decimal `json:"totalValue"`
	TotalProfitLoss        decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossPercent decimal.Decimal `json:"totalProfitLossPercent"`
}

// Summarize folds holdings into portfolio totals. The aggregate percent is
// profit over invested capital (total value minus profit); it reports zero
// when the portfolio is empty or the invested capital nets to zero.
func Summarize(holdings []Holding) PortfolioSummary {
	var s PortfolioSummary
	for _, h := range holdings {
		s.TotalValue = s.TotalValue.Add(h.MarketValue)
		s.TotalProfitLoss = s.TotalProfitLoss.Add(h.UnrealizedPnL)
	}
	if s.TotalValue.IsZero() {
		return s
	}
	invested := s.TotalValue.Sub(s.TotalProfitLoss)
	if invested.IsZero() {
		return s
	}
	s.TotalProfitLossPercent = s.TotalProfitLoss.Div(invested).Mul(decimal.NewFromInt(100))
	return s
}
