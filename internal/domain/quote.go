package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price for a symbol as reported by a market data
// vendor. Quotes are never persisted, every valuation fetches fresh ones.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// Candle is one daily OHLCV bar.
type Candle struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}
