package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one executed order. Trades are immutable and append-only:
// there is no cancel or amend, the log only grows.
type Trade struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Side     Side            `json:"side"`
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// String returns a human-readable representation.
func (t *Trade) String() string {
	return fmt.Sprintf("%s %s %s @ %s", t.Side.String(), t.Quantity.String(), t.Symbol, t.Price.String())
}
