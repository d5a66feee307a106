package domain

import (
	"github.com/shopspring/decimal"
)

// Position is the net open holding in one symbol. Quantity is signed:
// positive is long, negative is short. AvgPrice is the quantity-weighted
// average price of the currently open quantity and stays positive while
// the position is open. A flat position (quantity zero) is removed from
// the position set by the ledger, it never lingers as a zero record.
type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

// OpenPosition creates the position established by the first fill for a symbol.
func OpenPosition(symbol string, side Side, quantity, price decimal.Decimal) Position {
	qty := quantity
	if side == SideSell {
		qty = quantity.Neg()
	}
	return Position{Symbol: symbol, Quantity: qty, AvgPrice: price}
}

// Apply merges one fill into the position.
//
// Scaling in (the fill extends the current direction) re-weights the average
// price by open quantity. Scaling out (the fill reduces the position without
// crossing zero) leaves the cost basis of the remainder untouched. A fill that
// crosses through zero flips the position: the surviving quantity was opened
// by this fill, so its average price is the fill price.
func (p *Position) Apply(side Side, quantity, price decimal.Decimal) {
	delta := quantity
	if side == SideSell {
		delta = quantity.Neg()
	}
	newQty := p.Quantity.Add(delta)

	switch {
	case newQty.IsZero():
		p.Quantity = decimal.Zero
	case delta.Sign() == p.Quantity.Sign():
		openNotional := p.AvgPrice.Mul(p.Quantity.Abs())
		addedNotional := price.Mul(quantity)
		p.AvgPrice = openNotional.Add(addedNotional).Div(newQty.Abs())
		p.Quantity = newQty
	case newQty.Sign() == p.Quantity.Sign():
		p.Quantity = newQty
	default:
		p.Quantity = newQty
		p.AvgPrice = price
	}
}

// IsFlat reports whether the position holds nothing.
func (p *Position) IsFlat() bool {
	return p.Quantity.IsZero()
}

// MarketValue is the signed value of the position at the given price.
func (p *Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(p.Quantity)
}

// UnrealizedPnL is the paper profit or loss at the given price.
// The signed quantity makes the same formula work for shorts.
func (p *Position) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	return price.Sub(p.AvgPrice).Mul(p.Quantity)
}

// UnrealizedPnLPercent is the price move relative to cost basis, in percent.
func (p *Position) UnrealizedPnLPercent(price decimal.Decimal) decimal.Decimal {
	if p.AvgPrice.IsZero() {
		return decimal.Zero
	}
	return price.Sub(p.AvgPrice).Div(p.AvgPrice).Mul(decimal.NewFromInt(100))
}
