package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

func TestOpenPosition(t *testing.T) {
	long := OpenPosition("AAPL", SideBuy, d("10"), d("100"))
	assert.True(t, long.Quantity.Equal(d("10")))
	assert.True(t, long.AvgPrice.Equal(d("100")))

	short := OpenPosition("TSLA", SideSell, d("5"), d("200"))
	assert.True(t, short.Quantity.Equal(d("-5")))
	assert.True(t, short.AvgPrice.Equal(d("200")))
}

func TestPositionApply(t *testing.T) {
	tests := []struct {
		name     string
		start    Position
		side     Side
		quantity string
		price    string
		wantQty  string
		wantAvg  string
	}{
		{
			name:     "accumulating buys weight the average",
			start:    Position{Symbol: "AAPL", Quantity: d("10"), AvgPrice: d("100")},
			side:     SideBuy,
			quantity: "10",
			price:    "200",
			wantQty:  "20",
			wantAvg:  "150",
		},
		{
			name:     "partial sell keeps the cost basis",
			start:    Position{Symbol: "AAPL", Quantity: d("10"), AvgPrice: d("100")},
			side:     SideSell,
			quantity: "4",
			price:    "150",
			wantQty:  "6",
			wantAvg:  "100",
		},
		{
			name:     "exact flatten zeroes the quantity",
			start:    Position{Symbol: "AAPL", Quantity: d("10"), AvgPrice: d("100")},
			side:     SideSell,
			quantity: "10",
			price:    "120",
			wantQty:  "0",
			wantAvg:  "100",
		},
		{
			name:     "sell through zero flips to a short at the fill price",
			start:    Position{Symbol: "AAPL", Quantity: d("5"), AvgPrice: d("100")},
			side:     SideSell,
			quantity: "10",
			price:    "110",
			wantQty:  "-5",
			wantAvg:  "110",
		},
		{
			name:     "adding to a short weights the average",
			start:    Position{Symbol: "AAPL", Quantity: d("-10"), AvgPrice: d("100")},
			side:     SideSell,
			quantity: "10",
			price:    "80",
			wantQty:  "-20",
			wantAvg:  "90",
		},
		{
			name:     "buy covering part of a short keeps the cost basis",
			start:    Position{Symbol: "AAPL", Quantity: d("-10"), AvgPrice: d("100")},
			side:     SideBuy,
			quantity: "4",
			price:    "90",
			wantQty:  "-6",
			wantAvg:  "100",
		},
		{
			name:     "buy through zero flips to a long at the fill price",
			start:    Position{Symbol: "AAPL", Quantity: d("-5"), AvgPrice: d("100")},
			side:     SideBuy,
			quantity: "8",
			price:    "95",
			wantQty:  "3",
			wantAvg:  "95",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.start
			p.Apply(tc.side, d(tc.quantity), d(tc.price))
			assert.True(t, p.Quantity.Equal(d(tc.wantQty)), "quantity = %s, want %s", p.Quantity, tc.wantQty)
			assert.True(t, p.AvgPrice.Equal(d(tc.wantAvg)), "avgPrice = %s, want %s", p.AvgPrice, tc.wantAvg)
		})
	}
}

func TestPositionPnL(t *testing.T) {
	long := Position{Symbol: "AAPL", Quantity: d("10"), AvgPrice: d("100")}
	assert.True(t, long.UnrealizedPnL(d("120")).Equal(d("200")))
	assert.True(t, long.UnrealizedPnLPercent(d("120")).Equal(d("20")))

	short := Position{Symbol: "AAPL", Quantity: d("-10"), AvgPrice: d("100")}
	assert.True(t, short.UnrealizedPnL(d("90")).Equal(d("100")))
}

func TestSummarize(t *testing.T) {
	holdings := []Holding{
		{MarketValue: d("1200"), UnrealizedPnL: d("200")},
		{MarketValue: d("500"), UnrealizedPnL: d("-50")},
	}
	s := Summarize(holdings)
	assert.True(t, s.TotalValue.Equal(d("1700")))
	assert.True(t, s.TotalProfitLoss.Equal(d("150")))
	// 150 / (1700 - 150) * 100
	expected := d("150").Div(d("1550")).Mul(d("100"))
	assert.True(t, s.TotalProfitLossPercent.Equal(expected))
}

func TestSummarizeEmptyPortfolio(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalValue.IsZero())
	assert.True(t, s.TotalProfitLossPercent.IsZero())
}

func TestSideRoundTrip(t *testing.T) {
	side, err := ParseSide("sell")
	require.NoError(t, err)
	assert.Equal(t, SideSell, side)

	_, err = ParseSide("hold")
	assert.Error(t, err)

	payload, err := SideBuy.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"buy"`, string(payload))

	var decoded Side
	require.NoError(t, decoded.UnmarshalJSON([]byte(`"sell"`)))
	assert.Equal(t, SideSell, decoded)
}
