// Package market serves daily price history enriched with moving-average
// overlays for the dashboard chart.
package market

import (
	"context"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/internal/quote"
)

const overlayPeriod = 10

// Series is daily history with indicator overlays. The overlays are
// shorter than the candle list: an N-period average only exists from the
// N-th bar on.
type Series struct {
	Symbol  string            `json:"symbol"`
	Candles []domain.Candle   `json:"candles"`
	SMA     []decimal.Decimal `json:"sma"`
	EMA     []decimal.Decimal `json:"ema"`
}

// Analyzer fetches candle history and computes overlays.
type Analyzer struct {
	supplier quote.SeriesSupplier
}

// NewAnalyzer creates an Analyzer on top of a series-capable supplier.
func NewAnalyzer(supplier quote.SeriesSupplier) *Analyzer {
	return &Analyzer{supplier: supplier}
}

// DailySeries fetches the daily bars for a symbol and annotates them with
// simple and exponential moving averages of the closes.
func (a *Analyzer) DailySeries(ctx context.Context, symbol string) (Series, error) {
	candles, err := a.supplier.Candles(ctx, symbol)
	if err != nil {
		return Series{}, errors.Wrapf(err, "fetch daily series for %s", symbol)
	}

	series := Series{Symbol: symbol, Candles: candles}
	if len(candles) < overlayPeriod {
		return series, nil
	}

	closes := make([]decimal.Decimal, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}

	series.SMA = movingAverage(closes, trend.NewSmaWithPeriod[float64](overlayPeriod).Compute)
	series.EMA = movingAverage(closes, trend.NewEmaWithPeriod[float64](overlayPeriod).Compute)
	return series, nil
}

func movingAverage(closes []decimal.Decimal, compute func(<-chan float64) <-chan float64) []decimal.Decimal {
	input := helper.SliceToChan(decimalsToFloat64(closes))
	output := helper.ChanToSlice(compute(input))
	return float64ToDecimals(output)
}

func decimalsToFloat64(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i], _ = v.Float64()
	}
	return out
}

func float64ToDecimals(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
