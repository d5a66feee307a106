package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/pkg/retrier"
)

const (
	finnhubBaseURL     = "https://finnhub.io/api/v1"
	finnhubCandleCount = 50
)

// Finnhub serves quotes and daily candles from the Finnhub REST API.
type Finnhub struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// NewFinnhub creates a Finnhub client. The timeout bounds every request;
// a request that exceeds it surfaces as a regular quote failure.
func NewFinnhub(token string, timeout time.Duration) *Finnhub {
	return &Finnhub{
		token:      token,
		baseURL:    finnhubBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retrier:    retrier.New(retrier.WithMaxRetries(2)),
	}
}

type finnhubQuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
}

// Quote fetches the current price for a symbol. A single quote fetch is
// never retried: valuation treats each call as independent and degrades on
// failure instead of waiting out a backoff.
func (f *Finnhub) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	if f.token == "" {
		return domain.Quote{}, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", f.baseURL, url.QueryEscape(symbol), url.QueryEscape(f.token))

	var payload finnhubQuoteResponse
	if err := f.getJSON(ctx, endpoint, &payload); err != nil {
		return domain.Quote{}, err
	}

	if !isFinitePositive(payload.Current) {
		return domain.Quote{}, ErrBadResponse
	}

	return domain.Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(payload.Current),
		Change:        decimal.NewFromFloat(finiteOrZero(payload.Change)),
		ChangePercent: decimal.NewFromFloat(finiteOrZero(payload.ChangePercent)),
	}, nil
}

type finnhubCandleResponse struct {
	Status  string    `json:"s"`
	Times   []int64   `json:"t"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []float64 `json:"v"`
}

// Candles fetches the last daily bars for a symbol, oldest first.
// History fetches are retried with backoff, they back the chart rather
// than a valuation pass.
func (f *Finnhub) Candles(ctx context.Context, symbol string) ([]domain.Candle, error) {
	if f.token == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s/stock/candle?symbol=%s&resolution=D&count=%d&token=%s",
		f.baseURL, url.QueryEscape(symbol), finnhubCandleCount, url.QueryEscape(f.token))

	payload, err := retrier.DoWithData(f.retrier, ctx, func(ctx context.Context) (finnhubCandleResponse, error) {
		var resp finnhubCandleResponse
		err := f.getJSON(ctx, endpoint, &resp)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if payload.Status != "ok" {
		return nil, ErrBadResponse
	}

	candles := make([]domain.Candle, 0, len(payload.Times))
	for i, ts := range payload.Times {
		candles = append(candles, domain.Candle{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   decimal.NewFromFloat(finiteOrZero(at(payload.Opens, i))),
			High:   decimal.NewFromFloat(finiteOrZero(at(payload.Highs, i))),
			Low:    decimal.NewFromFloat(finiteOrZero(at(payload.Lows, i))),
			Close:  decimal.NewFromFloat(finiteOrZero(at(payload.Closes, i))),
			Volume: decimal.NewFromFloat(finiteOrZero(at(payload.Volumes, i))),
		})
	}
	return candles, nil
}

func (f *Finnhub) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build finnhub request")
	}

	res, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "finnhub request failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &StatusError{Code: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return ErrBadResponse
	}
	return nil
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
