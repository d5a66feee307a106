package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/starfold/paperdesk/internal/domain"
	"github.com/starfold/paperdesk/pkg/retrier"
)

const (
	alphaVantageBaseURL   = "https://www.alphavantage.co/query"
	alphaVantageMaxPoints = 50
)

// AlphaVantage serves quotes and daily candles from the Alpha Vantage API.
type AlphaVantage struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// NewAlphaVantage creates an Alpha Vantage client bounded by the timeout.
func NewAlphaVantage(apiKey string, timeout time.Duration) *AlphaVantage {
	return &AlphaVantage{
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retrier:    retrier.New(retrier.WithMaxRetries(2)),
	}
}

type alphaGlobalQuote struct {
	Price         string `json:"05. price"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

type alphaQuoteResponse struct {
	GlobalQuote alphaGlobalQuote `json:"Global Quote"`
}

// Quote fetches the current price for a symbol. Not retried, same policy
// as the Finnhub client.
func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	if a.apiKey == "" {
		return domain.Quote{}, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), url.QueryEscape(a.apiKey))

	var payload alphaQuoteResponse
	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return domain.Quote{}, err
	}

	price, err := decimal.NewFromString(payload.GlobalQuote.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return domain.Quote{}, ErrBadResponse
	}

	change := parseDecimalOrZero(payload.GlobalQuote.Change)
	changePercent := parseDecimalOrZero(strings.TrimSuffix(payload.GlobalQuote.ChangePercent, "%"))

	return domain.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}

type alphaDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type alphaSeriesResponse struct {
	Series map[string]alphaDailyBar `json:"Time Series (Daily)"`
}

// Candles fetches the most recent daily bars for a symbol, oldest first.
func (a *AlphaVantage) Candles(ctx context.Context, symbol string) ([]domain.Candle, error) {
	if a.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s",
		a.baseURL, url.QueryEscape(symbol), url.QueryEscape(a.apiKey))

	payload, err := retrier.DoWithData(a.retrier, ctx, func(ctx context.Context) (alphaSeriesResponse, error) {
		var resp alphaSeriesResponse
		err := a.getJSON(ctx, endpoint, &resp)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if len(payload.Series) == 0 {
		return nil, ErrBadResponse
	}

	dates := make([]string, 0, len(payload.Series))
	for date := range payload.Series {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > alphaVantageMaxPoints {
		dates = dates[len(dates)-alphaVantageMaxPoints:]
	}

	candles := make([]domain.Candle, 0, len(dates))
	for _, dateStr := range dates {
		bar := payload.Series[dateStr]
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, ErrBadResponse
		}
		candles = append(candles, domain.Candle{
			Date:   date,
			Open:   parseDecimalOrZero(bar.Open),
			High:   parseDecimalOrZero(bar.High),
			Low:    parseDecimalOrZero(bar.Low),
			Close:  parseDecimalOrZero(bar.Close),
			Volume: parseDecimalOrZero(bar.Volume),
		})
	}
	return candles, nil
}

func (a *AlphaVantage) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build alpha vantage request")
	}

	res, err := a.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "alpha vantage request failed")
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

func parseDecimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
