// Package quote fetches live prices from market data vendors. Vendors are
// an unreliable, swappable dependency: callers branch on the error kinds
// below but usually just degrade to cost-basis valuation.
package quote

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/starfold/paperdesk/internal/domain"
)

// Supplier returns a current quote for a symbol.
type Supplier interface {
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
}

// SeriesSupplier additionally serves daily OHLCV history.
type SeriesSupplier interface {
	Supplier
	Candles(ctx context.Context, symbol string) ([]domain.Candle, error)
}

// ErrNoAPIKey means the vendor credential is not configured.
var ErrNoAPIKey = errors.New("market data API key is not configured")

// ErrBadResponse means the vendor answered but the payload was unusable.
var ErrBadResponse = errors.New("market data vendor returned an unusable payload")

// StatusError is a non-2xx vendor response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market data vendor returned HTTP %d", e.Code)
}
