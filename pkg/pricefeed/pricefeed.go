package pricefeed

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable is returned when the feed cannot serve a quote for the
// asset. Callers are expected to degrade, not to abort.
var ErrPriceUnavailable = errors.New("price is unavailable")

// Quote is the current USD price of an asset together with its 24h movement.
type Quote struct {
	Price           decimal.Decimal
	Change24Percent decimal.Decimal
}

// Change24Absolute returns the dollar movement over the last 24h implied by
// the price and the percent change: previous = price / (1 + pct/100).
func (q Quote) Change24Absolute() decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(
		q.Change24Percent.Div(decimal.NewFromInt(100)),
	)
	if divisor.IsZero() {
		return decimal.Zero
	}
	previous := q.Price.Div(divisor)
	return q.Price.Sub(previous)
}

// Service is the boundary towards the external price API. Best effort by
// contract: a failing feed must never take the wallet down with it.
type Service interface {
	// GetQuote returns the current quote for the asset identified by the
	// feed's own identifier (eg. "ethereum" on CoinGecko).
	GetQuote(ctx context.Context, assetID string) (*Quote, error)
}
