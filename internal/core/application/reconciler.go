package application

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
	"github.com/scroll-wallet/scroll-walletd/pkg/pricefeed"
)

// placeholderTokenPrice values allow-listed tokens that have no price feed
// identifier, the stablecoins in practice.
var placeholderTokenPrice = decimal.NewFromInt(1)

type tokenResult struct {
	token  domain.Token
	amount decimal.Decimal
	ok     bool
}

// reconcile rebuilds the portfolio snapshot from scratch: native balance,
// every allow-listed token, and USD valuations. It absorbs partial failures
// instead of propagating them: a token whose contract is missing or whose
// call fails is skipped, a failing price feed falls back to the last good
// quote or to zero.
func (s *walletService) reconcile(
	ctx context.Context,
	explorerSvc explorer.Service,
	network domain.Network,
	address string,
) domain.Portfolio {
	nativeBalance := decimal.Zero
	if wei, err := explorerSvc.GetBalance(ctx, address); err != nil {
		log.WithError(err).Debug("reconciler: native balance lookup failed")
	} else {
		nativeBalance = fromBaseUnits(wei, network.NativeCurrency.Decimals)
	}

	nativeQuote := s.quoteFor(ctx, s.nativeFeedID)
	assets := []domain.Asset{
		makeAsset(
			network.NativeCurrency.Name,
			network.NativeCurrency.Symbol,
			"native",
			nativeBalance,
			nativeQuote,
		),
	}

	results := make([]tokenResult, len(network.Tokens))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, token := range network.Tokens {
		i, token := i, token
		eg.Go(func() error {
			results[i] = fetchToken(egCtx, explorerSvc, token, address)
			return nil
		})
	}
	// failures are carried per token, never as group errors
	eg.Wait() //nolint:errcheck

	held := 0
	for _, res := range results {
		if !res.ok || !res.amount.IsPositive() {
			continue
		}
		quote := s.quoteFor(ctx, res.token.FeedID)
		assets = append(assets, makeAsset(
			res.token.Name, res.token.Symbol, res.token.IconKey,
			res.amount, quote,
		))
		held++
	}

	// the asset list always shows every allow-listed symbol, so the display
	// is never empty before the first token is ever received
	if held == 0 {
		for _, token := range network.Tokens {
			assets = append(assets, makeAsset(
				token.Name, token.Symbol, token.IconKey,
				decimal.Zero, pricefeed.Quote{},
			))
		}
	}

	total := decimal.Zero
	for _, asset := range assets {
		total = total.Add(asset.UsdValue)
	}

	return domain.Portfolio{
		NativeBalance: nativeBalance,
		Assets:        assets,
		TotalUsd:      total,
		UpdatedAt:     time.Now().UnixMilli(),
	}
}

// fetchToken looks up one token position. A contract without code or a
// failing call skips the token for this round only.
func fetchToken(
	ctx context.Context,
	explorerSvc explorer.Service,
	token domain.Token,
	owner string,
) tokenResult {
	hasCode, err := explorerSvc.HasCode(ctx, token.Address)
	if err != nil || !hasCode {
		log.WithField("symbol", token.Symbol).Debug(
			"reconciler: skipping token without contract code",
		)
		return tokenResult{token: token}
	}

	balance, err := explorerSvc.GetTokenBalance(ctx, token.Address, owner)
	if err != nil {
		log.WithError(err).WithField("symbol", token.Symbol).Debug(
			"reconciler: token balance lookup failed",
		)
		return tokenResult{token: token}
	}

	return tokenResult{
		token:  token,
		amount: fromBaseUnits(balance, token.Decimals),
		ok:     true,
	}
}

// quoteFor returns the USD quote of the asset. An empty feed identifier means
// the asset is valued at the flat placeholder price. A failing feed falls
// back to the last quote it ever served, or to zero on a cold start.
func (s *walletService) quoteFor(
	ctx context.Context, feedID string,
) pricefeed.Quote {
	if feedID == "" {
		return pricefeed.Quote{Price: placeholderTokenPrice}
	}

	quote, err := s.feedSvc.GetQuote(ctx, feedID)
	if err != nil {
		s.stateLock.RLock()
		cached, ok := s.priceCache[feedID]
		s.stateLock.RUnlock()
		if ok {
			return cached
		}
		log.WithError(err).WithField("asset", feedID).Debug(
			"reconciler: no quote available",
		)
		return pricefeed.Quote{}
	}

	s.stateLock.Lock()
	s.priceCache[feedID] = *quote
	s.stateLock.Unlock()
	return *quote
}

func makeAsset(
	name, symbol, iconKey string,
	amount decimal.Decimal,
	quote pricefeed.Quote,
) domain.Asset {
	return domain.Asset{
		Name:           name,
		Symbol:         symbol,
		Amount:         amount,
		DisplayAmount:  amount.StringFixed(4),
		UsdValue:       amount.Mul(quote.Price).Round(2),
		ChangeAbsolute: amount.Mul(quote.Change24Absolute()).Round(2),
		ChangePercent:  quote.Change24Percent,
		IconKey:        iconKey,
	}
}

func fromBaseUnits(value *big.Int, decimals int) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -int32(decimals))
}

func toBaseUnits(value decimal.Decimal, decimals int) *big.Int {
	return value.Shift(int32(decimals)).BigInt()
}
