package coingeckofeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scroll-wallet/scroll-walletd/pkg/pricefeed"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	defaultTimeout = 15 * time.Second
)

type service struct {
	baseURL string
	client  *http.Client
}

// ServiceOpts is the struct given to the NewService method
type ServiceOpts struct {
	// BaseURL overrides the CoinGecko API endpoint, mainly for tests.
	BaseURL string
	Timeout time.Duration
}

// NewService returns a pricefeed.Service backed by the CoinGecko simple
// price API
func NewService(opts ServiceOpts) pricefeed.Service {
	baseURL := opts.BaseURL
	if len(baseURL) <= 0 {
		baseURL = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *service) GetQuote(
	ctx context.Context, assetID string,
) (*pricefeed.Quote, error) {
	url := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		s.baseURL, assetID,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pricefeed.ErrPriceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pricefeed.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"%w: status %d", pricefeed.ErrPriceUnavailable, resp.StatusCode,
		)
	}

	// {"<assetID>": {"usd": 1234.5, "usd_24h_change": -1.2}}
	prices := map[string]map[string]float64{}
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("%w: %s", pricefeed.ErrPriceUnavailable, err)
	}

	entry, ok := prices[assetID]
	if !ok {
		return nil, fmt.Errorf(
			"%w: no quote for %s", pricefeed.ErrPriceUnavailable, assetID,
		)
	}

	return &pricefeed.Quote{
		Price:           decimal.NewFromFloat(entry["usd"]),
		Change24Percent: decimal.NewFromFloat(entry["usd_24h_change"]),
	}, nil
}
