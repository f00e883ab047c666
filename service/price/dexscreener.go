package price

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultDexScreenerBaseURL is the public Dexscreener API.
const DefaultDexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerSource fetches a mint's USD price from Dexscreener's pair-data
// endpoint, taking the quote from the highest-liquidity pair.
type DexScreenerSource struct {
	baseURL    string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewDexScreenerSource creates a Dexscreener price source. An empty baseURL
// uses the public API; a nil httpClient gets a sane default timeout.
func NewDexScreenerSource(baseURL string, httpClient *http.Client) *DexScreenerSource {
	if baseURL == "" {
		baseURL = DefaultDexScreenerBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &DexScreenerSource{
		baseURL:    baseURL,
		httpClient: httpClient,
		retryBase:  time.Second,
	}
}

func (s *DexScreenerSource) Name() string { return "dexscreener" }

type dexScreenerResponse struct {
	Pairs []struct {
		PriceUSD  string `json:"priceUsd"`
		Liquidity struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
	} `json:"pairs"`
}

// PriceUSD returns the price from the pair with the deepest USD liquidity.
// Pairs with missing or unparsable prices are skipped.
func (s *DexScreenerSource) PriceUSD(ctx context.Context, mint string) (float64, error) {
	u := fmt.Sprintf("%s/latest/dex/tokens/%s", s.baseURL, url.PathEscape(mint))

	var resp dexScreenerResponse
	if err := getJSON(ctx, s.httpClient, u, s.retryBase, &resp); err != nil {
		return 0, fmt.Errorf("dexscreener request failed: %w", err)
	}

	best := 0.0
	bestLiquidity := -1.0
	for _, pair := range resp.Pairs {
		price, err := strconv.ParseFloat(pair.PriceUSD, 64)
		if err != nil || price <= 0 {
			continue
		}
		if pair.Liquidity.USD > bestLiquidity {
			best = price
			bestLiquidity = pair.Liquidity.USD
		}
	}
	if bestLiquidity < 0 {
		return 0, fmt.Errorf("dexscreener returned no usable pairs for %s", mint)
	}
	return best, nil
}
