package price

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultJupiterBaseURL is the public Jupiter price API.
const DefaultJupiterBaseURL = "https://api.jup.ag"

// JupiterSource fetches a mint's USD price from the Jupiter swap
// aggregator's price endpoint.
type JupiterSource struct {
	baseURL    string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewJupiterSource creates a Jupiter price source. An empty baseURL uses the
// public API; a nil httpClient gets a sane default timeout.
func NewJupiterSource(baseURL string, httpClient *http.Client) *JupiterSource {
	if baseURL == "" {
		baseURL = DefaultJupiterBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &JupiterSource{
		baseURL:    baseURL,
		httpClient: httpClient,
		retryBase:  time.Second,
	}
}

func (s *JupiterSource) Name() string { return "jupiter" }

// jupiterResponse is the shape of /price/v2. Prices come back as decimal
// strings keyed by mint id.
type jupiterResponse struct {
	Data map[string]struct {
		ID    string `json:"id"`
		Price string `json:"price"`
	} `json:"data"`
}

// PriceUSD queries the price endpoint for one mint. Jupiter quotes in USD
// by default (a vsToken parameter exists for other quote currencies).
func (s *JupiterSource) PriceUSD(ctx context.Context, mint string) (float64, error) {
	u := fmt.Sprintf("%s/price/v2?ids=%s", s.baseURL, url.QueryEscape(mint))

	var resp jupiterResponse
	if err := getJSON(ctx, s.httpClient, u, s.retryBase, &resp); err != nil {
		return 0, fmt.Errorf("jupiter price request failed: %w", err)
	}

	entry, ok := resp.Data[mint]
	if !ok || entry.Price == "" {
		return 0, fmt.Errorf("jupiter returned no price for %s", mint)
	}

	price, err := strconv.ParseFloat(entry.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("jupiter returned unparsable price %q: %w", entry.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("jupiter returned non-positive price %v", price)
	}
	return price, nil
}
