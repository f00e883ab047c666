package price

import (
	"context"
	"time"
)

// Snapshot is the derived price file persisted to price.json. It is
// recomputed from scratch on every run and replaced atomically.
type Snapshot struct {
	Mint              string    `json:"mint"`
	PriceUSD          float64   `json:"priceUsd"`
	BurnTotalTokens   float64   `json:"burnTotalTokens"`
	BurnTotalUSD      float64   `json:"burnTotalUsd"`
	TotalSupplyTokens float64   `json:"totalSupplyTokens"`
	Decimals          uint8     `json:"decimals"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Source fetches the current USD price of a mint from one provider.
type Source interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// PriceUSD returns the token's current price in USD.
	PriceUSD(ctx context.Context, mint string) (float64, error)
}
