package price

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/solburn/burnwatch/service/metrics"
)

// Resolver tries a list of price sources in order and returns the first
// answer. Provider order is the fallback order.
type Resolver struct {
	sources []Source
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewResolver creates a resolver over the given sources. If m is nil, no
// metrics are recorded.
func NewResolver(sources []Source, m *metrics.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{
		sources: sources,
		logger:  logger,
		metrics: m,
	}
}

// Resolve returns the mint's USD price and the name of the provider that
// supplied it. It fails only when every source fails.
func (r *Resolver) Resolve(ctx context.Context, mint string) (float64, string, error) {
	var lastErr error
	for _, src := range r.sources {
		start := time.Now()
		price, err := src.PriceUSD(ctx, mint)
		duration := time.Since(start).Seconds()

		if err != nil {
			if r.metrics != nil {
				r.metrics.RecordPriceFetch(src.Name(), "error", duration)
			}
			r.logger.WarnContext(ctx, "price source failed, trying next",
				"provider", src.Name(),
				"mint", mint,
				"error", err,
			)
			lastErr = err
			continue
		}

		if r.metrics != nil {
			r.metrics.RecordPriceFetch(src.Name(), "success", duration)
		}
		r.logger.InfoContext(ctx, "resolved token price",
			"provider", src.Name(),
			"mint", mint,
			"price_usd", price,
		)
		return price, src.Name(), nil
	}
	return 0, "", fmt.Errorf("all price sources failed: %w", lastErr)
}

// BuildSnapshot derives the persisted price snapshot from the burn
// aggregate and the current price. The burn total is parsed from its exact
// decimal-string form; float conversion happens only here, at presentation
// time.
func BuildSnapshot(mint string, priceUSD float64, report *burn.Report, supplyTokens float64, decimals uint8, now time.Time) (*Snapshot, error) {
	totalUI := report.TotalUI
	if totalUI == "" {
		totalUI = "0"
	}
	burnTokens, err := strconv.ParseFloat(totalUI, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid burn total %q: %w", report.TotalUI, err)
	}

	return &Snapshot{
		Mint:              mint,
		PriceUSD:          priceUSD,
		BurnTotalTokens:   burnTokens,
		BurnTotalUSD:      burnTokens * priceUSD,
		TotalSupplyTokens: supplyTokens,
		Decimals:          decimals,
		UpdatedAt:         now.UTC(),
	}, nil
}
