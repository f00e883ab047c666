package temporal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/solburn/burnwatch/service/metrics"
	"github.com/solburn/burnwatch/service/price"
	solanasvc "github.com/solburn/burnwatch/service/solana"
)

// ScanBurnsInput contains parameters for the ScanBurns activity.
type ScanBurnsInput struct {
	WalletAddress string `json:"wallet_address"`
	TokenMint     string `json:"token_mint"`
	BatchLimit    int    `json:"batch_limit"`
	MaxPages      int    `json:"max_pages"`
	SleepMs       int    `json:"sleep_ms"`
}

// ScanBurnsResult contains the result of a burn scan.
type ScanBurnsResult struct {
	Count   int    `json:"count"`
	TotalUI string `json:"total_ui"`
}

// ReportPriceInput contains parameters for the ReportPrice activity.
type ReportPriceInput struct {
	TokenMint string `json:"token_mint"`
}

// ReportPriceResult contains the result of a price report.
type ReportPriceResult struct {
	PriceUSD     float64 `json:"price_usd"`
	Provider     string  `json:"provider"`
	BurnTotalUSD float64 `json:"burn_total_usd"`
}

// ScannerInterface defines the Solana operations needed by activities.
// This allows for easy mocking in tests.
type ScannerInterface interface {
	MintInfo(ctx context.Context, mint solanago.PublicKey) (*solanasvc.MintInfo, error)
	ScanBurns(ctx context.Context, params solanasvc.ScanParams) ([]burn.Event, error)
}

// ResolverInterface defines the price lookup needed by activities.
type ResolverInterface interface {
	Resolve(ctx context.Context, mint string) (float64, string, error)
}

// StoreInterface defines the snapshot-file operations needed by activities.
type StoreInterface interface {
	SaveBurnReport(*burn.Report) error
	LoadBurnReport() (*burn.Report, error)
	SavePriceSnapshot(*price.Snapshot) error
	LoadPriceSnapshot() (*price.Snapshot, error)
}

// Activities contains all activity implementations with their dependencies.
type Activities struct {
	scanner  ScannerInterface
	resolver ResolverInterface
	store    StoreInterface
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewActivities creates a new Activities instance with explicit dependencies.
// If metrics is nil, no metrics will be recorded.
func NewActivities(
	scanner ScannerInterface,
	resolver ResolverInterface,
	store StoreInterface,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Activities {
	if logger == nil {
		logger = slog.Default()
	}
	return &Activities{
		scanner:  scanner,
		resolver: resolver,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// ScanBurns scans the wallet's history for burns of the configured mint and
// persists the cumulative aggregate to burn.json. The CLI `scan` command
// calls this directly; the workflow runs it as an activity.
func (a *Activities) ScanBurns(ctx context.Context, input ScanBurnsInput) (*ScanBurnsResult, error) {
	wallet, err := solanago.PublicKeyFromBase58(input.WalletAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address %q: %w", input.WalletAddress, err)
	}
	mint, err := solanago.PublicKeyFromBase58(input.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint %q: %w", input.TokenMint, err)
	}

	info, err := a.scanner.MintInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mint info: %w", err)
	}
	a.logger.InfoContext(ctx, "starting burn scan",
		"wallet", input.WalletAddress,
		"mint", input.TokenMint,
		"mint_decimals", info.Decimals,
	)

	events, err := a.scanner.ScanBurns(ctx, solanasvc.ScanParams{
		Wallet:       wallet,
		Mint:         mint,
		MintDecimals: info.Decimals,
		PageLimit:    input.BatchLimit,
		MaxPages:     input.MaxPages,
		RequestDelay: time.Duration(input.SleepMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("burn scan failed: %w", err)
	}

	acc := burn.NewAccumulator(info.Decimals)
	for _, ev := range events {
		rec := acc.Add(ev)
		a.logger.InfoContext(ctx, "burn", "amount", rec.AmountUI, "url", rec.URL)
	}
	report := acc.Report()

	if err := a.store.SaveBurnReport(report); err != nil {
		return nil, fmt.Errorf("failed to persist burn report: %w", err)
	}

	a.logger.InfoContext(ctx, "burn report written",
		"count", report.Count,
		"total", report.TotalUI,
	)
	return &ScanBurnsResult{Count: report.Count, TotalUI: report.TotalUI}, nil
}

// ReportPrice reads the burn aggregate, resolves the token's USD price, and
// persists price.json. When every price source fails, the previously
// persisted snapshot's price is reused; with no previous snapshot the
// activity fails.
func (a *Activities) ReportPrice(ctx context.Context, input ReportPriceInput) (*ReportPriceResult, error) {
	mint, err := solanago.PublicKeyFromBase58(input.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint %q: %w", input.TokenMint, err)
	}

	report, err := a.store.LoadBurnReport()
	if err != nil {
		return nil, fmt.Errorf("failed to load burn report: %w", err)
	}

	info, err := a.scanner.MintInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mint info: %w", err)
	}

	priceUSD, provider, err := a.resolver.Resolve(ctx, input.TokenMint)
	if err != nil {
		prev, loadErr := a.store.LoadPriceSnapshot()
		if loadErr != nil {
			return nil, fmt.Errorf("price lookup failed and no previous snapshot to fall back to: %w", err)
		}
		a.logger.WarnContext(ctx, "all price sources failed, reusing last known price",
			"mint", input.TokenMint,
			"price_usd", prev.PriceUSD,
			"last_updated", prev.UpdatedAt,
			"error", err,
		)
		priceUSD, provider = prev.PriceUSD, "previous_snapshot"
	}

	snap, err := price.BuildSnapshot(input.TokenMint, priceUSD, report, info.SupplyTokens, info.Decimals, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build price snapshot: %w", err)
	}

	if err := a.store.SavePriceSnapshot(snap); err != nil {
		return nil, fmt.Errorf("failed to persist price snapshot: %w", err)
	}

	a.logger.InfoContext(ctx, "price snapshot written",
		"mint", snap.Mint,
		"price_usd", snap.PriceUSD,
		"burn_total_usd", snap.BurnTotalUSD,
		"provider", provider,
	)
	return &ReportPriceResult{
		PriceUSD:     snap.PriceUSD,
		Provider:     provider,
		BurnTotalUSD: snap.BurnTotalUSD,
	}, nil
}
