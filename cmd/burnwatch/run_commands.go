package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/solburn/burnwatch/service/config"
	"github.com/solburn/burnwatch/service/metrics"
	"github.com/solburn/burnwatch/service/price"
	"github.com/solburn/burnwatch/service/solana"
	"github.com/solburn/burnwatch/service/store"
	"github.com/solburn/burnwatch/service/temporal"
)

// runtime bundles the dependencies shared by the one-shot commands.
type runtime struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	activities *temporal.Activities
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := setupLogger(c.String("log-level"))
	collector := metrics.NewMetrics(nil)

	scanner := solana.NewClient(
		solana.NewRPCClient(cfg.RPCURL),
		extractEndpointFromURL(cfg.RPCURL),
		collector,
		logger,
	)

	resolver := price.NewResolver([]price.Source{
		price.NewJupiterSource(price.DefaultJupiterBaseURL, nil),
		price.NewDexScreenerSource(price.DefaultDexScreenerBaseURL, nil),
	}, collector, logger)

	st := store.NewStore(cfg.DataDir, collector, logger)

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		activities: temporal.NewActivities(scanner, resolver, st, collector, logger),
	}, nil
}

func (rt *runtime) scanInput() temporal.ScanBurnsInput {
	return temporal.ScanBurnsInput{
		WalletAddress: rt.cfg.WalletAddress,
		TokenMint:     rt.cfg.TokenMint,
		BatchLimit:    rt.cfg.BatchLimit,
		MaxPages:      rt.cfg.MaxPages,
		SleepMs:       int(rt.cfg.RequestDelay / time.Millisecond),
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the burn wallet's history and write burn.json",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}

			result, err := rt.activities.ScanBurns(c.Context, rt.scanInput())
			if err != nil {
				return err
			}

			report, err := rt.store.LoadBurnReport()
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			for _, b := range report.Burns {
				fmt.Printf("burned %s tokens  %s\n", b.AmountUI, b.URL)
			}
			fmt.Printf("\n%d burns, %s tokens total\n", result.Count, result.TotalUI)
			return nil
		},
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Resolve the token's USD price and write price.json",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}

			result, err := rt.activities.ReportPrice(c.Context, temporal.ReportPriceInput{
				TokenMint: rt.cfg.TokenMint,
			})
			if err != nil {
				return err
			}

			if c.Bool("json") {
				snap, err := rt.store.LoadPriceSnapshot()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Printf("price: $%g (%s)\n", result.PriceUSD, result.Provider)
			fmt.Printf("burn total: $%.2f\n", result.BurnTotalUSD)
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a full collection pass: scan burns, then write the price snapshot",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}

			scanResult, err := rt.activities.ScanBurns(c.Context, rt.scanInput())
			if err != nil {
				return err
			}
			priceResult, err := rt.activities.ReportPrice(c.Context, temporal.ReportPriceInput{
				TokenMint: rt.cfg.TokenMint,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%d burns, %s tokens total\n", scanResult.Count, scanResult.TotalUI)
			fmt.Printf("price: $%g (%s), burn total: $%.2f\n",
				priceResult.PriceUSD, priceResult.Provider, priceResult.BurnTotalUSD)
			return nil
		},
	}
}

// extractEndpointFromURL extracts a short identifier from the Solana RPC URL
// for metrics labeling, so API keys never end up in label values.
func extractEndpointFromURL(rpcURL string) string {
	parsed, err := url.Parse(rpcURL)
	if err != nil {
		return "unknown"
	}

	host := parsed.Hostname()

	switch {
	case strings.Contains(host, "helius"):
		return "helius"
	case strings.Contains(host, "quiknode"), strings.Contains(host, "quicknode"):
		return "quiknode"
	case strings.Contains(host, "alchemy"):
		return "alchemy"
	case strings.Contains(host, "mainnet"):
		return "mainnet"
	case strings.Contains(host, "devnet"):
		return "devnet"
	}

	return host
}
