package temporal

import (
	"fmt"
	"time"

	temporalsdk "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

var a *Activities // for type-safe activity invocation

// BurnReportInput contains the parameters for one scheduled collection run.
type BurnReportInput struct {
	WalletAddress string `json:"wallet_address"`
	TokenMint     string `json:"token_mint"`
	BatchLimit    int    `json:"batch_limit"`
	MaxPages      int    `json:"max_pages"`
	SleepMs       int    `json:"sleep_ms"`
}

// BurnReportResult summarizes one collection run.
type BurnReportResult struct {
	BurnCount    int       `json:"burn_count"`
	BurnTotalUI  string    `json:"burn_total_ui"`
	PriceUSD     float64   `json:"price_usd"`
	Provider     string    `json:"provider"`
	BurnTotalUSD float64   `json:"burn_total_usd"`
	RunTime      time.Time `json:"run_time"`
	Error        *string   `json:"error,omitempty"`
}

// BurnReportWorkflow is the Temporal workflow behind the scheduled
// collection run. It performs the two batch jobs in sequence:
//
//  1. ScanBurns — scan the wallet's history and write burn.json
//  2. ReportPrice — price the burn total and write price.json
//
// The price step depends on the scan step's output file, so the activities
// never run concurrently.
func BurnReportWorkflow(ctx workflow.Context, input BurnReportInput) (*BurnReportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("BurnReportWorkflow started",
		"wallet", input.WalletAddress,
		"mint", input.TokenMint,
	)

	result := &BurnReportResult{
		RunTime: workflow.Now(ctx),
	}

	// A full scan pages through the wallet's history with per-request
	// delays, so the scan activity gets a generous timeout.
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Minute,
		RetryPolicy: &temporalsdk.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var scanResult *ScanBurnsResult
	err := workflow.ExecuteActivity(ctx, a.ScanBurns, ScanBurnsInput{
		WalletAddress: input.WalletAddress,
		TokenMint:     input.TokenMint,
		BatchLimit:    input.BatchLimit,
		MaxPages:      input.MaxPages,
		SleepMs:       input.SleepMs,
	}).Get(ctx, &scanResult)
	if err != nil {
		errMsg := fmt.Sprintf("burn scan failed: %v", err)
		result.Error = &errMsg
		return result, fmt.Errorf("burn scan failed: %w", err)
	}
	result.BurnCount = scanResult.Count
	result.BurnTotalUI = scanResult.TotalUI

	logger.Info("burn scan finished",
		"count", scanResult.Count,
		"total", scanResult.TotalUI,
	)

	var priceResult *ReportPriceResult
	err = workflow.ExecuteActivity(ctx, a.ReportPrice, ReportPriceInput{
		TokenMint: input.TokenMint,
	}).Get(ctx, &priceResult)
	if err != nil {
		errMsg := fmt.Sprintf("price report failed: %v", err)
		result.Error = &errMsg
		return result, fmt.Errorf("price report failed: %w", err)
	}
	result.PriceUSD = priceResult.PriceUSD
	result.Provider = priceResult.Provider
	result.BurnTotalUSD = priceResult.BurnTotalUSD

	logger.Info("BurnReportWorkflow finished",
		"burn_count", result.BurnCount,
		"price_usd", result.PriceUSD,
		"burn_total_usd", result.BurnTotalUSD,
	)
	return result, nil
}
