package solana

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/solburn/burnwatch/service/metrics"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real Solana nodes.
type RPCClient interface {
	GetSignaturesForAddress(
		ctx context.Context,
		address solana.PublicKey,
		opts *rpc.GetSignaturesForAddressOpts,
	) ([]*rpc.TransactionSignature, error)

	GetTransaction(
		ctx context.Context,
		signature solana.Signature,
		opts *rpc.GetTransactionOpts,
	) (*rpc.GetTransactionResult, error)

	GetTokenSupply(
		ctx context.Context,
		mint solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetTokenSupplyResult, error)
}

// Client provides burn-scanning operations over a wallet's transaction
// history. It wraps the RPC client with retry, rate-limit handling, and
// instruction decoding.
type Client struct {
	rpc       RPCClient
	logger    *slog.Logger
	metrics   *metrics.Metrics
	endpoint  string // RPC endpoint identifier for metrics (e.g., "mainnet", rpc host)
	retryBase time.Duration
}

// NewClient creates a new Solana client.
// The endpoint parameter is used for metrics labeling (e.g., "mainnet" or the RPC hostname).
// If metrics is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:       rpcClient,
		logger:    logger,
		metrics:   m,
		endpoint:  endpoint,
		retryBase: time.Second,
	}
}

// Retry shape for RPC calls. 429s get a steeper backoff than ordinary
// transient failures.
const maxAttempts = 3

// MintInfo fetches the mint's canonical decimals and current supply via
// getTokenSupply, with retry.
func (c *Client) MintInfo(ctx context.Context, mint solana.PublicKey) (*MintInfo, error) {
	var result *rpc.GetTokenSupplyResult
	var err error

	for attempt := range maxAttempts {
		start := time.Now()
		result, err = c.rpc.GetTokenSupply(ctx, mint, rpc.CommitmentFinalized)
		duration := time.Since(start).Seconds()

		status := "success"
		if err != nil {
			status = "error"
		}
		if c.metrics != nil {
			c.metrics.RecordRPCCall("GetTokenSupply", status, c.endpoint, duration)
		}

		if err == nil {
			break
		}

		if attempt == maxAttempts-1 {
			break
		}
		backoff := c.retryBackoff(err, attempt)
		c.logger.WarnContext(ctx, "failed to get token supply, retrying",
			"mint", mint.String(),
			"attempt", attempt+1,
			"error", err,
			"backoff_seconds", backoff.Seconds(),
		)
		if c.metrics != nil {
			c.metrics.RecordRPCRetry("GetTokenSupply", retryReason(err))
			if isRateLimited(err) {
				c.metrics.RecordRateLimitHit(c.endpoint)
			}
		}
		time.Sleep(backoff)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token supply for %s: %w", mint, err)
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("empty token supply response for %s", mint)
	}

	info := &MintInfo{
		Decimals:  result.Value.Decimals,
		SupplyRaw: result.Value.Amount,
	}
	if result.Value.UiAmount != nil {
		info.SupplyTokens = *result.Value.UiAmount
	}
	return info, nil
}

// ScanBurns pages backwards through the wallet's signature history and
// returns every burn of the target mint, in scan order (newest transaction
// first, instructions in position order within each transaction).
//
// Failed transactions are skipped before their details are ever fetched.
// A transaction that cannot be fetched or decoded after retries is logged
// and skipped; it never aborts the scan. A signature page that cannot be
// fetched ends the scan: fatally if it was the first page, otherwise the
// events collected so far are returned.
func (c *Client) ScanBurns(ctx context.Context, params ScanParams) ([]burn.Event, error) {
	var (
		events []burn.Event
		cursor *solana.Signature
	)

	for page := 0; page < params.MaxPages; page++ {
		signatures, err := c.fetchSignaturePage(ctx, params.Wallet, params.PageLimit, cursor)
		if err != nil {
			if page == 0 {
				return nil, fmt.Errorf("failed to fetch first signature page: %w", err)
			}
			c.logger.ErrorContext(ctx, "failed to fetch signature page, ending scan early",
				"wallet", params.Wallet.String(),
				"page", page,
				"error", err,
			)
			return events, nil
		}
		if len(signatures) == 0 {
			break
		}
		if c.metrics != nil {
			c.metrics.RecordScanPage(params.Wallet.String())
			c.metrics.RecordRPCSignaturesPerCall(c.endpoint, float64(len(signatures)))
		}

		c.logger.DebugContext(ctx, "fetched signature page",
			"wallet", params.Wallet.String(),
			"page", page,
			"count", len(signatures),
		)

		for _, sig := range signatures {
			// The cursor advances over every signature, including ones we
			// skip: paging is by position in history, not by outcome.
			s := sig.Signature
			cursor = &s

			// Failed transactions contribute nothing.
			if sig.Err != nil {
				if c.metrics != nil {
					c.metrics.RecordTransactionsSkipped(params.Wallet.String(), "failed_transaction", 1)
				}
				continue
			}

			if params.RequestDelay > 0 {
				time.Sleep(params.RequestDelay)
			}

			txEvents, err := c.scanTransaction(ctx, sig.Signature, params)
			if err != nil {
				// Transaction might be pruned or unavailable after retries.
				c.logger.WarnContext(ctx, "skipping transaction",
					"signature", sig.Signature.String(),
					"error", err,
				)
				if c.metrics != nil {
					c.metrics.RecordTransactionScanned(params.Wallet.String(), "error")
				}
				continue
			}
			if c.metrics != nil {
				c.metrics.RecordTransactionScanned(params.Wallet.String(), "success")
				if len(txEvents) > 0 {
					c.metrics.RecordBurnEvents(params.Mint.String(), len(txEvents))
				}
			}
			events = append(events, txEvents...)
		}

		// A short page means we've reached the end of the history.
		if len(signatures) < params.PageLimit {
			break
		}
	}

	c.logger.InfoContext(ctx, "burn scan complete",
		"wallet", params.Wallet.String(),
		"mint", params.Mint.String(),
		"events", len(events),
	)
	return events, nil
}

// fetchSignaturePage fetches one page of signatures older than the cursor,
// with retry.
func (c *Client) fetchSignaturePage(
	ctx context.Context,
	wallet solana.PublicKey,
	limit int,
	before *solana.Signature,
) ([]*rpc.TransactionSignature, error) {
	opts := &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentFinalized,
	}
	if before != nil {
		opts.Before = *before
	}

	var signatures []*rpc.TransactionSignature
	var err error

	for attempt := range maxAttempts {
		start := time.Now()
		signatures, err = c.rpc.GetSignaturesForAddress(ctx, wallet, opts)
		duration := time.Since(start).Seconds()

		status := "success"
		if err != nil {
			status = "error"
		}
		if c.metrics != nil {
			c.metrics.RecordRPCCall("GetSignaturesForAddress", status, c.endpoint, duration)
		}

		if err == nil {
			return signatures, nil
		}

		if attempt == maxAttempts-1 {
			break
		}
		backoff := c.retryBackoff(err, attempt)
		c.logger.WarnContext(ctx, "failed to get signatures, retrying",
			"wallet", wallet.String(),
			"attempt", attempt+1,
			"error", err,
			"backoff_seconds", backoff.Seconds(),
		)
		if c.metrics != nil {
			c.metrics.RecordRPCRetry("GetSignaturesForAddress", retryReason(err))
			if isRateLimited(err) {
				c.metrics.RecordRateLimitHit(c.endpoint)
			}
		}
		time.Sleep(backoff)
	}
	return nil, err
}

// scanTransaction fetches one transaction with retry and extracts its burn
// events.
func (c *Client) scanTransaction(
	ctx context.Context,
	signature solana.Signature,
	params ScanParams,
) ([]burn.Event, error) {
	var result *rpc.GetTransactionResult
	var err error

	for attempt := range maxAttempts {
		// Fetch full transaction details with support for versioned transactions
		txnOpts := &rpc.GetTransactionOpts{
			Encoding:                       solana.EncodingBase64,
			Commitment:                     rpc.CommitmentFinalized,
			MaxSupportedTransactionVersion: &[]uint64{0}[0],
		}
		start := time.Now()
		result, err = c.rpc.GetTransaction(ctx, signature, txnOpts)
		duration := time.Since(start).Seconds()

		status := "success"
		if err != nil {
			status = "error"
		}
		if c.metrics != nil {
			c.metrics.RecordRPCCall("GetTransaction", status, c.endpoint, duration)
		}

		if err == nil {
			break
		}

		if attempt == maxAttempts-1 {
			break
		}
		backoff := c.retryBackoff(err, attempt)
		c.logger.WarnContext(ctx, "failed to get transaction, retrying",
			"signature", signature.String(),
			"attempt", attempt+1,
			"error", err,
			"backoff_seconds", backoff.Seconds(),
		)
		if c.metrics != nil {
			c.metrics.RecordRPCRetry("GetTransaction", retryReason(err))
			if isRateLimited(err) {
				c.metrics.RecordRateLimitHit(c.endpoint)
			}
		}
		time.Sleep(backoff)
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		// Transaction not available (pruned or not yet confirmed).
		return nil, nil
	}
	if result.Meta != nil && result.Meta.Err != nil {
		// Failed on chain; normally filtered out at the signature level.
		return nil, nil
	}

	tx, err := result.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	events := extractBurnEvents(signature.String(), tx, result.Meta, params.Mint, params.MintDecimals)

	for _, ev := range events {
		if ev.Decimals > params.MintDecimals {
			// Normalizing down to the mint's precision floors the low-order
			// digits. Upstream data that triggers this is suspect, so leave
			// a trace without failing the scan.
			c.logger.WarnContext(ctx, "burn reports finer precision than mint, amount will be floored",
				"signature", ev.Signature,
				"instruction_decimals", ev.Decimals,
				"mint_decimals", params.MintDecimals,
			)
		}
	}
	return events, nil
}

// isRateLimited reports whether an RPC error looks like a 429.
func isRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}

// retryReason labels an error for the retry metric.
func retryReason(err error) string {
	if isRateLimited(err) {
		return "rate_limit"
	}
	return "timeout_or_error"
}

// retryBackoff computes the sleep before the next attempt.
// Rate limits back off harder: 2s, 4s, 8s vs 1s, 2s, 4s.
func (c *Client) retryBackoff(err error, attempt int) time.Duration {
	base := c.retryBase
	if isRateLimited(err) {
		base *= 2
	}
	return base << uint(attempt)
}
