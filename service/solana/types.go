package solana

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// ScanParams contains parameters for a burn scan over a wallet's history.
type ScanParams struct {
	// Wallet is the address whose transaction history is paged through.
	Wallet solana.PublicKey

	// Mint is the token whose burns are being collected.
	Mint solana.PublicKey

	// MintDecimals is the mint's canonical decimal precision, used when a
	// Burn instruction does not carry its own decimals.
	MintDecimals uint8

	// PageLimit is the maximum number of signatures per page.
	PageLimit int

	// MaxPages caps how many pages are fetched before the scan stops.
	MaxPages int

	// RequestDelay is slept between transaction fetches to stay under the
	// RPC provider's rate limits.
	RequestDelay time.Duration
}

// MintInfo describes the scanned token as reported by getTokenSupply.
type MintInfo struct {
	Decimals     uint8
	SupplyRaw    string // raw integer amount as reported by the RPC
	SupplyTokens float64
}
