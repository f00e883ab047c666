package burn

import (
	"math/big"

	"github.com/solburn/burnwatch/service/amount"
)

// explorerURLPrefix is where per-burn links point. The signature is appended
// verbatim.
const explorerURLPrefix = "https://solscan.io/tx/"

// ExplorerURL returns the transaction explorer URL for a signature.
func ExplorerURL(signature string) string {
	return explorerURLPrefix + signature
}

// Accumulator folds burn events, in arrival order, into a Report. The
// running total is kept as a raw integer at the mint's canonical precision
// and is only formatted once, when Report is built. Summing formatted
// strings (or floats) would drift; this never does.
type Accumulator struct {
	mintDecimals uint8
	total        *big.Int
	records      []Record
}

// NewAccumulator creates an accumulator that normalizes every event to the
// mint's canonical decimal precision.
func NewAccumulator(mintDecimals uint8) *Accumulator {
	return &Accumulator{
		mintDecimals: mintDecimals,
		total:        new(big.Int),
		records:      []Record{},
	}
}

// Add normalizes one event to the mint's precision, appends its record, and
// folds the normalized raw amount into the running total.
func (a *Accumulator) Add(ev Event) Record {
	raw := amount.Normalize(ev.RawAmount, ev.Decimals, a.mintDecimals)
	a.total.Add(a.total, raw)

	rec := Record{
		AmountUI: amount.Format(raw, a.mintDecimals),
		URL:      ExplorerURL(ev.Signature),
	}
	a.records = append(a.records, rec)
	return rec
}

// Count returns the number of events folded so far.
func (a *Accumulator) Count() int {
	return len(a.records)
}

// Total returns a copy of the running raw total at the mint's precision.
func (a *Accumulator) Total() *big.Int {
	return new(big.Int).Set(a.total)
}

// Report formats the running total and returns the aggregate.
func (a *Accumulator) Report() *Report {
	return &Report{
		Count:   len(a.records),
		TotalUI: amount.Format(a.total, a.mintDecimals),
		Burns:   a.records,
	}
}
