package burn

import (
	"math/big"
)

// Event is one burn instruction extracted from a transaction, before
// normalization. RawAmount is expressed at Decimals precision, which may
// differ from the mint's canonical precision when it came from a
// BurnChecked instruction.
type Event struct {
	Signature string   `json:"signature"`
	RawAmount *big.Int `json:"raw_amount"`
	Decimals  uint8    `json:"decimals"`
}

// Record is one persisted burn: the amount rendered at the mint's canonical
// precision plus an explorer URL for the transaction.
type Record struct {
	AmountUI string `json:"amountUi"`
	URL      string `json:"url"`
}

// Report is the cumulative burn aggregate persisted to burn.json.
// Count always equals len(Burns), and TotalUI is the exact decimal rendering
// of the integer sum of every normalized raw amount.
type Report struct {
	Count   int      `json:"count"`
	TotalUI string   `json:"totalUi"`
	Burns   []Record `json:"burns"`
}
