package solana

import (
	"encoding/binary"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solburn/burnwatch/service/burn"
)

// Well-known Solana program IDs
var (
	// TokenProgramID is the SPL Token program
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// Token2022ProgramID is the Token Extensions program (Token-2022)
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// Token Program instruction types
const (
	TokenProgramBurnInstruction        = uint8(8)
	TokenProgramBurnCheckedInstruction = uint8(15)
)

// resolveAccountKeys builds the full account-key table for a transaction.
// Versioned transactions append addresses loaded from lookup tables after
// the static keys: writable first, then read-only.
func resolveAccountKeys(tx *solana.Transaction, meta *rpc.TransactionMeta) []solana.PublicKey {
	keys := tx.Message.AccountKeys
	if meta == nil {
		return keys
	}
	if len(meta.LoadedAddresses.Writable) > 0 || len(meta.LoadedAddresses.ReadOnly) > 0 {
		resolved := make([]solana.PublicKey, 0, len(keys)+len(meta.LoadedAddresses.Writable)+len(meta.LoadedAddresses.ReadOnly))
		resolved = append(resolved, keys...)
		resolved = append(resolved, meta.LoadedAddresses.Writable...)
		resolved = append(resolved, meta.LoadedAddresses.ReadOnly...)
		return resolved
	}
	return keys
}

// extractBurnEvents returns every burn of the target mint in one transaction.
// Top-level instructions are scanned first in position order, then each inner
// instruction group in order. Anything malformed contributes nothing; a bad
// instruction must never abort the scan.
func extractBurnEvents(
	signature string,
	tx *solana.Transaction,
	meta *rpc.TransactionMeta,
	mint solana.PublicKey,
	mintDecimals uint8,
) []burn.Event {
	keys := resolveAccountKeys(tx, meta)

	var events []burn.Event
	for _, inst := range tx.Message.Instructions {
		if ev, ok := parseBurnInstruction(signature, inst, keys, mint, mintDecimals); ok {
			events = append(events, ev)
		}
	}

	if meta != nil {
		for _, group := range meta.InnerInstructions {
			for _, inner := range group.Instructions {
				inst := solana.CompiledInstruction{
					ProgramIDIndex: inner.ProgramIDIndex,
					Accounts:       inner.Accounts,
					Data:           inner.Data,
				}
				if ev, ok := parseBurnInstruction(signature, inst, keys, mint, mintDecimals); ok {
					events = append(events, ev)
				}
			}
		}
	}

	return events
}

// parseBurnInstruction decodes one compiled instruction and reports whether
// it is a Burn or BurnChecked of the target mint.
//
// SPL Token Burn instruction format:
//
//	[0]     = instruction type (u8, 8 = Burn, 15 = BurnChecked)
//	[1..9]  = amount (u64)
//	[9]     = decimals (u8, BurnChecked only)
//
// Account layout for both: [token_account, mint, authority, ...]
func parseBurnInstruction(
	signature string,
	inst solana.CompiledInstruction,
	keys []solana.PublicKey,
	mint solana.PublicKey,
	mintDecimals uint8,
) (burn.Event, bool) {
	if int(inst.ProgramIDIndex) >= len(keys) {
		return burn.Event{}, false
	}
	programID := keys[inst.ProgramIDIndex]
	if !programID.Equals(TokenProgramID) && !programID.Equals(Token2022ProgramID) {
		return burn.Event{}, false
	}

	if len(inst.Data) < 9 {
		return burn.Event{}, false
	}
	instructionType := inst.Data[0]
	if instructionType != TokenProgramBurnInstruction && instructionType != TokenProgramBurnCheckedInstruction {
		return burn.Event{}, false
	}

	// The mint is the second account for both burn variants.
	if len(inst.Accounts) < 2 {
		return burn.Event{}, false
	}
	mintIndex := inst.Accounts[1]
	if int(mintIndex) >= len(keys) {
		return burn.Event{}, false
	}
	if !keys[mintIndex].Equals(mint) {
		return burn.Event{}, false
	}

	rawAmount := binary.LittleEndian.Uint64(inst.Data[1:9])

	// BurnChecked carries its own decimals; plain Burn inherits the mint's.
	decimals := mintDecimals
	if instructionType == TokenProgramBurnCheckedInstruction && len(inst.Data) >= 10 {
		decimals = inst.Data[9]
	}

	return burn.Event{
		Signature: signature,
		RawAmount: new(big.Int).SetUint64(rawAmount),
		Decimals:  decimals,
	}, true
}
