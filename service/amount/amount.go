package amount

import (
	"fmt"
	"math/big"
	"strings"
)

// Raw token amounts are kept as big.Int for the whole pipeline. SPL amounts
// are u64 on chain, but rescaling between decimal precisions can overflow
// 64 bits, and the running total across many burns certainly can. Floats are
// never used for amounts.

var ten = big.NewInt(10)

// pow10 returns 10^n as a big.Int.
func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// Normalize rescales a raw amount from one decimal precision to another
// using exact integer arithmetic. Scaling up is lossless; scaling down
// floor-divides and drops the low-order digits. The input is not mutated.
func Normalize(raw *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	out := new(big.Int).Set(raw)
	switch {
	case fromDecimals == toDecimals:
		return out
	case fromDecimals < toDecimals:
		return out.Mul(out, pow10(toDecimals-fromDecimals))
	default:
		return out.Quo(out, pow10(fromDecimals-toDecimals))
	}
}

// Format renders a raw amount at the given decimal precision as a canonical
// decimal string: no trailing fractional zeros, no decimal point when the
// fractional part is zero, sign applied to the whole string.
func Format(raw *big.Int, decimals uint8) string {
	mag := new(big.Int).Abs(raw)

	whole, frac := new(big.Int), new(big.Int)
	whole.QuoRem(mag, pow10(decimals), frac)

	s := whole.String()
	if frac.Sign() != 0 {
		fracStr := frac.String()
		// Left-pad to the full precision, then strip trailing zeros.
		if pad := int(decimals) - len(fracStr); pad > 0 {
			fracStr = strings.Repeat("0", pad) + fracStr
		}
		fracStr = strings.TrimRight(fracStr, "0")
		s = s + "." + fracStr
	}
	if raw.Sign() < 0 {
		s = "-" + s
	}
	return s
}

// Parse is the inverse of Format: it converts a canonical decimal string
// back into a raw integer amount at the given precision. A fractional part
// longer than decimals is rejected rather than silently truncated.
func Parse(s string, decimals uint8) (*big.Int, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	wholeStr, fracStr := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		wholeStr, fracStr = s[:i], s[i+1:]
	}
	if wholeStr == "" && fracStr == "" {
		return nil, fmt.Errorf("empty amount string")
	}
	if wholeStr == "" {
		wholeStr = "0"
	}
	if len(fracStr) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d fractional digits", s, decimals)
	}
	// Pad the fractional part out to full precision so the concatenation is
	// the raw integer.
	fracStr = fracStr + strings.Repeat("0", int(decimals)-len(fracStr))

	raw, ok := new(big.Int).SetString(wholeStr+fracStr, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount string %q", s)
	}
	if neg {
		raw.Neg(raw)
	}
	return raw, nil
}
