package amount

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SamePrecision(t *testing.T) {
	raw := big.NewInt(123456)
	out := Normalize(raw, 6, 6)

	assert.Equal(t, "123456", out.String())
	// Input must not be mutated.
	assert.Equal(t, "123456", raw.String())
}

func TestNormalize_ScaleUp(t *testing.T) {
	// 100 at 2 decimals is 1.00; at 4 decimals that's raw 10000.
	out := Normalize(big.NewInt(100), 2, 4)
	assert.Equal(t, "10000", out.String())
}

func TestNormalize_ScaleDownFloors(t *testing.T) {
	// 12345 at 4 decimals is 1.2345; at 2 decimals the trailing 45 is dropped.
	out := Normalize(big.NewInt(12345), 4, 2)
	assert.Equal(t, "123", out.String())
}

func TestNormalize_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		raw      int64
		from, to uint8
		lossless bool
	}{
		{"up then down is lossless", 987654321, 3, 9, true},
		{"equal is lossless", 42, 6, 6, true},
		{"down then up loses low digits", 12345, 4, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := big.NewInt(tt.raw)
			there := Normalize(raw, tt.from, tt.to)
			back := Normalize(there, tt.to, tt.from)
			if tt.lossless {
				assert.Equal(t, raw.String(), back.String())
			} else {
				assert.NotEqual(t, raw.String(), back.String())
			}
		})
	}
}

func TestNormalize_LargeAmounts(t *testing.T) {
	// Well past uint64: 10^30 at 0 decimals scaled to 9 decimals.
	raw, ok := new(big.Int).SetString("1000000000000000000000000000000", 10)
	require.True(t, ok)

	out := Normalize(raw, 0, 9)
	assert.Equal(t, "1000000000000000000000000000000000000000", out.String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
	}{
		{"whole number", "1000000", 6, "1"},
		{"strips trailing zeros", "1234500", 6, "1.2345"},
		{"zero", "0", 6, "0"},
		{"zero at zero decimals", "0", 0, "0"},
		{"sub-one pads fraction", "5", 6, "0.000005"},
		{"no decimals", "12345", 0, "12345"},
		{"negative applies sign to whole string", "-1234500", 6, "-1.2345"},
		{"negative fraction only", "-5", 6, "-0.000005"},
		{"large amount", "123456789012345678901234567890", 9, "123456789012345678901.23456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.raw, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, Format(raw, tt.decimals))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	// Format -> Parse -> Format yields the identical string.
	for _, rawStr := range []string{"0", "1", "1234500", "999999", "1000001", "123456789012345678901234567890"} {
		raw, ok := new(big.Int).SetString(rawStr, 10)
		require.True(t, ok)

		s := Format(raw, 6)
		back, err := Parse(s, 6)
		require.NoError(t, err)
		assert.Equal(t, s, Format(back, 6), "raw=%s", rawStr)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"whole", "1", 6, "1000000", false},
		{"fractional", "1.2345", 6, "1234500", false},
		{"zero", "0", 6, "0", false},
		{"bare fraction", ".5", 6, "500000", false},
		{"negative", "-1.2345", 6, "-1234500", false},
		{"too many fractional digits", "1.2345678", 6, "", true},
		{"garbage", "abc", 6, "", true},
		{"empty", "", 6, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
