package numeric

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint64
		decimals int
		want     string
	}{
		{"sui one whole coin", 1000000000, 9, "1"},
		{"sub-unit amount", 123456789, 9, "0.123456789"},
		{"zero decimals is identity", 12345, 0, "12345"},
		{"six decimals", 500, 6, "0.0005"},
		{"zero balance", 0, 9, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, tt.decimals)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestNormalizeExactProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("raw/10^decimals is exact and non-negative", prop.ForAll(
		func(raw uint64, decimals int) bool {
			got := Normalize(raw, decimals)
			if got.IsNegative() {
				return false
			}
			// Scaling back up must recover the raw integer exactly.
			back := got.Shift(int32(decimals))
			return back.Equal(decimal.NewFromUint64(raw))
		},
		gen.UInt64(),
		gen.IntRange(0, 18),
	))

	properties.TestingRun(t)
}

func TestValueUSDRoundsToSixPlaces(t *testing.T) {
	amount := Normalize(123456789, 9) // 0.123456789
	got := ValueUSD(amount, 2.0)
	assert.Equal(t, "0.246914", got.String())
}

func TestFallbackSymbol(t *testing.T) {
	assert.Equal(t, "SUI", FallbackSymbol("0x2::sui::SUI"))
	assert.Equal(t, "CERT", FallbackSymbol("sui_system::staking_pool::CERT"))
	assert.Equal(t, "plain", FallbackSymbol("plain"))
	assert.Equal(t, "", FallbackSymbol(""))
}

func TestFormatMoney(t *testing.T) {
	two := 2.0
	frac := 1234.5000004
	zero := 0.0
	assert.Equal(t, "-", FormatMoney(nil))
	assert.Equal(t, "2", FormatMoney(&two))
	assert.Equal(t, "1234.5", FormatMoney(&frac))
	assert.Equal(t, "0", FormatMoney(&zero))
}
