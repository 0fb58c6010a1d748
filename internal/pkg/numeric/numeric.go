package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// usdScale is the storage precision for USD aggregates. Display code rounds
// further down to two places; re-rounding already-rounded values avoids
// compounding error across aggregation levels.
const usdScale = 6

// Normalize converts a raw integer balance into human units, exactly:
// raw / 10^decimals under decimal arithmetic.
// Example: Normalize(123456789, 9) == 0.123456789.
func Normalize(raw uint64, decimals int) decimal.Decimal {
	d := decimal.NewFromUint64(raw)
	if decimals == 0 {
		return d
	}
	return d.Shift(int32(-decimals))
}

// RoundUSD rounds a USD aggregate to the fixed storage precision.
func RoundUSD(d decimal.Decimal) decimal.Decimal {
	return d.Round(usdScale)
}

// ValueUSD multiplies a human amount by a unit price and rounds to the
// storage precision.
func ValueUSD(amount decimal.Decimal, priceUSD float64) decimal.Decimal {
	return RoundUSD(amount.Mul(decimal.NewFromFloat(priceUSD)))
}

// FallbackSymbol derives a display symbol from the last segment of a
// structured coin type identifier, for coins whose metadata lookup failed
// or whose snapshot entry carries no explicit symbol.
// Example: "0x2::sui::SUI" -> "SUI".
func FallbackSymbol(coinType string) string {
	if coinType == "" {
		return ""
	}
	parts := strings.Split(coinType, "::")
	return parts[len(parts)-1]
}

// FormatMoney renders a USD amount at storage precision with trailing zeros
// trimmed, or "-" when the value is absent.
func FormatMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	s := decimal.NewFromFloat(*v).Round(usdScale).StringFixed(usdScale)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
