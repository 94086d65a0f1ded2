package utils

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalFromAny converts an arbitrary JSON-decoded value to a decimal.
// Missing, malformed or non-numeric input yields zero rather than an error;
// rejecting bad numbers is the schema layer's job, not this one's.
//
// Accepts common user-formatted strings like "20,000", "Rs 1,234.50" or
// "₹ -500": everything except digits, '.' and a leading '-' is stripped.
func DecimalFromAny(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case float64:
		return decimal.NewFromFloat(val)
	case float32:
		return decimal.NewFromFloat(float64(val))
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		return decimalFromString(val)
	default:
		return decimal.Zero
	}
}

func decimalFromString(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}

	// Keep digits and '.' only (drops currency symbols and units).
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IntFromAny converts with the same permissive semantics as DecimalFromAny,
// truncating any fractional part.
func IntFromAny(v interface{}) int {
	return int(DecimalFromAny(v).IntPart())
}

// StringFromAny returns the value if it is a string, otherwise "".
func StringFromAny(v interface{}) string {
	s, _ := v.(string)
	return s
}
