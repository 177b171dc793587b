package pages

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDash returns a dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// FormatMoney renders d as dollars with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() && !d.Round(2).IsZero() {
		sign = "-"
	}
	return sign + "$" + grouped.String() + "." + cents
}

// FormatNullMoney renders a money value or a dash when it is undefined.
func FormatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return DefaultDash("")
	}
	return FormatMoney(d.Decimal)
}

// FormatPercent renders a 0-1 ratio as a percentage with one decimal.
func FormatPercent(d decimal.Decimal) string {
	return d.Shift(2).StringFixed(1) + "%"
}

// FormatNullPercent renders a ratio or a dash when it is undefined.
func FormatNullPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return DefaultDash("")
	}
	return FormatPercent(d.Decimal)
}

// FormatMetric picks the money or percentage format from the metric name.
func FormatMetric(name string, value decimal.Decimal) string {
	if strings.HasSuffix(name, "%") {
		return FormatPercent(value)
	}
	return FormatMoney(value)
}

// FormatUnitCost renders a per-base-unit cost to four decimals, or a dash when
// it is undefined.
func FormatUnitCost(d decimal.NullDecimal) string {
	if !d.Valid {
		return DefaultDash("")
	}
	return "$" + d.Decimal.StringFixed(4)
}
