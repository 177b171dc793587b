package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errBlank = errors.New("blank cell")

// CellError reports a cell whose content cannot be coerced to the column's type.
type CellError struct {
	Sheet  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("workbook: %s row %d column %s: cannot read %q: %v", e.Sheet, e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// ParseNumber reads spreadsheet-style numbers: "1,234.50", "$12", "70%", " 3 ".
// A blank value is an error.
func ParseNumber(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, errBlank
	}
	value = strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)

	percent := strings.HasSuffix(value, "%")
	value = strings.TrimSuffix(value, "%")

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	if percent {
		parsed = parsed.Shift(-2)
	}
	return parsed, nil
}

// SettingValue normalises a Settings value. Numbers written the spreadsheet way
// ("70%", "$1,000") become plain decimals; anything else is kept as trimmed text.
func SettingValue(raw string) string {
	value := strings.TrimSpace(raw)
	if parsed, err := ParseNumber(value); err == nil {
		return parsed.String()
	}
	return value
}
