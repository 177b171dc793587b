package costing

import (
	"errors"
	"fmt"
)

// ErrDegenerateTarget is returned when target_gp_pct lies outside [0, 1), where the
// suggested price would divide by zero or go negative.
var ErrDegenerateTarget = errors.New("costing: target_gp_pct must be at least 0 and below 1")

// ErrInvalidGSTRate is returned when prices are taxed from Settings and gst_rate is negative.
var ErrInvalidGSTRate = errors.New("costing: gst_rate must not be negative")

// SchemaError reports a required table or column that is absent entirely.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("costing: required table %q is missing", e.Table)
	}
	return fmt.Sprintf("costing: required column %q is missing from table %q", e.Column, e.Table)
}

// SettingError reports a setting whose value cannot be read as a number.
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("costing: setting %s=%q is not a number: %v", e.Key, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}
