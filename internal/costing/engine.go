// Package costing turns the raw costing tables into recipe costs, suggested prices,
// menu GP and sales-mix metrics.
//
// The engine is a pure function of its input: Recompute never mutates the TableSet it
// is given and holds no state between calls. It runs in three ordered stages: unit
// normalisation of SKUs, the recipe roll-up, and the menu merge.
package costing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	applog "costbook/internal/log"
	"costbook/models"
)

// TaxMode selects how GST is backed out of purchase prices and added onto food cost.
type TaxMode int

const (
	// TaxFixed always uses a 1.10 factor, whatever gst_rate says. gst_rate is still
	// required and validated as a number.
	TaxFixed TaxMode = iota
	// TaxFromSettings uses 1 + gst_rate.
	TaxFromSettings
)

var fixedTaxFactor = decimal.RequireFromString("1.10")

// ParseTaxMode maps "fixed" and "settings" onto a TaxMode.
func ParseTaxMode(value string) (TaxMode, error) {
	switch value {
	case "", "fixed":
		return TaxFixed, nil
	case "settings":
		return TaxFromSettings, nil
	default:
		return TaxFixed, fmt.Errorf("costing: unknown tax mode %q", value)
	}
}

func (m TaxMode) String() string {
	if m == TaxFromSettings {
		return "settings"
	}
	return "fixed"
}

// Engine recomputes costing tables.
type Engine struct {
	taxMode TaxMode
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTaxMode sets how the tax factor is chosen.
func WithTaxMode(mode TaxMode) Option {
	return func(e *Engine) {
		e.taxMode = mode
	}
}

// WithLogger sends the engine's debug output to logger instead of the global
// logger tagged component=costing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an Engine. The zero configuration uses TaxFixed.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return applog.With("component", "costing")
}

// TaxMode reports the engine's tax mode.
func (e *Engine) TaxMode() TaxMode {
	return e.taxMode
}

// Params are the validated settings a recompute runs with.
type Params struct {
	GSTRate   decimal.Decimal
	TargetGP  decimal.Decimal
	TaxFactor decimal.Decimal
}

// Params reads and validates gst_rate and target_gp_pct from settings.
func (e *Engine) Params(settings models.Settings) (Params, error) {
	gst, err := readSetting(settings, models.SettingGSTRate)
	if err != nil {
		return Params{}, err
	}
	target, err := readSetting(settings, models.SettingTargetGPPct)
	if err != nil {
		return Params{}, err
	}
	if target.IsNegative() || target.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Params{}, fmt.Errorf("%w: got %s", ErrDegenerateTarget, target)
	}

	params := Params{GSTRate: gst, TargetGP: target, TaxFactor: fixedTaxFactor}
	if e.taxMode == TaxFromSettings {
		if gst.IsNegative() {
			return Params{}, fmt.Errorf("%w: got %s", ErrInvalidGSTRate, gst)
		}
		params.TaxFactor = decimal.NewFromInt(1).Add(gst)
	}
	return params, nil
}

func readSetting(settings models.Settings, key string) (decimal.Decimal, error) {
	raw, ok := settings.Lookup(key)
	if !ok {
		return decimal.Zero, &SchemaError{Table: models.TableSettings, Column: key}
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &SettingError{Key: key, Value: raw, Err: err}
	}
	return value, nil
}

// Recompute derives every computed table and column from the base tables of ts and
// returns the result as a new TableSet.
//
// Structural problems (a missing or unreadable setting, a degenerate target GP) abort
// with an error. Missing SKU or recipe references only leave the affected rows'
// derived values undefined. Recompute is idempotent: feeding its output back in
// yields the same derived values.
func (e *Engine) Recompute(ts models.TableSet) (models.TableSet, error) {
	params, err := e.Params(ts.Settings)
	if err != nil {
		return models.TableSet{}, err
	}

	out := ts.Clone()
	conv := NewConversions(out.Conversions)

	out.SKUs = NormalizeUnitCosts(out.SKUs, conv, params.TaxFactor)
	out.BOM = CostBOM(out.BOM, out.SKUs, conv)
	out.Recipes = RollRecipes(out.BOM, params.TaxFactor, params.TargetGP)
	out.Menu = MergeMenu(out.Menu, out.Recipes)

	e.log().DebugContext(context.Background(), "costing tables recomputed",
		"taxMode", e.taxMode.String(),
		"skus", len(out.SKUs.Rows),
		"bomLines", len(out.BOM),
		"recipes", len(out.Recipes),
		"menuPresent", out.Menu != nil,
	)
	return out, nil
}

// DashboardMetrics aggregates ts's sales mix against its menu.
func (e *Engine) DashboardMetrics(ts models.TableSet) models.Metrics {
	return DashboardMetrics(ts)
}

// Diagnose lists the dangling references in ts.
func (e *Engine) Diagnose(ts models.TableSet) []Issue {
	return Diagnose(ts)
}

var defaultEngine = New()

// Recompute runs the default engine.
func Recompute(ts models.TableSet) (models.TableSet, error) {
	return defaultEngine.Recompute(ts)
}

// IsDataError reports whether err came from the content of the tables rather than
// from the environment, so callers can show it to the user.
func IsDataError(err error) bool {
	var schemaErr *SchemaError
	var settingErr *SettingError
	return errors.As(err, &schemaErr) ||
		errors.As(err, &settingErr) ||
		errors.Is(err, ErrDegenerateTarget) ||
		errors.Is(err, ErrInvalidGSTRate)
}
