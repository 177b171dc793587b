// Package workspace holds the live costing dataset shared by the HTTP handlers.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"costbook/internal/costing"
	"costbook/internal/db"
	applog "costbook/internal/log"
	"costbook/internal/pricelist"
	"costbook/internal/workbook"
	"costbook/models"
)

var (
	// ErrNoData is returned until a dataset has been loaded or uploaded.
	ErrNoData = errors.New("workspace: no costing data loaded")
	// ErrUnknownTable is returned for table names outside the workbook layout.
	ErrUnknownTable = errors.New("workspace: unknown table")
	// ErrDerivedTable is returned when replacing a table that is rebuilt on every recompute.
	ErrDerivedTable = errors.New("workspace: table is derived and cannot be edited")
)

// Store loads and persists the whole dataset.
type Store interface {
	Load(ctx context.Context) (models.TableSet, error)
	Save(ctx context.Context, ts models.TableSet) error
}

// Revision identifies one successful save.
type Revision struct {
	ID      string    `json:"revision"`
	SavedAt time.Time `json:"saved_at"`
}

// Status summarises the workspace for health checks and the dashboard.
type Status struct {
	Loaded   bool      `json:"loaded"`
	Dirty    bool      `json:"dirty"`
	Revision *Revision `json:"last_save,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Workspace owns the current TableSet. Every mutation recomputes before it is
// accepted, so readers only ever see a consistent dataset.
type Workspace struct {
	mu       sync.RWMutex
	store    Store
	engine   *costing.Engine
	tables   models.TableSet
	loaded   bool
	dirty    bool
	revision *Revision
	// loadErr keeps the data error from the last load so the dashboard can show it.
	loadErr error
}

// New returns an empty workspace backed by store. A nil engine uses the defaults.
func New(store Store, engine *costing.Engine) *Workspace {
	if engine == nil {
		engine = costing.New()
	}
	return &Workspace{store: store, engine: engine}
}

// Open creates a workspace and loads it from store. The workspace is returned even
// when loading fails so a server can still accept an upload.
func Open(ctx context.Context, store Store, engine *costing.Engine) (*Workspace, error) {
	ws := New(store, engine)
	return ws, ws.Load(ctx)
}

// Load replaces the in-memory dataset with the stored one and recomputes it. A store
// with nothing saved yet leaves the workspace empty and returns ErrNoData.
func (w *Workspace) Load(ctx context.Context) error {
	if w.store == nil {
		return ErrNoData
	}
	raw, err := w.store.Load(ctx)
	if errors.Is(err, workbook.ErrNoWorkbook) || errors.Is(err, db.ErrNoTables) {
		return ErrNoData
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.loadErr = err
		return fmt.Errorf("load costing data: %w", err)
	}

	computed, err := w.engine.Recompute(raw)
	if err != nil {
		// Keep the raw tables so they can be inspected and fixed.
		w.tables = raw
		w.loaded = true
		w.loadErr = err
		return err
	}
	w.tables = computed
	w.loaded = true
	w.dirty = false
	w.loadErr = nil
	applog.Info(ctx, "costing data loaded", "recipes", len(computed.Recipes), "store", fmt.Sprint(w.store))
	return nil
}

// Loaded reports whether a dataset is present.
func (w *Workspace) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loaded
}

// Status returns a snapshot of the workspace state.
func (w *Workspace) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	status := Status{Loaded: w.loaded, Dirty: w.dirty}
	if w.revision != nil {
		rev := *w.revision
		status.Revision = &rev
	}
	if w.loadErr != nil {
		status.Error = w.loadErr.Error()
	}
	return status
}

// Tables returns a deep copy of the current dataset.
func (w *Workspace) Tables() (models.TableSet, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.loaded {
		return models.TableSet{}, ErrNoData
	}
	return w.tables.Clone(), nil
}

// Table returns one table by its workbook sheet name.
func (w *Workspace) Table(name string) (any, error) {
	if !models.KnownTable(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	ts, err := w.Tables()
	if err != nil {
		return nil, err
	}
	switch name {
	case models.TableSettings:
		return ts.Settings, nil
	case models.TableConversions:
		return ts.Conversions, nil
	case models.TableSKUs:
		return ts.SKUs, nil
	case models.TableBOM:
		return ts.BOM, nil
	case models.TableRecipes:
		return ts.Recipes, nil
	case models.TableMenu:
		return ts.Menu, nil
	default:
		return ts.SalesMix, nil
	}
}

// Dashboard returns the headline metrics of the current dataset.
func (w *Workspace) Dashboard() (models.Metrics, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.loaded {
		return nil, ErrNoData
	}
	return w.engine.DashboardMetrics(w.tables), nil
}

// Diagnostics lists dangling references in the current dataset.
func (w *Workspace) Diagnostics() ([]costing.Issue, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.loaded {
		return nil, ErrNoData
	}
	return costing.Diagnose(w.tables), nil
}

// Recompute derives the current dataset again without saving it.
func (w *Workspace) Recompute(ctx context.Context) (models.TableSet, error) {
	var out models.TableSet
	err := w.update(ctx, func(ts *models.TableSet) error { return nil })
	if err == nil {
		out, err = w.Tables()
	}
	return out, err
}

// update applies mutate to a copy of the dataset and installs it only when the
// recompute succeeds.
func (w *Workspace) update(ctx context.Context, mutate func(ts *models.TableSet) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return ErrNoData
	}

	next := w.tables.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	computed, err := w.engine.Recompute(next)
	if err != nil {
		return err
	}
	w.tables = computed
	w.dirty = true
	w.loadErr = nil
	applog.Debug(ctx, "workspace updated", "recipes", len(computed.Recipes))
	return nil
}

// ReplaceOptions tunes ReplaceTable.
type ReplaceOptions struct {
	// Reprice drops cached SKU unit costs so they are derived again from the pack
	// columns. Use it after editing pack sizes or pack costs.
	Reprice bool
}

// ReplaceTable swaps one table for the JSON-encoded rows in payload and recomputes.
// Array tables take a JSON array; SKUs and Menu also accept their table object.
func (w *Workspace) ReplaceTable(ctx context.Context, name string, payload []byte, opts ReplaceOptions) error {
	if !models.KnownTable(name) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if name == models.TableRecipes {
		return ErrDerivedTable
	}

	return w.update(ctx, func(ts *models.TableSet) error {
		if err := decodeTable(ts, name, payload); err != nil {
			return err
		}
		if opts.Reprice {
			ts.SKUs.ForgetUnitCosts()
		}
		return nil
	})
}

// DecodeError reports a table payload that is not valid JSON for that table.
type DecodeError struct {
	Table string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s rows: %v", e.Table, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeTable(ts *models.TableSet, name string, payload []byte) error {
	var err error
	switch name {
	case models.TableSettings:
		var rows models.Settings
		if err = json.Unmarshal(payload, &rows); err == nil {
			ts.Settings = rows
		}
	case models.TableConversions:
		var rows []models.UOMConversion
		if err = json.Unmarshal(payload, &rows); err == nil {
			ts.Conversions = rows
		}
	case models.TableSKUs:
		var table models.SKUTable
		if err = decodeRowsOrTable(payload, &table, &table.Rows); err == nil {
			if !isObject(payload) {
				table.HasUnitCost = ts.SKUs.HasUnitCost
			}
			ts.SKUs = table
		}
	case models.TableBOM:
		var rows []models.BOMLine
		if err = json.Unmarshal(payload, &rows); err == nil {
			ts.BOM = rows
		}
	case models.TableMenu:
		table := &models.MenuTable{}
		if err = decodeRowsOrTable(payload, table, &table.Rows); err == nil {
			if !isObject(payload) && ts.Menu != nil {
				table.HasSellPrice = ts.Menu.HasSellPrice
				table.ExtraColumns = ts.Menu.ExtraColumns
			}
			ts.Menu = table
		}
	case models.TableSalesMix:
		table := &models.SalesMixTable{}
		if err = json.Unmarshal(payload, &table.Rows); err == nil {
			ts.SalesMix = table
		}
	}
	if err != nil {
		return &DecodeError{Table: name, Err: err}
	}
	return nil
}

func decodeRowsOrTable(payload []byte, table, rows any) error {
	if isObject(payload) {
		return json.Unmarshal(payload, table)
	}
	return json.Unmarshal(payload, rows)
}

func isObject(payload []byte) bool {
	for _, b := range payload {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// PriceResult reports the outcome of a price-list import.
type PriceResult struct {
	Applied   []pricelist.Update `json:"applied"`
	Unmatched []string           `json:"unmatched,omitempty"`
}

// ApplyPriceUpdates sets the pack cost of every SKU named in updates, forces unit
// costs to be derived again and recomputes.
func (w *Workspace) ApplyPriceUpdates(ctx context.Context, updates []pricelist.Update) (PriceResult, error) {
	var result PriceResult
	err := w.update(ctx, func(ts *models.TableSet) error {
		names := make([]string, 0, len(ts.SKUs.Rows))
		for _, sku := range ts.SKUs.Rows {
			names = append(names, sku.SKUName)
		}
		result.Applied, result.Unmatched = pricelist.Resolve(updates, names)
		if len(result.Applied) == 0 {
			return nil
		}
		byName := make(map[string]pricelist.Update, len(result.Applied))
		for _, update := range result.Applied {
			byName[update.SKUName] = update
		}
		for i := range ts.SKUs.Rows {
			if update, ok := byName[ts.SKUs.Rows[i].SKUName]; ok {
				ts.SKUs.Rows[i].PackCostIncGST = update.PackCostIncGST
			}
		}
		ts.SKUs.ForgetUnitCosts()
		return nil
	})
	if err != nil {
		return PriceResult{}, err
	}
	applog.Info(ctx, "applied supplier prices", "applied", len(result.Applied), "unmatched", len(result.Unmatched))
	return result, nil
}

// Save recomputes and persists the dataset, returning the new revision.
func (w *Workspace) Save(ctx context.Context) (Revision, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return Revision{}, ErrNoData
	}
	computed, err := w.engine.Recompute(w.tables)
	if err != nil {
		return Revision{}, err
	}
	return w.persist(ctx, computed)
}

// Import replaces the whole dataset, typically from an uploaded workbook, and
// persists it.
func (w *Workspace) Import(ctx context.Context, ts models.TableSet) (Revision, error) {
	computed, err := w.engine.Recompute(ts)
	if err != nil {
		return Revision{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.persist(ctx, computed)
}

// persist must be called with w.mu held for writing.
func (w *Workspace) persist(ctx context.Context, computed models.TableSet) (Revision, error) {
	if w.store != nil {
		if err := w.store.Save(ctx, computed); err != nil {
			return Revision{}, fmt.Errorf("save costing data: %w", err)
		}
	}
	rev := Revision{ID: uuid.NewString(), SavedAt: time.Now().UTC()}
	w.tables = computed
	w.loaded = true
	w.dirty = false
	w.loadErr = nil
	w.revision = &rev
	applog.Info(ctx, "costing data saved", "revision", rev.ID, "recipes", len(computed.Recipes))
	return rev, nil
}
