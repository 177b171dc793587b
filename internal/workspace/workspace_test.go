package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"costbook/internal/costing"
	"costbook/internal/db/mock"
	"costbook/internal/pricelist"
	"costbook/internal/workbook"
	"costbook/models"
)

type memoryStore struct {
	mu      sync.Mutex
	tables  *models.TableSet
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryStore) Load(context.Context) (models.TableSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return models.TableSet{}, s.loadErr
	}
	if s.tables == nil {
		return models.TableSet{}, workbook.ErrNoWorkbook
	}
	return s.tables.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, ts models.TableSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := ts.Clone()
	s.tables = &clone
	s.saves++
	return nil
}

func sampleStore(t *testing.T) *memoryStore {
	t.Helper()
	sample, err := mock.Sample()
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	return &memoryStore{tables: &sample}
}

func openSample(t *testing.T) (*Workspace, *memoryStore) {
	t.Helper()
	store := sampleStore(t)
	ws, err := Open(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return ws, store
}

func recipeByName(t *testing.T, ts models.TableSet, name string) models.Recipe {
	t.Helper()
	for _, recipe := range ts.Recipes {
		if recipe.Recipe == name {
			return recipe
		}
	}
	t.Fatalf("recipe %s not found", name)
	return models.Recipe{}
}

func TestOpenEmptyStore(t *testing.T) {
	t.Parallel()

	ws, err := Open(context.Background(), &memoryStore{}, nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if ws == nil || ws.Loaded() {
		t.Fatal("expected an empty workspace")
	}
	if _, err := ws.Tables(); !errors.Is(err, ErrNoData) {
		t.Fatalf("Tables: expected ErrNoData, got %v", err)
	}
	if _, err := ws.Dashboard(); !errors.Is(err, ErrNoData) {
		t.Fatalf("Dashboard: expected ErrNoData, got %v", err)
	}
	if _, err := ws.Save(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("Save: expected ErrNoData, got %v", err)
	}
}

func TestOpenRecomputesOnLoad(t *testing.T) {
	t.Parallel()

	ws, _ := openSample(t)

	ts, err := ws.Tables()
	if err != nil {
		t.Fatalf("Tables returned error: %v", err)
	}
	if len(ts.Recipes) != 3 || !ts.SKUs.HasUnitCost {
		t.Fatalf("expected derived tables after load, got %d recipes", len(ts.Recipes))
	}
	negroni := recipeByName(t, ts, "Negroni")
	if !negroni.FoodCostExGST.Equal(decimal.RequireFromString("5.1")) {
		t.Fatalf("negroni food cost = %s, want 5.1", negroni.FoodCostExGST)
	}

	metrics, err := ws.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(metrics) != 4 {
		t.Fatalf("expected four metrics, got %+v", metrics)
	}

	status := ws.Status()
	if !status.Loaded || status.Dirty || status.Error != "" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestOpenKeepsTablesOnDataError(t *testing.T) {
	t.Parallel()

	store := sampleStore(t)
	store.tables.Settings = store.tables.Settings.Set(models.SettingTargetGPPct, "1")

	ws, err := Open(context.Background(), store, nil)
	if !errors.Is(err, costing.ErrDegenerateTarget) {
		t.Fatalf("expected ErrDegenerateTarget, got %v", err)
	}
	if !ws.Loaded() || ws.Status().Error == "" {
		t.Fatalf("expected raw tables and an error status, got %+v", ws.Status())
	}

	fixed := `[{"key":"gst_rate","value":"0.1"},{"key":"target_gp_pct","value":"0.65"}]`
	if err := ws.ReplaceTable(context.Background(), models.TableSettings, []byte(fixed), ReplaceOptions{}); err != nil {
		t.Fatalf("ReplaceTable returned error: %v", err)
	}
	if status := ws.Status(); status.Error != "" || !status.Dirty {
		t.Fatalf("expected a clean dirty status after fixing settings, got %+v", status)
	}
}

func TestReplaceTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("menu rows", func(t *testing.T) {
		t.Parallel()
		ws, _ := openSample(t)
		payload := `[{"recipe":"Negroni","sell_price_inc_gst":"20"},{"recipe":"Spritz","sell_price_inc_gst":null}]`
		if err := ws.ReplaceTable(ctx, models.TableMenu, []byte(payload), ReplaceOptions{}); err != nil {
			t.Fatalf("ReplaceTable returned error: %v", err)
		}
		table, err := ws.Table(models.TableMenu)
		if err != nil {
			t.Fatalf("Table returned error: %v", err)
		}
		menu := table.(*models.MenuTable)
		if len(menu.Rows) != 2 || !menu.HasSellPrice {
			t.Fatalf("unexpected menu: %+v", menu)
		}
		if !menu.Rows[0].AchievedGPPct.Valid {
			t.Fatal("expected achieved GP for a priced row")
		}
		if menu.Rows[1].FoodCostIncGST.Valid {
			t.Fatal("unknown recipe should leave food cost undefined")
		}
		issues, err := ws.Diagnostics()
		if err != nil || len(issues) == 0 {
			t.Fatalf("expected diagnostics for the unknown recipe, got %v, %v", issues, err)
		}
	})

	t.Run("reprice skus", func(t *testing.T) {
		t.Parallel()
		ws, _ := openSample(t)
		ts, _ := ws.Tables()
		for i := range ts.SKUs.Rows {
			if ts.SKUs.Rows[i].SKUName == "Gin" {
				ts.SKUs.Rows[i].PackCostIncGST = decimal.NewFromInt(77)
			}
		}
		payload := mustJSON(t, ts.SKUs.Rows)

		if err := ws.ReplaceTable(ctx, models.TableSKUs, payload, ReplaceOptions{}); err != nil {
			t.Fatalf("ReplaceTable returned error: %v", err)
		}
		cached, _ := ws.Tables()
		if !recipeByName(t, cached, "Negroni").FoodCostExGST.Equal(decimal.RequireFromString("5.1")) {
			t.Fatal("cached unit costs should survive an edit without reprice")
		}

		if err := ws.ReplaceTable(ctx, models.TableSKUs, payload, ReplaceOptions{Reprice: true}); err != nil {
			t.Fatalf("ReplaceTable returned error: %v", err)
		}
		repriced, _ := ws.Tables()
		if got := recipeByName(t, repriced, "Negroni").FoodCostExGST; !got.Equal(decimal.RequireFromString("5.7")) {
			t.Fatalf("negroni food cost after reprice = %s, want 5.7", got)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()
		ws, _ := openSample(t)
		before, _ := ws.Tables()

		if err := ws.ReplaceTable(ctx, "Invoices", []byte(`[]`), ReplaceOptions{}); !errors.Is(err, ErrUnknownTable) {
			t.Fatalf("expected ErrUnknownTable, got %v", err)
		}
		if err := ws.ReplaceTable(ctx, models.TableRecipes, []byte(`[]`), ReplaceOptions{}); !errors.Is(err, ErrDerivedTable) {
			t.Fatalf("expected ErrDerivedTable, got %v", err)
		}
		var decodeErr *DecodeError
		if err := ws.ReplaceTable(ctx, models.TableBOM, []byte(`{"rows":`), ReplaceOptions{}); !errors.As(err, &decodeErr) {
			t.Fatalf("expected DecodeError, got %v", err)
		}
		bad := `[{"key":"gst_rate","value":"0.1"},{"key":"target_gp_pct","value":"1.2"}]`
		if err := ws.ReplaceTable(ctx, models.TableSettings, []byte(bad), ReplaceOptions{}); !errors.Is(err, costing.ErrDegenerateTarget) {
			t.Fatalf("expected ErrDegenerateTarget, got %v", err)
		}

		after, _ := ws.Tables()
		if string(mustJSON(t, before)) != string(mustJSON(t, after)) {
			t.Fatal("rejected edits must leave the dataset untouched")
		}
		if ws.Status().Dirty {
			t.Fatal("rejected edits must not mark the workspace dirty")
		}
	})
}

func TestSaveReturnsRevision(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ws, store := openSample(t)

	rev, err := ws.Save(ctx)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := uuid.Parse(rev.ID); err != nil {
		t.Fatalf("revision is not a uuid: %q", rev.ID)
	}
	if store.saves != 1 || len(store.tables.Recipes) != 3 {
		t.Fatalf("expected computed tables to be saved, got %d saves", store.saves)
	}
	if status := ws.Status(); status.Revision == nil || status.Revision.ID != rev.ID {
		t.Fatalf("status does not report the revision: %+v", status)
	}

	store.saveErr = errors.New("disk full")
	if _, err := ws.Save(ctx); err == nil {
		t.Fatal("expected save error to propagate")
	}
}

func TestImportReplacesEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ws, err := Open(ctx, &memoryStore{}, nil)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	sample, _ := mock.Sample()
	sample.SalesMix = nil
	if _, err := ws.Import(ctx, sample); err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	metrics, err := ws.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(metrics) != 0 {
		t.Fatalf("expected no metrics without a sales mix, got %+v", metrics)
	}

	sample.Settings = sample.Settings.Set(models.SettingGSTRate, "ten")
	if _, err := ws.Import(ctx, sample); !costing.IsDataError(err) {
		t.Fatalf("expected a data error, got %v", err)
	}
}

func TestApplyPriceUpdates(t *testing.T) {
	t.Parallel()

	ws, _ := openSample(t)
	updates, _ := pricelist.Parse("GIN 77.00\nTruffle oil 120\n")

	result, err := ws.ApplyPriceUpdates(context.Background(), updates)
	if err != nil {
		t.Fatalf("ApplyPriceUpdates returned error: %v", err)
	}
	if len(result.Applied) != 1 || result.Applied[0].SKUName != "Gin" {
		t.Fatalf("unexpected applied updates: %+v", result.Applied)
	}
	if len(result.Unmatched) != 1 {
		t.Fatalf("unexpected unmatched names: %v", result.Unmatched)
	}

	ts, _ := ws.Tables()
	if got := recipeByName(t, ts, "Negroni").FoodCostExGST; !got.Equal(decimal.RequireFromString("5.7")) {
		t.Fatalf("negroni food cost = %s, want 5.7", got)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	t.Parallel()

	ws, _ := openSample(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := ws.Dashboard(); err != nil {
				t.Errorf("Dashboard: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := ws.Recompute(ctx); err != nil {
				t.Errorf("Recompute: %v", err)
			}
		}()
	}
	wg.Wait()
}
