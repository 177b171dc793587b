package mock

import (
	"context"
	"testing"

	"costbook/internal/costing"
	"costbook/internal/db"
)

func TestSampleCostsCleanly(t *testing.T) {
	t.Parallel()

	sample, err := Sample()
	if err != nil {
		t.Fatalf("Sample returned error: %v", err)
	}
	if issues := costing.Diagnose(sample); len(issues) != 0 {
		t.Fatalf("sample dataset has dangling references: %v", issues)
	}

	computed, err := costing.Recompute(sample)
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if len(computed.Recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(computed.Recipes))
	}
	for _, recipe := range computed.Recipes {
		if recipe.MissingLines != 0 || !recipe.FoodCostExGST.IsPositive() {
			t.Fatalf("recipe %s not fully costed: %+v", recipe.Recipe, recipe)
		}
	}
	gp, ok := costing.DashboardMetrics(computed).Lookup(costing.MetricWeightedGP)
	if !ok || !gp.IsPositive() {
		t.Fatalf("expected a positive weighted GP, got %s", gp)
	}
}

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	user, err := db.FindUserByEmail(ctx, database, DemoEmail)
	if err != nil {
		t.Fatalf("query user: %v", err)
	}
	if !db.CheckPassword(user, DemoPassword) {
		t.Fatal("unexpected password hash")
	}

	tables, err := db.NewGormStore(database).Load(ctx)
	if err != nil {
		t.Fatalf("load seeded tables: %v", err)
	}
	if len(tables.Recipes) == 0 || tables.Menu == nil || tables.SalesMix == nil {
		t.Fatalf("expected seeded costing tables, got %+v", tables)
	}
	if !tables.SKUs.HasUnitCost {
		t.Fatal("expected seeded SKUs to carry unit costs")
	}

	if _, err := New(ctx); err != nil {
		t.Fatalf("second initialization failed: %v", err)
	}
}
