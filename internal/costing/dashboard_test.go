package costing

import (
	"testing"

	"github.com/shopspring/decimal"

	"costbook/models"
)

func TestDashboardMetricsAggregatesMix(t *testing.T) {
	t.Parallel()

	ts := models.TableSet{
		Menu: &models.MenuTable{Rows: []models.MenuItem{
			{Recipe: "Burger", SellPriceIncGST: nullDec(t, "12.83"), FoodCostIncGST: nullDec(t, "3.85")},
			{Recipe: "Special", FoodCostIncGST: nullDec(t, "2")},
		}, HasSellPrice: true},
		SalesMix: &models.SalesMixTable{Rows: []models.SalesMixLine{
			{Item: "Burger", QtySold: dec(t, "10")},
			{Item: "Special", QtySold: dec(t, "5")},
			{Item: "Retired dish", QtySold: dec(t, "100")},
		}},
	}

	metrics := DashboardMetrics(ts)
	if len(metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(metrics))
	}
	want := []struct {
		name  string
		value string
	}{
		{MetricTotalRevenue, "128.3"},
		{MetricTotalCost, "48.5"},
		{MetricTotalProfit, "89.8"},
		{MetricWeightedGP, "0.622"},
	}
	for i, w := range want {
		if metrics[i].Name != w.name {
			t.Fatalf("metric %d name = %q, want %q", i, metrics[i].Name, w.name)
		}
		assertDecimal(t, w.name, metrics[i].Value, w.value)
	}
}

func TestDashboardWeightedGPZeroRevenue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ts   models.TableSet
	}{
		{
			name: "empty mix",
			ts: models.TableSet{
				Menu:     &models.MenuTable{Rows: []models.MenuItem{{Recipe: "Burger", SellPriceIncGST: nullDec(t, "12")}}},
				SalesMix: &models.SalesMixTable{},
			},
		},
		{
			name: "zero quantities",
			ts: models.TableSet{
				Menu:     &models.MenuTable{Rows: []models.MenuItem{{Recipe: "Burger", SellPriceIncGST: nullDec(t, "12"), FoodCostIncGST: nullDec(t, "4")}}},
				SalesMix: &models.SalesMixTable{Rows: []models.SalesMixLine{{Item: "Burger", QtySold: decimal.Zero}}},
			},
		},
		{
			name: "zero prices",
			ts: models.TableSet{
				Menu:     &models.MenuTable{Rows: []models.MenuItem{{Recipe: "Water", SellPriceIncGST: nullDec(t, "0"), FoodCostIncGST: nullDec(t, "0")}}},
				SalesMix: &models.SalesMixTable{Rows: []models.SalesMixLine{{Item: "Water", QtySold: dec(t, "30")}}},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gp, ok := DashboardMetrics(tt.ts).Lookup(MetricWeightedGP)
			if !ok {
				t.Fatal("expected weighted GP metric")
			}
			if !gp.IsZero() {
				t.Fatalf("weighted GP = %s, want exactly 0", gp)
			}
		})
	}
}

func TestDashboardMetricsEmptyWithoutTables(t *testing.T) {
	t.Parallel()

	menu := &models.MenuTable{Rows: []models.MenuItem{{Recipe: "Burger"}}}
	mix := &models.SalesMixTable{Rows: []models.SalesMixLine{{Item: "Burger", QtySold: dec(t, "1")}}}

	if got := DashboardMetrics(models.TableSet{Menu: menu}); len(got) != 0 {
		t.Fatalf("expected no metrics without sales mix, got %v", got)
	}
	if got := DashboardMetrics(models.TableSet{SalesMix: mix}); len(got) != 0 {
		t.Fatalf("expected no metrics without menu, got %v", got)
	}
}

func TestAggregateMixJoinsEveryMatchingMenuRow(t *testing.T) {
	t.Parallel()

	menu := &models.MenuTable{Rows: []models.MenuItem{
		{Recipe: "Burger", SellPriceIncGST: nullDec(t, "10"), FoodCostIncGST: nullDec(t, "4")},
		{Recipe: "Burger", SellPriceIncGST: nullDec(t, "12"), FoodCostIncGST: nullDec(t, "4")},
	}}
	mix := &models.SalesMixTable{Rows: []models.SalesMixLine{{Item: "Burger", QtySold: dec(t, "2")}}}

	totals := AggregateMix(mix, menu)
	assertDecimal(t, "revenue", totals.Revenue, "44")
	assertDecimal(t, "cost", totals.Cost, "16")
	assertDecimal(t, "profit", totals.Profit, "28")
}
