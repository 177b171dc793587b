package costing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"costbook/models"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	return d
}

func nullDec(t *testing.T, value string) decimal.NullDecimal {
	t.Helper()
	return decimal.NewNullDecimal(dec(t, value))
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}

func assertNear(t *testing.T, label string, got decimal.Decimal, want string, tolerance string) {
	t.Helper()
	diff := got.Sub(decimal.RequireFromString(want)).Abs()
	if diff.GreaterThan(decimal.RequireFromString(tolerance)) {
		t.Fatalf("%s = %s, want %s +/- %s", label, got, want, tolerance)
	}
}

func settings(gst, target string) models.Settings {
	return models.Settings{
		{Key: models.SettingGSTRate, Value: gst},
		{Key: models.SettingTargetGPPct, Value: target},
	}
}

// burgerBar is a small bar menu: a burger, fries and a negroni.
func burgerBar(t *testing.T) models.TableSet {
	t.Helper()
	return models.TableSet{
		Settings: settings("0.10", "0.70"),
		Conversions: []models.UOMConversion{
			{FromUOM: "kg", MultiplierPerUnit: dec(t, "1000")},
			{FromUOM: "g", MultiplierPerUnit: dec(t, "1")},
			{FromUOM: "L", MultiplierPerUnit: dec(t, "1000")},
			{FromUOM: "ml", MultiplierPerUnit: dec(t, "1")},
		},
		SKUs: models.SKUTable{Rows: []models.SKU{
			{SKUName: "Beef mince", PackUOM: "kg", PackSize: dec(t, "5"), PackCostIncGST: dec(t, "55"), YieldPct: dec(t, "1"), BaseUOM: "g"},
			{SKUName: "Brioche bun", PackUOM: "ea", PackSize: dec(t, "12"), PackCostIncGST: dec(t, "13.2"), YieldPct: dec(t, "1"), BaseUOM: "ea"},
			{SKUName: "Potato", PackUOM: "kg", PackSize: dec(t, "10"), PackCostIncGST: dec(t, "22"), YieldPct: dec(t, "0.8"), BaseUOM: "g"},
			{SKUName: "Gin", PackUOM: "L", PackSize: dec(t, "0.7"), PackCostIncGST: dec(t, "77"), YieldPct: dec(t, "1"), BaseUOM: "ml"},
		}},
		BOM: []models.BOMLine{
			{Recipe: "Burger", SKUName: "Beef mince", Qty: dec(t, "150"), UOM: "g"},
			{Recipe: "Burger", SKUName: "Brioche bun", Qty: dec(t, "1"), UOM: "ea"},
			{Recipe: "Fries", SKUName: "Potato", Qty: dec(t, "0.25"), UOM: "kg"},
			{Recipe: "Negroni", SKUName: "Gin", Qty: dec(t, "30"), UOM: "ml"},
		},
		Menu: &models.MenuTable{Rows: []models.MenuItem{
			{Recipe: "Burger"},
			{Recipe: "Fries"},
			{Recipe: "Negroni"},
		}},
		SalesMix: &models.SalesMixTable{Rows: []models.SalesMixLine{
			{Item: "Burger", QtySold: dec(t, "40")},
			{Item: "Fries", QtySold: dec(t, "25")},
			{Item: "Negroni", QtySold: dec(t, "12")},
		}},
	}
}

func mustJSON(t *testing.T, value any) string {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
