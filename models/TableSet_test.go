package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTableSetCloneIsDeep(t *testing.T) {
	t.Parallel()

	original := TableSet{
		Settings: Settings{{Key: SettingGSTRate, Value: "0.10"}},
		SKUs: SKUTable{
			Rows:        []SKU{{SKUName: "Beef mince", PackSize: decimal.NewFromInt(5)}},
			HasUnitCost: true,
		},
		Menu: &MenuTable{
			Rows: []MenuItem{{Recipe: "Burger", Extra: map[string]string{"category": "Mains"}}},
		},
		SalesMix: &SalesMixTable{Rows: []SalesMixLine{{Item: "Burger", QtySold: decimal.NewFromInt(10)}}},
	}

	clone := original.Clone()
	clone.Settings[0].Value = "0.15"
	clone.SKUs.Rows[0].SKUName = "Chicken thigh"
	clone.Menu.Rows[0].Extra["category"] = "Specials"
	clone.Menu.HasSellPrice = true
	clone.SalesMix.Rows[0].QtySold = decimal.NewFromInt(99)

	if original.Settings[0].Value != "0.10" {
		t.Fatalf("settings shared with clone: %q", original.Settings[0].Value)
	}
	if original.SKUs.Rows[0].SKUName != "Beef mince" {
		t.Fatalf("sku rows shared with clone: %q", original.SKUs.Rows[0].SKUName)
	}
	if original.Menu.Rows[0].Extra["category"] != "Mains" {
		t.Fatalf("menu extras shared with clone: %q", original.Menu.Rows[0].Extra["category"])
	}
	if original.Menu.HasSellPrice {
		t.Fatal("menu flag shared with clone")
	}
	if !original.SalesMix.Rows[0].QtySold.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("sales mix shared with clone: %s", original.SalesMix.Rows[0].QtySold)
	}
}

func TestCloneKeepsAbsentTablesAbsent(t *testing.T) {
	t.Parallel()

	clone := TableSet{}.Clone()
	if clone.Menu != nil || clone.SalesMix != nil {
		t.Fatal("expected optional tables to stay nil")
	}
}

func TestSettingsLookupAndSet(t *testing.T) {
	t.Parallel()

	settings := Settings{{Key: " target_gp_pct ", Value: " 0.7 "}}
	if value, ok := settings.Lookup(SettingTargetGPPct); !ok || value != "0.7" {
		t.Fatalf("Lookup = %q, %t", value, ok)
	}
	if _, ok := settings.Lookup(SettingGSTRate); ok {
		t.Fatal("expected gst_rate to be absent")
	}

	updated := settings.Set(SettingGSTRate, "0.1")
	if len(settings) != 1 {
		t.Fatalf("Set mutated receiver: %d rows", len(settings))
	}
	if value, ok := updated.Lookup(SettingGSTRate); !ok || value != "0.1" {
		t.Fatalf("expected appended gst_rate, got %q (%t)", value, ok)
	}
}

func TestForgetUnitCosts(t *testing.T) {
	t.Parallel()

	table := SKUTable{
		Rows:        []SKU{{SKUName: "Milk", UnitCostExGST: decimal.NewNullDecimal(decimal.RequireFromString("1.5"))}},
		HasUnitCost: true,
	}
	table.ForgetUnitCosts()

	if table.HasUnitCost {
		t.Fatal("expected cache flag cleared")
	}
	if table.Rows[0].UnitCostExGST.Valid {
		t.Fatal("expected cached unit cost dropped")
	}
	if _, ok := table.Find("Milk"); !ok {
		t.Fatal("expected Milk to remain")
	}
}
