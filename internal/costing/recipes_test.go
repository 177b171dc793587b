package costing

import (
	"testing"

	"costbook/models"
)

func TestRollRecipesSumsLinesAndSuggestsPrice(t *testing.T) {
	t.Parallel()

	lines := []models.BOMLine{
		{Recipe: "Burger", LineCostExGST: nullDec(t, "2.00")},
		{Recipe: "Burger", LineCostExGST: nullDec(t, "1.50")},
	}

	recipes := RollRecipes(lines, fixedTaxFactor, dec(t, "0.70"))
	if len(recipes) != 1 {
		t.Fatalf("expected one recipe, got %d", len(recipes))
	}
	burger := recipes[0]
	assertDecimal(t, "food_cost_ex_gst", burger.FoodCostExGST, "3.50")
	assertDecimal(t, "food_cost_inc_gst", burger.FoodCostIncGST, "3.85")
	assertDecimal(t, "target_gp_pct", burger.TargetGPPct, "0.70")
	assertDecimal(t, "suggested_price_inc_gst", burger.SuggestedPriceIncGST, "12.83")
}

func TestRollRecipesKeepsFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	lines := []models.BOMLine{
		{Recipe: "Negroni", LineCostExGST: nullDec(t, "1")},
		{Recipe: "Burger", LineCostExGST: nullDec(t, "1")},
		{Recipe: "Negroni", LineCostExGST: nullDec(t, "1")},
	}

	recipes := RollRecipes(lines, fixedTaxFactor, dec(t, "0.5"))
	if len(recipes) != 2 || recipes[0].Recipe != "Negroni" || recipes[1].Recipe != "Burger" {
		t.Fatalf("unexpected recipe order: %+v", recipes)
	}
	assertDecimal(t, "negroni cost", recipes[0].FoodCostExGST, "2")
}

func TestCostBOMConvertsLineUnits(t *testing.T) {
	t.Parallel()

	skus := models.SKUTable{Rows: []models.SKU{{SKUName: "Flour", BaseUOM: "g", UnitCostExGST: nullDec(t, "0.002")}}, HasUnitCost: true}
	conv := NewConversions([]models.UOMConversion{{FromUOM: "kg", MultiplierPerUnit: dec(t, "1000")}})
	bom := []models.BOMLine{
		{Recipe: "Bread", SKUName: "Flour", Qty: dec(t, "0.5"), UOM: "kg"},
		{Recipe: "Bread", SKUName: "Flour", Qty: dec(t, "20"), UOM: "pinch"},
	}

	lines := CostBOM(bom, skus, conv)

	assertDecimal(t, "qty_base kg", lines[0].QtyBase, "500")
	assertDecimal(t, "line cost kg", lines[0].LineCostExGST.Decimal, "1")
	if lines[0].BaseUOM != "g" {
		t.Fatalf("base_uom = %q, want g", lines[0].BaseUOM)
	}
	assertDecimal(t, "qty_base unknown unit", lines[1].QtyBase, "20")
	assertDecimal(t, "line cost unknown unit", lines[1].LineCostExGST.Decimal, "0.04")
}

func TestCostBOMLeavesMissingSKUUndefined(t *testing.T) {
	t.Parallel()

	skus := models.SKUTable{Rows: []models.SKU{{SKUName: "Flour", BaseUOM: "g", UnitCostExGST: nullDec(t, "0.002")}}, HasUnitCost: true}
	bom := []models.BOMLine{
		{Recipe: "Bread", SKUName: "Flour", Qty: dec(t, "500"), UOM: "g"},
		{Recipe: "Bread", SKUName: "Saffron", Qty: dec(t, "1"), UOM: "g"},
		{Recipe: "Roll", SKUName: "Flour", Qty: dec(t, "100"), UOM: "g"},
	}

	lines := CostBOM(bom, skus, Conversions{})
	if lines[1].LineCostExGST.Valid || lines[1].UnitCostExGST.Valid {
		t.Fatalf("expected undefined cost for missing SKU, got %+v", lines[1])
	}
	if lines[1].BaseUOM != "" {
		t.Fatalf("expected empty base_uom for missing SKU, got %q", lines[1].BaseUOM)
	}

	recipes := RollRecipes(lines, fixedTaxFactor, dec(t, "0.7"))
	if recipes[0].MissingLines != 1 {
		t.Fatalf("Bread missing lines = %d, want 1", recipes[0].MissingLines)
	}
	assertDecimal(t, "partial bread cost", recipes[0].FoodCostExGST, "1")
	if recipes[1].MissingLines != 0 {
		t.Fatalf("Roll missing lines = %d, want 0", recipes[1].MissingLines)
	}
	assertDecimal(t, "roll cost", recipes[1].FoodCostExGST, "0.2")
}
