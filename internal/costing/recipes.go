package costing

import (
	"github.com/shopspring/decimal"

	"costbook/models"
)

// CostBOM resolves every BOM line against the SKU table. Lines naming an unknown SKU,
// or a SKU without a unit cost, keep an undefined unit and line cost.
func CostBOM(bom []models.BOMLine, skus models.SKUTable, conv Conversions) []models.BOMLine {
	bySKU := make(map[string]models.SKU, len(skus.Rows))
	for _, sku := range skus.Rows {
		bySKU[sku.SKUName] = sku
	}

	lines := make([]models.BOMLine, len(bom))
	for i, line := range bom {
		line.ClearDerived()
		line.QtyBase = line.Qty.Mul(conv.Multiplier(line.UOM))
		if sku, ok := bySKU[line.SKUName]; ok {
			line.BaseUOM = sku.BaseUOM
			line.UnitCostExGST = sku.UnitCostExGST
		}
		if line.UnitCostExGST.Valid {
			line.LineCostExGST = decimal.NewNullDecimal(line.QtyBase.Mul(line.UnitCostExGST.Decimal))
		}
		lines[i] = line
	}
	return lines
}

// RollRecipes groups costed BOM lines by recipe in order of first appearance and
// prices each recipe at the target GP.
//
// Undefined line costs add nothing to the food cost and are counted in MissingLines.
// target must already be validated to lie in [0, 1).
func RollRecipes(lines []models.BOMLine, tax, target decimal.Decimal) []models.Recipe {
	var recipes []models.Recipe
	index := make(map[string]int)
	for _, line := range lines {
		pos, ok := index[line.Recipe]
		if !ok {
			pos = len(recipes)
			index[line.Recipe] = pos
			recipes = append(recipes, models.Recipe{Recipe: line.Recipe})
		}
		if !line.LineCostExGST.Valid {
			recipes[pos].MissingLines++
			continue
		}
		recipes[pos].FoodCostExGST = recipes[pos].FoodCostExGST.Add(line.LineCostExGST.Decimal)
	}

	divisor := decimal.NewFromInt(1).Sub(target)
	for i := range recipes {
		recipes[i].FoodCostIncGST = recipes[i].FoodCostExGST.Mul(tax)
		recipes[i].TargetGPPct = target
		recipes[i].SuggestedPriceIncGST = recipes[i].FoodCostIncGST.Div(divisor).Round(2)
	}
	return recipes
}
