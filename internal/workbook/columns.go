package workbook

// Column headers shared by the reader and the writer.
const (
	colKey   = "key"
	colValue = "value"

	colFromUOM    = "from_uom"
	colMultiplier = "multiplier_per_unit"

	colSKUName        = "sku_name"
	colPackUOM        = "pack_uom"
	colPackSize       = "pack_size"
	colPackCostIncGST = "pack_cost_inc_gst"
	colYieldPct       = "yield_pct"
	colBaseUOM        = "base_uom"
	colUnitCostExGST  = "unit_cost_ex_gst"

	colRecipe        = "recipe"
	colQty           = "qty"
	colUOM           = "uom"
	colQtyBase       = "qty_base"
	colLineCostExGST = "line_cost_ex_gst"

	colFoodCostExGST        = "food_cost_ex_gst"
	colFoodCostIncGST       = "food_cost_inc_gst"
	colTargetGPPct          = "target_gp_pct"
	colSuggestedPriceIncGST = "suggested_price_inc_gst"
	colMissingLines         = "missing_lines"

	colSellPriceIncGST          = "sell_price_inc_gst"
	colAchievedGPPct            = "achieved_gp_pct"
	colContributionMarginIncGST = "contribution_margin_inc_gst"

	colItem    = "item"
	colQtySold = "qty_sold"
)

var (
	settingsColumns    = []string{colKey, colValue}
	conversionsColumns = []string{colFromUOM, colMultiplier}
	skuColumns         = []string{colSKUName, colPackUOM, colPackSize, colPackCostIncGST, colYieldPct, colBaseUOM}
	bomColumns         = []string{colRecipe, colSKUName, colQty, colUOM}
	bomDerivedColumns  = []string{colQtyBase, colBaseUOM, colUnitCostExGST, colLineCostExGST}
	recipeColumns      = []string{colRecipe, colFoodCostExGST, colFoodCostIncGST, colTargetGPPct, colSuggestedPriceIncGST, colMissingLines}
	menuDerivedColumns = []string{colFoodCostExGST, colFoodCostIncGST, colSuggestedPriceIncGST, colTargetGPPct, colAchievedGPPct, colContributionMarginIncGST}
	salesMixColumns    = []string{colItem, colQtySold}
)

// menuOwnedColumns are the Menu headers the codec maps onto MenuItem fields; any
// other header is carried in MenuItem.Extra.
var menuOwnedColumns = func() map[string]bool {
	owned := map[string]bool{colRecipe: true, colSellPriceIncGST: true}
	for _, column := range menuDerivedColumns {
		owned[column] = true
	}
	return owned
}()
