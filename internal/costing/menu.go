package costing

import (
	"github.com/shopspring/decimal"

	"costbook/models"
)

// MergeMenu re-derives the costed columns of every menu row from recipes.
//
// Rows whose recipe is unknown keep undefined cost fields. When the menu has never
// had a sell price column, each row's sell price starts at the suggested price;
// afterwards sell prices are left as the user set them.
func MergeMenu(menu *models.MenuTable, recipes []models.Recipe) *models.MenuTable {
	if menu == nil {
		return nil
	}

	byName := make(map[string]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		if _, ok := byName[recipe.Recipe]; !ok {
			byName[recipe.Recipe] = recipe
		}
	}

	out := &models.MenuTable{
		Rows:         make([]models.MenuItem, len(menu.Rows)),
		HasSellPrice: true,
		ExtraColumns: append([]string(nil), menu.ExtraColumns...),
	}
	for i, item := range menu.Rows {
		item.ClearDerived()
		if recipe, ok := byName[item.Recipe]; ok {
			item.FoodCostExGST = decimal.NewNullDecimal(recipe.FoodCostExGST)
			item.FoodCostIncGST = decimal.NewNullDecimal(recipe.FoodCostIncGST)
			item.SuggestedPriceIncGST = decimal.NewNullDecimal(recipe.SuggestedPriceIncGST)
			item.TargetGPPct = decimal.NewNullDecimal(recipe.TargetGPPct)
		}
		if !menu.HasSellPrice {
			item.SellPriceIncGST = item.SuggestedPriceIncGST
		}
		item.AchievedGPPct = AchievedGP(item.FoodCostIncGST, item.SellPriceIncGST)
		if item.SellPriceIncGST.Valid && item.FoodCostIncGST.Valid {
			margin := item.SellPriceIncGST.Decimal.Sub(item.FoodCostIncGST.Decimal).Round(2)
			item.ContributionMarginIncGST = decimal.NewNullDecimal(margin)
		}
		out.Rows[i] = item
	}
	return out
}

// AchievedGP returns 1 - cost/sell. It is undefined when either side is undefined or
// the sell price is zero; unlike the weighted dashboard GP there is no zero fallback.
func AchievedGP(cost, sell decimal.NullDecimal) decimal.NullDecimal {
	if !cost.Valid || !sell.Valid || sell.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(1).Sub(cost.Decimal.Div(sell.Decimal)))
}
