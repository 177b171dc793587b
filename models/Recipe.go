package models

import "github.com/shopspring/decimal"

// Recipe is the costed roll-up of every BOM line sharing a recipe name. Recipes are
// never edited directly; they are rebuilt from the BOM on every recompute.
type Recipe struct {
	ID                   uint            `gorm:"primaryKey" json:"-"`
	Position             int             `gorm:"not null;default:0" json:"-"`
	Recipe               string          `gorm:"uniqueIndex;not null" json:"recipe"`
	FoodCostExGST        decimal.Decimal `gorm:"column:food_cost_ex_gst;type:text" json:"food_cost_ex_gst"`
	FoodCostIncGST       decimal.Decimal `gorm:"column:food_cost_inc_gst;type:text" json:"food_cost_inc_gst"`
	TargetGPPct          decimal.Decimal `gorm:"column:target_gp_pct;type:text" json:"target_gp_pct"`
	SuggestedPriceIncGST decimal.Decimal `gorm:"column:suggested_price_inc_gst;type:text" json:"suggested_price_inc_gst"`
	// MissingLines counts BOM lines whose cost could not be resolved and were
	// therefore left out of the food cost.
	MissingLines int `gorm:"not null;default:0" json:"missing_lines"`
}

func (Recipe) TableName() string {
	return "recipes"
}
