package models

import (
	"maps"

	"github.com/shopspring/decimal"
)

// MenuItem is a published dish or drink. Recipe and SellPriceIncGST belong to the
// user; the remaining decimal fields are merged from the recipe on every recompute.
type MenuItem struct {
	ID              uint                `gorm:"primaryKey" json:"-"`
	Position        int                 `gorm:"not null;default:0" json:"-"`
	Recipe          string              `gorm:"index;not null" json:"recipe"`
	SellPriceIncGST decimal.NullDecimal `gorm:"column:sell_price_inc_gst;type:text" json:"sell_price_inc_gst"`
	// Extra carries any additional user columns of the Menu sheet untouched.
	Extra map[string]string `gorm:"serializer:json" json:"extra,omitempty"`

	FoodCostExGST            decimal.NullDecimal `gorm:"column:food_cost_ex_gst;type:text" json:"food_cost_ex_gst"`
	FoodCostIncGST           decimal.NullDecimal `gorm:"column:food_cost_inc_gst;type:text" json:"food_cost_inc_gst"`
	SuggestedPriceIncGST     decimal.NullDecimal `gorm:"column:suggested_price_inc_gst;type:text" json:"suggested_price_inc_gst"`
	TargetGPPct              decimal.NullDecimal `gorm:"column:target_gp_pct;type:text" json:"target_gp_pct"`
	AchievedGPPct            decimal.NullDecimal `gorm:"column:achieved_gp_pct;type:text" json:"achieved_gp_pct"`
	ContributionMarginIncGST decimal.NullDecimal `gorm:"column:contribution_margin_inc_gst;type:text" json:"contribution_margin_inc_gst"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// ClearDerived resets every column merged from the recipe roll-up.
func (m *MenuItem) ClearDerived() {
	m.FoodCostExGST = decimal.NullDecimal{}
	m.FoodCostIncGST = decimal.NullDecimal{}
	m.SuggestedPriceIncGST = decimal.NullDecimal{}
	m.TargetGPPct = decimal.NullDecimal{}
	m.AchievedGPPct = decimal.NullDecimal{}
	m.ContributionMarginIncGST = decimal.NullDecimal{}
}

// MenuTable holds the menu rows.
//
// HasSellPrice records whether the sell price column exists at all. While it is
// false every row's sell price is filled from the suggested price once; after that
// the column is user-owned and never overwritten.
type MenuTable struct {
	Rows         []MenuItem `json:"rows"`
	HasSellPrice bool       `json:"has_sell_price"`
	// ExtraColumns preserves the sheet order of the keys found in MenuItem.Extra.
	ExtraColumns []string `json:"extra_columns,omitempty"`
}

func (t *MenuTable) clone() *MenuTable {
	if t == nil {
		return nil
	}
	out := &MenuTable{
		Rows:         make([]MenuItem, len(t.Rows)),
		HasSellPrice: t.HasSellPrice,
		ExtraColumns: append([]string(nil), t.ExtraColumns...),
	}
	copy(out.Rows, t.Rows)
	for i := range out.Rows {
		if out.Rows[i].Extra != nil {
			out.Rows[i].Extra = maps.Clone(out.Rows[i].Extra)
		}
	}
	return out
}
