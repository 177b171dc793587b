package models

import "github.com/shopspring/decimal"

// SKU is a purchasable ingredient or beverage.
//
// UnitCostExGST is derived from the pack columns the first time the SKU table is
// costed and then kept as-is until the table's cache flag is cleared.
type SKU struct {
	ID             uint                `gorm:"primaryKey" json:"-"`
	Position       int                 `gorm:"not null;default:0" json:"-"`
	SKUName        string              `gorm:"column:sku_name;index;not null" json:"sku_name"`
	PackUOM        string              `gorm:"column:pack_uom" json:"pack_uom"`
	PackSize       decimal.Decimal     `gorm:"type:text" json:"pack_size"`
	PackCostIncGST decimal.Decimal     `gorm:"column:pack_cost_inc_gst;type:text" json:"pack_cost_inc_gst"`
	YieldPct       decimal.Decimal     `gorm:"type:text" json:"yield_pct"`
	BaseUOM        string              `gorm:"column:base_uom" json:"base_uom"`
	UnitCostExGST  decimal.NullDecimal `gorm:"column:unit_cost_ex_gst;type:text" json:"unit_cost_ex_gst"`
}

func (SKU) TableName() string {
	return "skus"
}

// SKUTable holds the SKU rows together with the unit-cost cache marker.
//
// HasUnitCost mirrors the presence of the unit_cost_ex_gst column in the source
// workbook: once set, stored unit costs are trusted and never re-derived.
type SKUTable struct {
	Rows        []SKU `json:"rows"`
	HasUnitCost bool  `json:"has_unit_cost"`
}

// ForgetUnitCosts drops every cached unit cost so the next recompute derives them
// again from the pack columns.
func (t *SKUTable) ForgetUnitCosts() {
	for i := range t.Rows {
		t.Rows[i].UnitCostExGST = decimal.NullDecimal{}
	}
	t.HasUnitCost = false
}

// Find returns the first SKU called name.
func (t SKUTable) Find(name string) (SKU, bool) {
	for _, sku := range t.Rows {
		if sku.SKUName == name {
			return sku, true
		}
	}
	return SKU{}, false
}
