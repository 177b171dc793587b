package models

import "github.com/shopspring/decimal"

// BOMLine is one ingredient line of a recipe's bill of materials. The fields after
// UOM are derived on every recompute.
type BOMLine struct {
	ID       uint            `gorm:"primaryKey" json:"-"`
	Position int             `gorm:"not null;default:0" json:"-"`
	Recipe   string          `gorm:"index;not null" json:"recipe"`
	SKUName  string          `gorm:"column:sku_name;not null" json:"sku_name"`
	Qty      decimal.Decimal `gorm:"type:text" json:"qty"`
	UOM      string          `gorm:"column:uom" json:"uom"`

	QtyBase       decimal.Decimal     `gorm:"type:text" json:"qty_base"`
	BaseUOM       string              `gorm:"column:base_uom" json:"base_uom"`
	UnitCostExGST decimal.NullDecimal `gorm:"column:unit_cost_ex_gst;type:text" json:"unit_cost_ex_gst"`
	LineCostExGST decimal.NullDecimal `gorm:"column:line_cost_ex_gst;type:text" json:"line_cost_ex_gst"`
}

func (BOMLine) TableName() string {
	return "bom_lines"
}

// ClearDerived resets the columns the recipe roller owns.
func (l *BOMLine) ClearDerived() {
	l.QtyBase = decimal.Zero
	l.BaseUOM = ""
	l.UnitCostExGST = decimal.NullDecimal{}
	l.LineCostExGST = decimal.NullDecimal{}
}
