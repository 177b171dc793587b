package models

import "github.com/shopspring/decimal"

// SalesMixLine records how many of a menu item sold over the reporting period.
type SalesMixLine struct {
	ID       uint            `gorm:"primaryKey" json:"-"`
	Position int             `gorm:"not null;default:0" json:"-"`
	Item     string          `gorm:"not null" json:"item"`
	QtySold  decimal.Decimal `gorm:"type:text" json:"qty_sold"`
}

func (SalesMixLine) TableName() string {
	return "sales_mix_lines"
}

// SalesMixTable holds the sales mix rows.
type SalesMixTable struct {
	Rows []SalesMixLine `json:"rows"`
}

func (t *SalesMixTable) clone() *SalesMixTable {
	if t == nil {
		return nil
	}
	return &SalesMixTable{Rows: append([]SalesMixLine(nil), t.Rows...)}
}
