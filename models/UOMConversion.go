package models

import "github.com/shopspring/decimal"

// UOMConversion maps a unit of measure onto the base unit recipes are costed in.
type UOMConversion struct {
	ID                uint            `gorm:"primaryKey" json:"-"`
	Position          int             `gorm:"not null;default:0" json:"-"`
	FromUOM           string          `gorm:"column:from_uom;index;not null" json:"from_uom"`
	MultiplierPerUnit decimal.Decimal `gorm:"type:text;not null" json:"multiplier_per_unit"`
}

func (UOMConversion) TableName() string {
	return "uom_conversions"
}
