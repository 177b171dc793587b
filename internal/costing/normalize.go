package costing

import (
	"github.com/shopspring/decimal"

	"costbook/models"
)

// minEffectiveUnits stands in for a zero pack size or yield so unit cost stays finite.
var minEffectiveUnits = decimal.New(1, -9)

// Conversions resolves unit multipliers. Units that are not listed are treated as
// already being in base units.
type Conversions map[string]decimal.Decimal

// NewConversions indexes the conversion table by from_uom. Later rows win.
func NewConversions(rows []models.UOMConversion) Conversions {
	conv := make(Conversions, len(rows))
	for _, row := range rows {
		conv[row.FromUOM] = row.MultiplierPerUnit
	}
	return conv
}

// Multiplier returns the factor that turns one uom into base units, or 1 when unknown.
func (c Conversions) Multiplier(uom string) decimal.Decimal {
	if mult, ok := c[uom]; ok {
		return mult
	}
	return decimal.NewFromInt(1)
}

// UnitCost derives the tax-exclusive cost of one usable base unit of sku:
//
//	(pack_cost_inc_gst / tax) / max(pack_size * multiplier(pack_uom) * yield_pct, 1e-9)
func UnitCost(sku models.SKU, conv Conversions, tax decimal.Decimal) decimal.Decimal {
	totalBase := sku.PackSize.Mul(conv.Multiplier(sku.PackUOM))
	costEx := sku.PackCostIncGST.Div(tax)
	effective := decimal.Max(totalBase.Mul(sku.YieldPct), minEffectiveUnits)
	return costEx.Div(effective)
}

// NormalizeUnitCosts fills unit_cost_ex_gst for every SKU unless the table already
// carries unit costs, in which case they are trusted and left untouched.
func NormalizeUnitCosts(skus models.SKUTable, conv Conversions, tax decimal.Decimal) models.SKUTable {
	if skus.HasUnitCost {
		return skus
	}
	rows := make([]models.SKU, len(skus.Rows))
	for i, sku := range skus.Rows {
		sku.UnitCostExGST = decimal.NewNullDecimal(UnitCost(sku, conv, tax))
		rows[i] = sku
	}
	return models.SKUTable{Rows: rows, HasUnitCost: true}
}
