package models

// Table names as they appear as workbook sheets.
const (
	TableSettings    = "Settings"
	TableConversions = "Conversions"
	TableSKUs        = "SKUs"
	TableBOM         = "Recipe_BOM"
	TableRecipes     = "Recipes"
	TableMenu        = "Menu"
	TableSalesMix    = "SalesMix"
)

// TableNames lists every table in workbook order.
var TableNames = []string{
	TableSettings,
	TableConversions,
	TableSKUs,
	TableBOM,
	TableRecipes,
	TableMenu,
	TableSalesMix,
}

// TableSet is the whole costing dataset. Menu and SalesMix are optional and nil
// when the source has no such table.
type TableSet struct {
	Settings    Settings        `json:"settings"`
	Conversions []UOMConversion `json:"conversions"`
	SKUs        SKUTable        `json:"skus"`
	BOM         []BOMLine       `json:"recipe_bom"`
	Recipes     []Recipe        `json:"recipes"`
	Menu        *MenuTable      `json:"menu,omitempty"`
	SalesMix    *SalesMixTable  `json:"sales_mix,omitempty"`
}

// Clone returns a deep copy so callers can derive a new set without touching ts.
func (ts TableSet) Clone() TableSet {
	return TableSet{
		Settings:    append(Settings(nil), ts.Settings...),
		Conversions: append([]UOMConversion(nil), ts.Conversions...),
		SKUs: SKUTable{
			Rows:        append([]SKU(nil), ts.SKUs.Rows...),
			HasUnitCost: ts.SKUs.HasUnitCost,
		},
		BOM:      append([]BOMLine(nil), ts.BOM...),
		Recipes:  append([]Recipe(nil), ts.Recipes...),
		Menu:     ts.Menu.clone(),
		SalesMix: ts.SalesMix.clone(),
	}
}

// KnownTable reports whether name is one of the workbook tables.
func KnownTable(name string) bool {
	for _, table := range TableNames {
		if table == name {
			return true
		}
	}
	return false
}
