package pages

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"costbook/internal/workspace"
	"costbook/models"
)

// ExtraFieldPrefix prefixes the form field of a user-defined Menu column.
const ExtraFieldPrefix = "extra."

// Column is one rendered column. Key is the JSON field an edit posts back; columns
// that are not editable are derived and display-only.
type Column struct {
	Key      string
	Label    string
	Editable bool
}

// TableView is one costing table prepared for the dashboard. Editable cells hold
// raw values so they can be posted back unchanged; derived cells are formatted.
type TableView struct {
	Name       string
	Title      string
	Columns    []Column
	Rows       [][]string
	Editable   bool
	Repricable bool
}

// ID is the element id the table renders under.
func (v TableView) ID() string {
	return strings.ToLower(v.Name)
}

// Headers lists the column labels.
func (v TableView) Headers() []string {
	headers := make([]string, len(v.Columns))
	for i, column := range v.Columns {
		headers[i] = column.Label
	}
	return headers
}

// TableViews lays out every table in dashboard order. Menu and SalesMix are shown
// empty when absent so rows can be added from the page.
func TableViews(ts models.TableSet) []TableView {
	return []TableView{
		salesMixView(ts.SalesMix),
		menuView(ts.Menu),
		recipesView(ts.Recipes),
		bomView(ts.BOM),
		skuView(ts.SKUs),
		settingsView(ts.Settings),
		conversionsView(ts.Conversions),
	}
}

func salesMixView(mix *models.SalesMixTable) TableView {
	view := TableView{
		Name:     models.TableSalesMix,
		Title:    "Sales mix",
		Editable: true,
		Columns: []Column{
			{Key: "item", Label: "Item", Editable: true},
			{Key: "qty_sold", Label: "Qty sold", Editable: true},
		},
	}
	if mix == nil {
		return view
	}
	for _, line := range mix.Rows {
		view.Rows = append(view.Rows, []string{line.Item, line.QtySold.String()})
	}
	return view
}

func menuView(menu *models.MenuTable) TableView {
	view := TableView{Name: models.TableMenu, Title: "Menu", Editable: true}
	view.Columns = []Column{
		{Key: "recipe", Label: "Recipe", Editable: true},
		{Key: "sell_price_inc_gst", Label: "Sell price", Editable: true},
	}
	var extras []string
	if menu != nil {
		extras = menu.ExtraColumns
	}
	for _, name := range extras {
		view.Columns = append(view.Columns, Column{Key: ExtraFieldPrefix + name, Label: name, Editable: true})
	}
	view.Columns = append(view.Columns,
		Column{Label: "Food cost"},
		Column{Label: "Suggested"},
		Column{Label: "Target GP"},
		Column{Label: "Achieved GP"},
		Column{Label: "Margin"},
	)
	if menu == nil {
		return view
	}
	for _, item := range menu.Rows {
		row := []string{item.Recipe, rawNull(item.SellPriceIncGST)}
		for _, name := range extras {
			row = append(row, item.Extra[name])
		}
		row = append(row,
			FormatNullMoney(item.FoodCostIncGST),
			FormatNullMoney(item.SuggestedPriceIncGST),
			FormatNullPercent(item.TargetGPPct),
			FormatNullPercent(item.AchievedGPPct),
			FormatNullMoney(item.ContributionMarginIncGST),
		)
		view.Rows = append(view.Rows, row)
	}
	return view
}

func recipesView(recipes []models.Recipe) TableView {
	view := TableView{
		Name:  models.TableRecipes,
		Title: "Recipes",
		Columns: []Column{
			{Label: "Recipe"},
			{Label: "Food cost ex GST"},
			{Label: "Food cost inc GST"},
			{Label: "Target GP"},
			{Label: "Suggested price"},
			{Label: "Missing lines"},
		},
	}
	for _, recipe := range recipes {
		missing := ""
		if recipe.MissingLines > 0 {
			missing = strconv.Itoa(recipe.MissingLines)
		}
		view.Rows = append(view.Rows, []string{
			recipe.Recipe,
			FormatMoney(recipe.FoodCostExGST),
			FormatMoney(recipe.FoodCostIncGST),
			FormatPercent(recipe.TargetGPPct),
			FormatMoney(recipe.SuggestedPriceIncGST),
			missing,
		})
	}
	return view
}

func bomView(lines []models.BOMLine) TableView {
	view := TableView{
		Name:     models.TableBOM,
		Title:    "Recipe BOM",
		Editable: true,
		Columns: []Column{
			{Key: "recipe", Label: "Recipe", Editable: true},
			{Key: "sku_name", Label: "SKU", Editable: true},
			{Key: "qty", Label: "Qty", Editable: true},
			{Key: "uom", Label: "UOM", Editable: true},
			{Label: "Qty (base)"},
			{Label: "Unit cost ex GST"},
			{Label: "Line cost ex GST"},
		},
	}
	for _, line := range lines {
		base := ""
		if line.BaseUOM != "" {
			base = line.QtyBase.String() + " " + line.BaseUOM
		}
		view.Rows = append(view.Rows, []string{
			line.Recipe,
			line.SKUName,
			line.Qty.String(),
			line.UOM,
			base,
			FormatUnitCost(line.UnitCostExGST),
			FormatNullMoney(line.LineCostExGST),
		})
	}
	return view
}

func skuView(skus models.SKUTable) TableView {
	view := TableView{
		Name:       models.TableSKUs,
		Title:      "SKUs",
		Editable:   true,
		Repricable: true,
		Columns: []Column{
			{Key: "sku_name", Label: "SKU", Editable: true},
			{Key: "pack_uom", Label: "Pack UOM", Editable: true},
			{Key: "pack_size", Label: "Pack size", Editable: true},
			{Key: "pack_cost_inc_gst", Label: "Pack cost inc GST", Editable: true},
			{Key: "yield_pct", Label: "Yield", Editable: true},
			{Key: "base_uom", Label: "Base UOM", Editable: true},
			// Cached unit costs are user data once present; they only change on reprice.
			{Key: "unit_cost_ex_gst", Label: "Unit cost ex GST", Editable: skus.HasUnitCost},
		},
	}
	for _, sku := range skus.Rows {
		unitCost := FormatUnitCost(sku.UnitCostExGST)
		if skus.HasUnitCost {
			unitCost = rawNull(sku.UnitCostExGST)
		}
		view.Rows = append(view.Rows, []string{
			sku.SKUName,
			sku.PackUOM,
			sku.PackSize.String(),
			sku.PackCostIncGST.String(),
			sku.YieldPct.String(),
			sku.BaseUOM,
			unitCost,
		})
	}
	return view
}

func settingsView(settings models.Settings) TableView {
	view := TableView{
		Name:     models.TableSettings,
		Title:    "Settings",
		Editable: true,
		Columns: []Column{
			{Key: "key", Label: "Key", Editable: true},
			{Key: "value", Label: "Value", Editable: true},
		},
	}
	for _, setting := range settings {
		view.Rows = append(view.Rows, []string{setting.Key, setting.Value})
	}
	return view
}

func conversionsView(conversions []models.UOMConversion) TableView {
	view := TableView{
		Name:     models.TableConversions,
		Title:    "Unit conversions",
		Editable: true,
		Columns: []Column{
			{Key: "from_uom", Label: "From UOM", Editable: true},
			{Key: "multiplier_per_unit", Label: "Multiplier per unit", Editable: true},
		},
	}
	for _, conversion := range conversions {
		view.Rows = append(view.Rows, []string{conversion.FromUOM, conversion.MultiplierPerUnit.String()})
	}
	return view
}

func rawNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func revisionLabel(status workspace.Status) string {
	label := "Not saved this session"
	if status.Revision != nil {
		label = "Last saved " + status.Revision.SavedAt.UTC().Format("02 Jan 2006 15:04") + " UTC"
	}
	if status.Dirty {
		label += " (unsaved changes)"
	}
	return label
}
