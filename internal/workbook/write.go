package workbook

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"costbook/models"
)

const columnWidth = 18

// Write encodes ts as an .xlsx workbook with one sheet per table. Undefined values
// are written as empty cells.
func Write(w io.Writer, ts models.TableSet) error {
	f, err := build(ts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteFile writes ts to path, replacing any existing file.
func WriteFile(path string, ts models.TableSet) error {
	f, err := build(ts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

type table struct {
	name   string
	header []string
	rows   [][]any
}

func build(ts models.TableSet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for _, t := range tables(ts) {
		if err := writeTable(f, t, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("write sheet %s: %w", t.name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if index, err := f.GetSheetIndex(models.TableSettings); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}
	return f, nil
}

func writeTable(f *excelize.File, t table, headerStyle int) error {
	if _, err := f.NewSheet(t.name); err != nil {
		return err
	}
	header := make([]any, len(t.header))
	for i, column := range t.header {
		header[i] = column
	}
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.name, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(t.name, "A", last, columnWidth); err != nil {
		return err
	}
	for i, row := range t.rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if digits, ok := value.(exactNumber); ok {
				err = f.SetCellDefault(t.name, cell, string(digits))
			} else {
				err = f.SetCellValue(t.name, cell, value)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// exactNumber is written as the <v> of a numeric cell without passing through
// float64, so every digit the engine produced reaches the file.
type exactNumber string

func number(d decimal.Decimal) any {
	return exactNumber(d.String())
}

func optional(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return number(d.Decimal)
}

func tables(ts models.TableSet) []table {
	out := []table{
		settingsTable(ts.Settings),
		conversionsTable(ts.Conversions),
		skuTable(ts.SKUs),
		bomTable(ts.BOM),
		recipesTable(ts.Recipes),
	}
	if ts.Menu != nil {
		out = append(out, menuTable(ts.Menu))
	}
	if ts.SalesMix != nil {
		out = append(out, salesMixTable(ts.SalesMix))
	}
	return out
}

func settingsTable(settings models.Settings) table {
	t := table{name: models.TableSettings, header: settingsColumns}
	for _, s := range settings {
		t.rows = append(t.rows, []any{s.Key, s.Value})
	}
	return t
}

func conversionsTable(conversions []models.UOMConversion) table {
	t := table{name: models.TableConversions, header: conversionsColumns}
	for _, c := range conversions {
		t.rows = append(t.rows, []any{c.FromUOM, number(c.MultiplierPerUnit)})
	}
	return t
}

func skuTable(skus models.SKUTable) table {
	header := append([]string(nil), skuColumns...)
	if skus.HasUnitCost {
		header = append(header, colUnitCostExGST)
	}
	t := table{name: models.TableSKUs, header: header}
	for _, s := range skus.Rows {
		row := []any{s.SKUName, s.PackUOM, number(s.PackSize), number(s.PackCostIncGST), number(s.YieldPct), s.BaseUOM}
		if skus.HasUnitCost {
			row = append(row, optional(s.UnitCostExGST))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func bomTable(lines []models.BOMLine) table {
	t := table{name: models.TableBOM, header: append(append([]string(nil), bomColumns...), bomDerivedColumns...)}
	for _, l := range lines {
		t.rows = append(t.rows, []any{
			l.Recipe, l.SKUName, number(l.Qty), l.UOM,
			number(l.QtyBase), l.BaseUOM, optional(l.UnitCostExGST), optional(l.LineCostExGST),
		})
	}
	return t
}

func recipesTable(recipes []models.Recipe) table {
	t := table{name: models.TableRecipes, header: recipeColumns}
	for _, r := range recipes {
		t.rows = append(t.rows, []any{
			r.Recipe,
			number(r.FoodCostExGST),
			number(r.FoodCostIncGST),
			number(r.TargetGPPct),
			number(r.SuggestedPriceIncGST),
			r.MissingLines,
		})
	}
	return t
}

func menuTable(menu *models.MenuTable) table {
	header := []string{colRecipe}
	if menu.HasSellPrice {
		header = append(header, colSellPriceIncGST)
	}
	header = append(header, menu.ExtraColumns...)
	header = append(header, menuDerivedColumns...)

	t := table{name: models.TableMenu, header: header}
	for _, item := range menu.Rows {
		row := []any{item.Recipe}
		if menu.HasSellPrice {
			row = append(row, optional(item.SellPriceIncGST))
		}
		for _, column := range menu.ExtraColumns {
			row = append(row, item.Extra[column])
		}
		row = append(row,
			optional(item.FoodCostExGST),
			optional(item.FoodCostIncGST),
			optional(item.SuggestedPriceIncGST),
			optional(item.TargetGPPct),
			optional(item.AchievedGPPct),
			optional(item.ContributionMarginIncGST),
		)
		t.rows = append(t.rows, row)
	}
	return t
}

func salesMixTable(mix *models.SalesMixTable) table {
	t := table{name: models.TableSalesMix, header: salesMixColumns}
	for _, line := range mix.Rows {
		t.rows = append(t.rows, []any{line.Item, number(line.QtySold)})
	}
	return t
}
