package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"costbook/internal/costing"
	"costbook/models"
)

// ErrInvalidWorkbook is returned when the input is not a readable .xlsx file.
var ErrInvalidWorkbook = errors.New("workbook: not a valid .xlsx file")

// ReadFile opens the workbook at path and decodes it into a TableSet.
func ReadFile(path string) (models.TableSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.TableSet{}, err
	}
	defer file.Close()
	return Read(file)
}

// Read decodes an .xlsx workbook. Settings, Conversions, SKUs and Recipe_BOM are
// required; Recipes, Menu and SalesMix are read when present.
func Read(r io.Reader) (models.TableSet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.TableSet{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := make(map[string]*sheet)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return models.TableSet{}, fmt.Errorf("read sheet %s: %w", name, err)
		}
		sheets[name] = newSheet(name, rows)
	}

	required := func(name string) (*sheet, error) {
		s, ok := sheets[name]
		if !ok {
			return nil, &costing.SchemaError{Table: name}
		}
		return s, nil
	}

	var ts models.TableSet

	s, err := required(models.TableSettings)
	if err != nil {
		return ts, err
	}
	if ts.Settings, err = readSettings(s); err != nil {
		return ts, err
	}

	if s, err = required(models.TableConversions); err != nil {
		return ts, err
	}
	if ts.Conversions, err = readConversions(s); err != nil {
		return ts, err
	}

	if s, err = required(models.TableSKUs); err != nil {
		return ts, err
	}
	if ts.SKUs, err = readSKUs(s); err != nil {
		return ts, err
	}

	if s, err = required(models.TableBOM); err != nil {
		return ts, err
	}
	if ts.BOM, err = readBOM(s); err != nil {
		return ts, err
	}

	if s, ok := sheets[models.TableRecipes]; ok {
		if ts.Recipes, err = readRecipes(s); err != nil {
			return ts, err
		}
	}
	if s, ok := sheets[models.TableMenu]; ok {
		if ts.Menu, err = readMenu(s); err != nil {
			return ts, err
		}
	}
	if s, ok := sheets[models.TableSalesMix]; ok {
		if ts.SalesMix, err = readSalesMix(s); err != nil {
			return ts, err
		}
	}
	return ts, nil
}

func readSettings(s *sheet) (models.Settings, error) {
	if err := s.require(settingsColumns...); err != nil {
		return nil, err
	}
	out := make(models.Settings, 0, len(s.rows))
	for i := range s.rows {
		out = append(out, models.Setting{
			Position: i,
			Key:      s.cell(i, colKey),
			Value:    SettingValue(s.cell(i, colValue)),
		})
	}
	return out, nil
}

func readConversions(s *sheet) ([]models.UOMConversion, error) {
	if err := s.require(conversionsColumns...); err != nil {
		return nil, err
	}
	out := make([]models.UOMConversion, 0, len(s.rows))
	for i := range s.rows {
		multiplier, err := s.number(i, colMultiplier, decimal.NewFromInt(1))
		if err != nil {
			return nil, err
		}
		out = append(out, models.UOMConversion{
			Position:          i,
			FromUOM:           s.cell(i, colFromUOM),
			MultiplierPerUnit: multiplier,
		})
	}
	return out, nil
}

func readSKUs(s *sheet) (models.SKUTable, error) {
	// yield_pct may be omitted; every other base column is required.
	if err := s.require(colSKUName, colPackUOM, colPackSize, colPackCostIncGST, colBaseUOM); err != nil {
		return models.SKUTable{}, err
	}
	table := models.SKUTable{
		Rows:        make([]models.SKU, 0, len(s.rows)),
		HasUnitCost: s.has(colUnitCostExGST),
	}
	one := decimal.NewFromInt(1)
	for i := range s.rows {
		sku := models.SKU{
			Position: i,
			SKUName:  s.cell(i, colSKUName),
			PackUOM:  s.cell(i, colPackUOM),
			BaseUOM:  s.cell(i, colBaseUOM),
		}
		var err error
		if sku.PackSize, err = s.number(i, colPackSize, decimal.Zero); err != nil {
			return table, err
		}
		if sku.PackCostIncGST, err = s.number(i, colPackCostIncGST, decimal.Zero); err != nil {
			return table, err
		}
		if sku.YieldPct, err = s.number(i, colYieldPct, one); err != nil {
			return table, err
		}
		if sku.UnitCostExGST, err = s.optionalNumber(i, colUnitCostExGST); err != nil {
			return table, err
		}
		table.Rows = append(table.Rows, sku)
	}
	return table, nil
}

func readBOM(s *sheet) ([]models.BOMLine, error) {
	if err := s.require(bomColumns...); err != nil {
		return nil, err
	}
	out := make([]models.BOMLine, 0, len(s.rows))
	for i := range s.rows {
		line := models.BOMLine{
			Position: i,
			Recipe:   s.cell(i, colRecipe),
			SKUName:  s.cell(i, colSKUName),
			UOM:      s.cell(i, colUOM),
			BaseUOM:  s.cell(i, colBaseUOM),
		}
		var err error
		if line.Qty, err = s.number(i, colQty, decimal.Zero); err != nil {
			return nil, err
		}
		if line.QtyBase, err = s.number(i, colQtyBase, decimal.Zero); err != nil {
			return nil, err
		}
		if line.UnitCostExGST, err = s.optionalNumber(i, colUnitCostExGST); err != nil {
			return nil, err
		}
		if line.LineCostExGST, err = s.optionalNumber(i, colLineCostExGST); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func readRecipes(s *sheet) ([]models.Recipe, error) {
	if err := s.require(colRecipe); err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(s.rows))
	for i := range s.rows {
		recipe := models.Recipe{Position: i, Recipe: s.cell(i, colRecipe)}
		var err error
		if recipe.FoodCostExGST, err = s.number(i, colFoodCostExGST, decimal.Zero); err != nil {
			return nil, err
		}
		if recipe.FoodCostIncGST, err = s.number(i, colFoodCostIncGST, decimal.Zero); err != nil {
			return nil, err
		}
		if recipe.TargetGPPct, err = s.number(i, colTargetGPPct, decimal.Zero); err != nil {
			return nil, err
		}
		if recipe.SuggestedPriceIncGST, err = s.number(i, colSuggestedPriceIncGST, decimal.Zero); err != nil {
			return nil, err
		}
		if raw := s.cell(i, colMissingLines); raw != "" {
			missing, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &CellError{Sheet: s.name, Row: s.rowNumbers[i], Column: colMissingLines, Value: raw, Err: err}
			}
			recipe.MissingLines = missing
		}
		out = append(out, recipe)
	}
	return out, nil
}

func readMenu(s *sheet) (*models.MenuTable, error) {
	if err := s.require(colRecipe); err != nil {
		return nil, err
	}
	table := &models.MenuTable{
		Rows:         make([]models.MenuItem, 0, len(s.rows)),
		HasSellPrice: s.has(colSellPriceIncGST),
	}

	type extra struct {
		label string
		index int
	}
	var extras []extra
	for idx, label := range s.labels {
		key := normaliseHeader(label)
		if key == "" || menuOwnedColumns[key] || s.columns[key] != idx {
			continue
		}
		extras = append(extras, extra{label: label, index: idx})
		table.ExtraColumns = append(table.ExtraColumns, label)
	}

	for i, row := range s.rows {
		item := models.MenuItem{Position: i, Recipe: s.cell(i, colRecipe)}
		var err error
		if item.SellPriceIncGST, err = s.optionalNumber(i, colSellPriceIncGST); err != nil {
			return nil, err
		}
		derived := []*decimal.NullDecimal{
			&item.FoodCostExGST,
			&item.FoodCostIncGST,
			&item.SuggestedPriceIncGST,
			&item.TargetGPPct,
			&item.AchievedGPPct,
			&item.ContributionMarginIncGST,
		}
		for j, column := range menuDerivedColumns {
			if *derived[j], err = s.optionalNumber(i, column); err != nil {
				return nil, err
			}
		}
		for _, e := range extras {
			if e.index >= len(row) {
				continue
			}
			if item.Extra == nil {
				item.Extra = make(map[string]string, len(extras))
			}
			item.Extra[e.label] = row[e.index]
		}
		table.Rows = append(table.Rows, item)
	}
	return table, nil
}

func readSalesMix(s *sheet) (*models.SalesMixTable, error) {
	if err := s.require(salesMixColumns...); err != nil {
		return nil, err
	}
	table := &models.SalesMixTable{Rows: make([]models.SalesMixLine, 0, len(s.rows))}
	for i := range s.rows {
		qty, err := s.number(i, colQtySold, decimal.Zero)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, models.SalesMixLine{
			Position: i,
			Item:     s.cell(i, colItem),
			QtySold:  qty,
		})
	}
	return table, nil
}
