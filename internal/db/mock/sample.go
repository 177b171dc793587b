package mock

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"costbook/models"
)

//go:embed sample.yaml
var sampleYAML []byte

type sampleFile struct {
	Settings []struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"settings"`
	Conversions []struct {
		FromUOM    string `yaml:"from_uom"`
		Multiplier string `yaml:"multiplier"`
	} `yaml:"conversions"`
	SKUs []struct {
		Name     string `yaml:"name"`
		PackUOM  string `yaml:"pack_uom"`
		PackSize string `yaml:"pack_size"`
		PackCost string `yaml:"pack_cost"`
		YieldPct string `yaml:"yield_pct"`
		BaseUOM  string `yaml:"base_uom"`
	} `yaml:"skus"`
	BOM []struct {
		Recipe string `yaml:"recipe"`
		SKU    string `yaml:"sku"`
		Qty    string `yaml:"qty"`
		UOM    string `yaml:"uom"`
	} `yaml:"recipe_bom"`
	Menu []struct {
		Recipe    string `yaml:"recipe"`
		SellPrice string `yaml:"sell_price"`
	} `yaml:"menu"`
	SalesMix []struct {
		Item    string `yaml:"item"`
		QtySold string `yaml:"qty_sold"`
	} `yaml:"sales_mix"`
}

// Sample returns the demo dataset as base tables; nothing in it is derived yet.
func Sample() (models.TableSet, error) {
	var file sampleFile
	if err := yaml.Unmarshal(sampleYAML, &file); err != nil {
		return models.TableSet{}, fmt.Errorf("decode sample dataset: %w", err)
	}

	var (
		ts    models.TableSet
		first error
	)
	num := func(value string) decimal.Decimal {
		d, err := decimal.NewFromString(value)
		if err != nil && first == nil {
			first = fmt.Errorf("sample dataset: %q: %w", value, err)
		}
		return d
	}

	for _, s := range file.Settings {
		ts.Settings = append(ts.Settings, models.Setting{Key: s.Key, Value: s.Value})
	}
	for _, c := range file.Conversions {
		ts.Conversions = append(ts.Conversions, models.UOMConversion{FromUOM: c.FromUOM, MultiplierPerUnit: num(c.Multiplier)})
	}
	for _, s := range file.SKUs {
		ts.SKUs.Rows = append(ts.SKUs.Rows, models.SKU{
			SKUName:        s.Name,
			PackUOM:        s.PackUOM,
			PackSize:       num(s.PackSize),
			PackCostIncGST: num(s.PackCost),
			YieldPct:       num(s.YieldPct),
			BaseUOM:        s.BaseUOM,
		})
	}
	for _, l := range file.BOM {
		ts.BOM = append(ts.BOM, models.BOMLine{Recipe: l.Recipe, SKUName: l.SKU, Qty: num(l.Qty), UOM: l.UOM})
	}
	ts.Menu = &models.MenuTable{HasSellPrice: true}
	for _, m := range file.Menu {
		ts.Menu.Rows = append(ts.Menu.Rows, models.MenuItem{
			Recipe:          m.Recipe,
			SellPriceIncGST: decimal.NewNullDecimal(num(m.SellPrice)),
		})
	}
	ts.SalesMix = &models.SalesMixTable{}
	for _, line := range file.SalesMix {
		ts.SalesMix.Rows = append(ts.SalesMix.Rows, models.SalesMixLine{Item: line.Item, QtySold: num(line.QtySold)})
	}

	if first != nil {
		return models.TableSet{}, first
	}
	return ts, nil
}
