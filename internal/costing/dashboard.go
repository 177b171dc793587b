package costing

import (
	"github.com/shopspring/decimal"

	"costbook/models"
)

// Dashboard metric names, in display order.
const (
	MetricTotalRevenue = "Total Revenue (inc GST)"
	MetricTotalCost    = "Total Cost (inc GST)"
	MetricTotalProfit  = "Total Profit (inc GST)"
	MetricWeightedGP   = "Weighted GP %"
)

// MixTotals holds the unrounded sales-mix aggregates.
type MixTotals struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Profit  decimal.Decimal
}

// WeightedGP is 1 - cost/revenue, or exactly zero when there is no revenue.
func (t MixTotals) WeightedGP() decimal.Decimal {
	if t.Revenue.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(t.Cost.Div(t.Revenue))
}

// AggregateMix left-joins each sales line onto every menu row with the same recipe
// and sums revenue, cost and profit. Undefined prices or costs add nothing, and a
// line only adds profit when both its revenue and cost are defined.
func AggregateMix(mix *models.SalesMixTable, menu *models.MenuTable) MixTotals {
	totals := MixTotals{}
	if mix == nil || menu == nil {
		return totals
	}

	byRecipe := make(map[string][]models.MenuItem, len(menu.Rows))
	for _, item := range menu.Rows {
		byRecipe[item.Recipe] = append(byRecipe[item.Recipe], item)
	}

	for _, line := range mix.Rows {
		for _, item := range byRecipe[line.Item] {
			var revenue, cost decimal.NullDecimal
			if item.SellPriceIncGST.Valid {
				revenue = decimal.NewNullDecimal(line.QtySold.Mul(item.SellPriceIncGST.Decimal))
				totals.Revenue = totals.Revenue.Add(revenue.Decimal)
			}
			if item.FoodCostIncGST.Valid {
				cost = decimal.NewNullDecimal(line.QtySold.Mul(item.FoodCostIncGST.Decimal))
				totals.Cost = totals.Cost.Add(cost.Decimal)
			}
			if revenue.Valid && cost.Valid {
				totals.Profit = totals.Profit.Add(revenue.Decimal.Sub(cost.Decimal))
			}
		}
	}
	return totals
}

// DashboardMetrics aggregates the sales mix against the menu into the four headline
// figures. It returns an empty result when either table is absent.
func DashboardMetrics(ts models.TableSet) models.Metrics {
	if ts.SalesMix == nil || ts.Menu == nil {
		return models.Metrics{}
	}
	totals := AggregateMix(ts.SalesMix, ts.Menu)
	return models.Metrics{
		{Name: MetricTotalRevenue, Value: totals.Revenue.Round(2)},
		{Name: MetricTotalCost, Value: totals.Cost.Round(2)},
		{Name: MetricTotalProfit, Value: totals.Profit.Round(2)},
		{Name: MetricWeightedGP, Value: totals.WeightedGP().Round(3)},
	}
}
