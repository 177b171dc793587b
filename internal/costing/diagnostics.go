package costing

import (
	"fmt"

	"costbook/models"
)

// IssueKind classifies a row-scoped data problem.
type IssueKind string

const (
	IssueUnknownSKU    IssueKind = "unknown_sku"
	IssueUnknownRecipe IssueKind = "unknown_recipe"
	IssueUnknownItem   IssueKind = "unknown_menu_item"
	IssueNoSellPrice   IssueKind = "no_sell_price"
)

// Issue is a dangling reference or gap that leaves one row's derived values undefined.
type Issue struct {
	Kind  IssueKind `json:"kind"`
	Table string    `json:"table"`
	// Row is the 1-based data row within Table.
	Row int    `json:"row"`
	Ref string `json:"ref"`
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueUnknownSKU:
		return fmt.Sprintf("%s row %d: SKU %q does not exist", i.Table, i.Row, i.Ref)
	case IssueUnknownRecipe:
		return fmt.Sprintf("%s row %d: recipe %q has no BOM lines", i.Table, i.Row, i.Ref)
	case IssueUnknownItem:
		return fmt.Sprintf("%s row %d: item %q is not on the menu", i.Table, i.Row, i.Ref)
	case IssueNoSellPrice:
		return fmt.Sprintf("%s row %d: %q has no sell price", i.Table, i.Row, i.Ref)
	default:
		return fmt.Sprintf("%s row %d: %s", i.Table, i.Row, i.Ref)
	}
}

// Diagnose lists the rows whose references cannot be resolved. It never fails and
// does not require ts to be recomputed first.
func Diagnose(ts models.TableSet) []Issue {
	var issues []Issue

	skus := make(map[string]struct{}, len(ts.SKUs.Rows))
	for _, sku := range ts.SKUs.Rows {
		skus[sku.SKUName] = struct{}{}
	}
	recipes := make(map[string]struct{})
	for i, line := range ts.BOM {
		recipes[line.Recipe] = struct{}{}
		if _, ok := skus[line.SKUName]; !ok {
			issues = append(issues, Issue{Kind: IssueUnknownSKU, Table: models.TableBOM, Row: i + 1, Ref: line.SKUName})
		}
	}

	if ts.Menu == nil {
		return issues
	}
	menuItems := make(map[string]struct{}, len(ts.Menu.Rows))
	for i, item := range ts.Menu.Rows {
		menuItems[item.Recipe] = struct{}{}
		if _, ok := recipes[item.Recipe]; !ok {
			issues = append(issues, Issue{Kind: IssueUnknownRecipe, Table: models.TableMenu, Row: i + 1, Ref: item.Recipe})
		}
		if ts.Menu.HasSellPrice && !item.SellPriceIncGST.Valid {
			issues = append(issues, Issue{Kind: IssueNoSellPrice, Table: models.TableMenu, Row: i + 1, Ref: item.Recipe})
		}
	}

	if ts.SalesMix == nil {
		return issues
	}
	for i, line := range ts.SalesMix.Rows {
		if _, ok := menuItems[line.Item]; !ok {
			issues = append(issues, Issue{Kind: IssueUnknownItem, Table: models.TableSalesMix, Row: i + 1, Ref: line.Item})
		}
	}
	return issues
}
