package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"costbook/models"
)

func TestTablesGet(t *testing.T) {
	withTestWorkspace(t, false)

	w := httptest.NewRecorder()
	Tables(w, httptest.NewRequest(http.MethodGet, "/app/api/tables/SKUs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var skus models.SKUTable
	if err := json.Unmarshal(w.Body.Bytes(), &skus); err != nil {
		t.Fatalf("decode SKUs: %v", err)
	}
	if !skus.HasUnitCost || len(skus.Rows) == 0 || !skus.Rows[0].UnitCostExGST.Valid {
		t.Fatalf("expected costed SKUs, got %+v", skus)
	}
}

func TestTablesErrors(t *testing.T) {
	withTestWorkspace(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "unknown table", method: http.MethodGet, path: "/app/api/tables/Invoices", want: http.StatusNotFound},
		{name: "empty name", method: http.MethodGet, path: "/app/api/tables/", want: http.StatusNotFound},
		{name: "derived table", method: http.MethodPut, path: "/app/api/tables/Recipes", body: `[]`, want: http.StatusMethodNotAllowed},
		{name: "bad json", method: http.MethodPut, path: "/app/api/tables/Recipe_BOM", body: `[{`, want: http.StatusUnprocessableEntity},
		{name: "degenerate target", method: http.MethodPut, path: "/app/api/tables/Settings", body: `[{"key":"gst_rate","value":"0.1"},{"key":"target_gp_pct","value":"1"}]`, want: http.StatusUnprocessableEntity},
		{name: "missing setting", method: http.MethodPut, path: "/app/api/tables/Settings", body: `[{"key":"gst_rate","value":"0.1"}]`, want: http.StatusUnprocessableEntity},
		{name: "bad method", method: http.MethodDelete, path: "/app/api/tables/SKUs", want: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Tables(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestTablesPutRecomputes(t *testing.T) {
	withTestWorkspace(t, false)

	body := `[{"recipe":"Negroni","sell_price_inc_gst":"25"},{"recipe":"Fries"}]`
	w := httptest.NewRecorder()
	Tables(w, httptest.NewRequest(http.MethodPut, "/app/api/tables/Menu", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var menu models.MenuTable
	if err := json.Unmarshal(w.Body.Bytes(), &menu); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(menu.Rows) != 2 || !menu.Rows[0].AchievedGPPct.Valid {
		t.Fatalf("expected recomputed menu rows, got %+v", menu.Rows)
	}
	if menu.Rows[1].SellPriceIncGST.Valid {
		t.Fatal("a user-owned sell price column must not be refilled")
	}
}

func TestRecomputeEndpoint(t *testing.T) {
	withTestWorkspace(t, false)

	w := httptest.NewRecorder()
	Recompute(w, httptest.NewRequest(http.MethodPost, "/app/api/recompute", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Tables  models.TableSet `json:"tables"`
		Metrics models.Metrics  `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Tables.Recipes) != 3 || len(resp.Metrics) != 4 {
		t.Fatalf("unexpected recompute response: %d recipes, %d metrics", len(resp.Tables.Recipes), len(resp.Metrics))
	}

	w = httptest.NewRecorder()
	Recompute(w, httptest.NewRequest(http.MethodGet, "/app/api/recompute", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
