package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"costbook/internal/db/mock"
	"costbook/internal/workbook"
)

func writeSample(t *testing.T) string {
	t.Helper()
	sample, err := mock.Sample()
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := workbook.WriteFile(path, sample); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return path
}

func TestRunPrintsMetricsAndWritesOutput(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"-out", out, in}, &stdout); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Total Revenue (inc GST)") || !strings.Contains(stdout.String(), "$8,472.00") {
		t.Fatalf("unexpected metrics output:\n%s", stdout.String())
	}

	computed, err := workbook.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(computed.Recipes) != 3 {
		t.Fatalf("expected recipes in the output workbook, got %d", len(computed.Recipes))
	}

	original, err := workbook.ReadFile(in)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if len(original.Recipes) != 0 {
		t.Fatal("input workbook should be untouched when -out is given")
	}
}

func TestRunRepricesSKUs(t *testing.T) {
	in := writeSample(t)
	tables, err := workbook.ReadFile(in)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	// Cache a stale unit cost for Gin, then change its pack cost.
	tables.SKUs.HasUnitCost = true
	for i := range tables.SKUs.Rows {
		tables.SKUs.Rows[i].UnitCostExGST = decimal.NewNullDecimal(decimal.NewFromInt(1))
		if tables.SKUs.Rows[i].SKUName == "Gin" {
			tables.SKUs.Rows[i].PackCostIncGST = decimal.NewFromInt(77)
		}
	}
	if err := workbook.WriteFile(in, tables); err != nil {
		t.Fatalf("rewrite input: %v", err)
	}

	if err := run(context.Background(), []string{in}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	kept, _ := workbook.ReadFile(in)
	gin, _ := kept.SKUs.Find("Gin")
	if !gin.UnitCostExGST.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("cached unit cost should survive without -reprice-skus, got %s", gin.UnitCostExGST.Decimal)
	}

	if err := run(context.Background(), []string{"-reprice-skus", in}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run -reprice-skus returned error: %v", err)
	}
	repriced, _ := workbook.ReadFile(in)
	gin, _ = repriced.SKUs.Find("Gin")
	if !gin.UnitCostExGST.Decimal.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("expected re-derived unit cost 0.1, got %s", gin.UnitCostExGST.Decimal)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	in := writeSample(t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "no workbook", args: nil},
		{name: "unknown tax mode", args: []string{"-tax", "vat", in}},
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.xlsx")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), tt.args, &bytes.Buffer{}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
