package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"costbook/internal/config"
	"costbook/internal/db"
	"costbook/internal/db/mock"
	"costbook/internal/workbook"
)

func setImportEnv(t *testing.T, dbPath string) {
	t.Helper()
	for _, key := range []string{"DATABASE_USE_MOCK", "COSTBOOK_STORE", "COSTBOOK_TAX_MODE", "AUTH_EMAIL", "AUTH_PASSWORD", "SERVER_ADDR", "ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "sqlite:"+dbPath)
}

func TestRunImportsWorkbookIntoDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "costbook.db")
	setImportEnv(t, dbPath)

	sample, err := mock.Sample()
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	bookPath := filepath.Join(dir, "book.xlsx")
	if err := workbook.WriteFile(bookPath, sample); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{bookPath}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 8 SKUs") {
		t.Fatalf("unexpected output %q", out.String())
	}

	database, err := db.Configure(config.DatabaseConfig{URL: "sqlite:" + dbPath})
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	stored, err := db.NewGormStore(database).Load(context.Background())
	if err != nil {
		t.Fatalf("load stored tables: %v", err)
	}
	if len(stored.Recipes) != 3 {
		t.Fatalf("expected recomputed recipes to be stored, got %d", len(stored.Recipes))
	}
	if stored.Menu == nil || !stored.Menu.HasSellPrice {
		t.Fatalf("expected menu flags to round trip, got %+v", stored.Menu)
	}
}

func TestRunRejectsMissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	setImportEnv(t, filepath.Join(dir, "costbook.db"))

	err := run(context.Background(), []string{filepath.Join(dir, "nope.xlsx")}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "read workbook") {
		t.Fatalf("expected read error, got %v", err)
	}
}
