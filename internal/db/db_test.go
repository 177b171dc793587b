package db

import (
	"path/filepath"
	"strings"
	"testing"

	"costbook/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := AutoMigrate(database); err != nil {
		t.Fatalf("automigrate sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func TestInitializeRequiresURL(t *testing.T) {
	t.Parallel()

	db, err := Initialize(config.DatabaseConfig{URL: ""})
	if err == nil {
		t.Fatal("expected error when database URL is empty")
	}
	if db != nil {
		t.Fatal("expected returned db handle to be nil on error")
	}
}

func TestInitializeRejectsUnknownScheme(t *testing.T) {
	t.Parallel()

	if _, err := Initialize(config.DatabaseConfig{URL: "mysql://localhost/costbook"}); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	if _, err := Initialize(config.DatabaseConfig{URL: "sqlite:"}); err == nil {
		t.Fatal("expected error for sqlite URL without a path")
	}
}

func TestInitializeOpensSQLiteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "costbook.db")
	database, err := Initialize(config.DatabaseConfig{URL: "sqlite:" + path, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	defer sqlDB.Close()

	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected max open connections 1, got %d", got)
	}
	if err := AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
}

func TestAutoMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := AutoMigrate(nil); err == nil {
		t.Fatal("expected error when database handle is nil")
	}
}

func TestAutoMigrateWithSQLite(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)
	for _, table := range []string{"users", "table_flags", "settings", "skus", "bom_lines", "recipes", "menu_items", "sales_mix_lines", "uom_conversions"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestConfigurePropagatesInitializationError(t *testing.T) {
	t.Parallel()

	if _, err := Configure(config.DatabaseConfig{}); err == nil {
		t.Fatal("expected configuration error when initialize fails")
	}
}

func TestMustConfigurePanicsOnError(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic when configuration fails")
		}
	}()

	MustConfigure(config.DatabaseConfig{})
}
