package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"costbook/internal/config"
	"costbook/internal/costing"
	"costbook/internal/db"
	"costbook/internal/workbook"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "read .env: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("import_workbook", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return err
	}

	path := "Moustache_Costing_MVP.xlsx"
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("workbook path must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	mode, err := costing.ParseTaxMode(cfg.Costing.TaxMode)
	if err != nil {
		return err
	}

	raw, err := workbook.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}
	computed, err := costing.New(costing.WithTaxMode(mode)).Recompute(raw)
	if err != nil {
		return fmt.Errorf("recompute %s: %w", filepath.Base(path), err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.NewGormStore(database).Save(ctx, computed); err != nil {
		return fmt.Errorf("save tables: %w", err)
	}

	menuItems := 0
	if computed.Menu != nil {
		menuItems = len(computed.Menu.Rows)
	}
	fmt.Fprintf(stdout, "Imported %d SKUs, %d BOM lines and %d menu items from %s\n",
		len(computed.SKUs.Rows), len(computed.BOM), menuItems, filepath.Base(path))
	return nil
}
