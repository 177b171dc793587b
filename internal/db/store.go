package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	applog "costbook/internal/log"
	"costbook/models"
)

// ErrNoTables is returned by GormStore.Load before anything has been saved.
var ErrNoTables = errors.New("db: no costing tables stored")

const flagsRowID = 1

// tableFlags records what a row-per-record layout cannot: which optional tables
// exist and which cache columns were present.
type tableFlags struct {
	ID               uint `gorm:"primaryKey"`
	HasUnitCost      bool
	HasMenu          bool
	HasSellPrice     bool
	HasSalesMix      bool
	MenuExtraColumns []string `gorm:"serializer:json"`
	UpdatedAt        time.Time
}

func (tableFlags) TableName() string {
	return "table_flags"
}

// GormStore persists a TableSet as one row per table record.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps database. The schema must already be migrated.
func NewGormStore(database *gorm.DB) *GormStore {
	return &GormStore{db: database}
}

// Load reads every table back in its saved order.
func (s *GormStore) Load(ctx context.Context) (models.TableSet, error) {
	var ts models.TableSet
	if s == nil || s.db == nil {
		return ts, gorm.ErrInvalidDB
	}
	tx := s.db.WithContext(ctx)

	var flags tableFlags
	if err := tx.First(&flags, flagsRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ts, ErrNoTables
		}
		return ts, fmt.Errorf("load table flags: %w", err)
	}

	if err := tx.Order("position").Find(&ts.Settings).Error; err != nil {
		return ts, fmt.Errorf("load settings: %w", err)
	}
	if err := tx.Order("position").Find(&ts.Conversions).Error; err != nil {
		return ts, fmt.Errorf("load conversions: %w", err)
	}
	ts.SKUs.HasUnitCost = flags.HasUnitCost
	if err := tx.Order("position").Find(&ts.SKUs.Rows).Error; err != nil {
		return ts, fmt.Errorf("load skus: %w", err)
	}
	if err := tx.Order("position").Find(&ts.BOM).Error; err != nil {
		return ts, fmt.Errorf("load bom: %w", err)
	}
	if err := tx.Order("position").Find(&ts.Recipes).Error; err != nil {
		return ts, fmt.Errorf("load recipes: %w", err)
	}
	if flags.HasMenu {
		ts.Menu = &models.MenuTable{HasSellPrice: flags.HasSellPrice, ExtraColumns: flags.MenuExtraColumns}
		if err := tx.Order("position").Find(&ts.Menu.Rows).Error; err != nil {
			return ts, fmt.Errorf("load menu: %w", err)
		}
	}
	if flags.HasSalesMix {
		ts.SalesMix = &models.SalesMixTable{}
		if err := tx.Order("position").Find(&ts.SalesMix.Rows).Error; err != nil {
			return ts, fmt.Errorf("load sales mix: %w", err)
		}
	}
	return ts, nil
}

// Save replaces every stored table with ts inside a single transaction.
func (s *GormStore) Save(ctx context.Context, ts models.TableSet) error {
	if s == nil || s.db == nil {
		return gorm.ErrInvalidDB
	}
	ts = ts.Clone()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&models.Setting{},
			&models.UOMConversion{},
			&models.SKU{},
			&models.BOMLine{},
			&models.Recipe{},
			&models.MenuItem{},
			&models.SalesMixLine{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		for i := range ts.Settings {
			ts.Settings[i].ID, ts.Settings[i].Position = 0, i
		}
		for i := range ts.Conversions {
			ts.Conversions[i].ID, ts.Conversions[i].Position = 0, i
		}
		for i := range ts.SKUs.Rows {
			ts.SKUs.Rows[i].ID, ts.SKUs.Rows[i].Position = 0, i
		}
		for i := range ts.BOM {
			ts.BOM[i].ID, ts.BOM[i].Position = 0, i
		}
		for i := range ts.Recipes {
			ts.Recipes[i].ID, ts.Recipes[i].Position = 0, i
		}
		if err := insert(tx, []models.Setting(ts.Settings)); err != nil {
			return err
		}
		if err := insert(tx, ts.Conversions); err != nil {
			return err
		}
		if err := insert(tx, ts.SKUs.Rows); err != nil {
			return err
		}
		if err := insert(tx, ts.BOM); err != nil {
			return err
		}
		if err := insert(tx, ts.Recipes); err != nil {
			return err
		}

		flags := tableFlags{
			ID:          flagsRowID,
			HasUnitCost: ts.SKUs.HasUnitCost,
			HasMenu:     ts.Menu != nil,
			HasSalesMix: ts.SalesMix != nil,
		}
		if ts.Menu != nil {
			flags.HasSellPrice = ts.Menu.HasSellPrice
			flags.MenuExtraColumns = ts.Menu.ExtraColumns
			for i := range ts.Menu.Rows {
				ts.Menu.Rows[i].ID, ts.Menu.Rows[i].Position = 0, i
			}
			if err := insert(tx, ts.Menu.Rows); err != nil {
				return err
			}
		}
		if ts.SalesMix != nil {
			for i := range ts.SalesMix.Rows {
				ts.SalesMix.Rows[i].ID, ts.SalesMix.Rows[i].Position = 0, i
			}
			if err := insert(tx, ts.SalesMix.Rows); err != nil {
				return err
			}
		}
		return tx.Save(&flags).Error
	})
	if err != nil {
		return err
	}

	applog.Debug(ctx, "saved costing tables to database",
		"skus", len(ts.SKUs.Rows),
		"bomLines", len(ts.BOM),
		"recipes", len(ts.Recipes),
	)
	return nil
}

const insertBatchSize = 200

func insert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
		var zero T
		return fmt.Errorf("insert %T rows: %w", zero, err)
	}
	return nil
}

// String names the backing store for logs.
func (s *GormStore) String() string {
	return "database"
}
