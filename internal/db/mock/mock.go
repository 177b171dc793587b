package mock

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"costbook/internal/costing"
	"costbook/internal/db"
	applog "costbook/internal/log"
)

// Demo credentials seeded into the mock database.
const (
	DemoEmail    = "chef@costbook.local"
	DemoPassword = "moustache"
	DemoName     = "Sam Kitchen"
)

// New returns an in-memory sqlite database seeded with a demo user and the costed
// sample dataset. Calling it again reuses the same shared database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:costbook-mock?mode=memory&cache=shared"), db.Options(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	if _, err := db.EnsureUser(ctx, database, DemoEmail, DemoName, DemoPassword); err != nil {
		return err
	}

	sample, err := Sample()
	if err != nil {
		return err
	}
	computed, err := costing.Recompute(sample)
	if err != nil {
		return err
	}
	if err := db.NewGormStore(database).Save(ctx, computed); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "recipes", len(computed.Recipes))
	return nil
}
