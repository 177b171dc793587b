package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"costbook/internal/config"
	"costbook/internal/costing"
	"costbook/internal/db"
	"costbook/internal/db/mock"
	applog "costbook/internal/log"
	"costbook/internal/server"
	"costbook/internal/workbook"
	"costbook/internal/workspace"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadEnvFunc          = loadDotEnv
	loadConfigFunc       = config.Load
	setLogLevelFunc      = applog.SetLevel
	setLogFormatFunc     = applog.SetFormat
	newMockDatabaseFunc  = mock.New
	configureDatabase    = db.Configure
	ensureUserFunc       = db.EnsureUser
	openWorkspaceFunc    = openWorkspace
	newServerFunc        = newServer
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	if err := loadEnvFunc(); err != nil {
		applog.Error(ctx, "failed to read .env", "error", err)
		return 1
	}

	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}
	if cfg.Logging.Format != "" {
		if err := setLogFormatFunc(cfg.Logging.Format); err != nil {
			applog.Error(ctx, "invalid log format", "format", cfg.Logging.Format, "error", err)
			return 1
		}
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using mock database", "email", mock.DemoEmail)
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	if cfg.Auth.BootstrapEmail != "" {
		if _, err := ensureUserFunc(ctx, database, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapName, cfg.Auth.BootstrapPassword); err != nil {
			applog.Error(ctx, "failed to bootstrap user", "email", cfg.Auth.BootstrapEmail, "error", err)
			return 1
		}
	}

	ws, err := openWorkspaceFunc(ctx, cfg, database)
	if err != nil {
		applog.Error(ctx, "failed to open workspace", "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Database:         database,
		Workspace:        ws,
		WorkbookFileName: filepath.Base(cfg.Costing.WorkbookPath),
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh, stop := subscribeShutdownSig()
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server stopped unexpectedly", "error", err)
			return 1
		}
		return 0
	case sig := <-sigCh:
		applog.Info(ctx, "shutting down", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server stopped with error", "error", err)
		return 1
	}
	return 0
}

// openWorkspace builds the engine and store from cfg and loads the tables. Only a
// broken configuration is fatal; missing or invalid data leaves the workspace open
// so a workbook can be uploaded.
func openWorkspace(ctx context.Context, cfg config.Config, database *gorm.DB) (*workspace.Workspace, error) {
	mode, err := costing.ParseTaxMode(cfg.Costing.TaxMode)
	if err != nil {
		return nil, err
	}
	engine := costing.New(costing.WithTaxMode(mode))

	var store workspace.Store
	switch cfg.Costing.Store {
	case config.StoreDatabase:
		store = db.NewGormStore(database)
	default:
		store = workbook.NewFileStore(cfg.Costing.WorkbookPath)
	}

	ws, err := workspace.Open(ctx, store, engine)
	switch {
	case err == nil:
		applog.Info(ctx, "costing data loaded", "store", store, "taxMode", mode.String())
	case errors.Is(err, workspace.ErrNoData):
		applog.Info(ctx, "no costing data yet, waiting for an upload", "store", store)
	default:
		applog.Warn(ctx, "costing data could not be loaded", "store", store, "error", err)
	}
	return ws, nil
}

func newServer(cfg server.Config) (serverLifecycle, error) {
	return server.New(cfg)
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
