package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"costbook/internal/handlers"
	applog "costbook/internal/log"
	"costbook/internal/workspace"
)

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultCookieName      = "costbook_session"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr      string
	Session   SessionConfig
	Database  *gorm.DB
	Workspace *workspace.Workspace
	// WorkbookFileName is offered as the download name for the costing workbook.
	WorkbookFileName string
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server owns the http.Server that hosts the costing dashboard and API.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New wires sessions and handler dependencies and builds the server.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	cfg.Session = withSessionDefaults(cfg.Session)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime
	sessionManager.Cookie.Name = cfg.Session.CookieName
	sessionManager.Cookie.Domain = cfg.Session.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Session.CookieSecure

	handlers.Configure(sessionManager, cfg.Database, cfg.Workspace)
	handlers.SetWorkbookFileName(cfg.WorkbookFileName)

	applog.Debug(ctx, "server configured",
		"addr", cfg.Addr,
		"sessionCookie", cfg.Session.CookieName,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"workspace", cfg.Workspace != nil,
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           sessionManager.LoadAndSave(newRouter()),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func withSessionDefaults(cfg SessionConfig) SessionConfig {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultCookieName
	}
	return cfg
}

// Start serves HTTP traffic until the server is stopped.
func (s *Server) Start() error {
	applog.Info(context.Background(), "listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
