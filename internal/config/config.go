package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for the costing tables.
const (
	StoreWorkbook = "workbook"
	StoreDatabase = "database"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Costing  CostingConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	UseMock         bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// AuthConfig controls the login gate.
type AuthConfig struct {
	Session SessionConfig
	// Bootstrap credentials are ensured as a user at startup when both are set.
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapName     string
}

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// CostingConfig selects where the tables live and how tax is backed out.
type CostingConfig struct {
	WorkbookPath string
	Store        string
	TaxMode      string
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			"sqlite:costbook.db",
		),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), false),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), 0),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), 0),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), 0),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), 0),
	}

	cfg.Logging = LoggingConfig{
		Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		Format: firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), 12*time.Hour),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), "costbook_session"),
			CookieDomain: strings.TrimSpace(os.Getenv("SESSION_COOKIE_DOMAIN")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), false),
		},
		BootstrapEmail:    strings.TrimSpace(os.Getenv("AUTH_EMAIL")),
		BootstrapPassword: os.Getenv("AUTH_PASSWORD"),
		BootstrapName:     firstNonEmpty(os.Getenv("AUTH_NAME"), "Kitchen"),
	}

	cfg.Costing = CostingConfig{
		WorkbookPath: firstNonEmpty(os.Getenv("COSTBOOK_WORKBOOK"), "Moustache_Costing_MVP.xlsx"),
		Store:        strings.ToLower(firstNonEmpty(os.Getenv("COSTBOOK_STORE"), defaultStore(cfg.Database.UseMock))),
		TaxMode:      strings.ToLower(firstNonEmpty(os.Getenv("COSTBOOK_TAX_MODE"), "fixed")),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	switch cfg.Costing.Store {
	case StoreWorkbook, StoreDatabase:
	default:
		return Config{}, fmt.Errorf("unknown COSTBOOK_STORE %q", cfg.Costing.Store)
	}

	if (cfg.Auth.BootstrapEmail == "") != (cfg.Auth.BootstrapPassword == "") {
		return Config{}, fmt.Errorf("AUTH_EMAIL and AUTH_PASSWORD must be set together")
	}

	return cfg, nil
}

// defaultStore keeps the tables next to the seeded sample when the mock database is on.
func defaultStore(useMock bool) string {
	if useMock {
		return StoreDatabase
	}
	return StoreWorkbook
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
