// Package postgis implements maps.MapReader against a PostGIS-backed road
// network schema, mirroring the layout of the original Python project's
// example_postgres_map: a lines table and a nodes table, both carrying a
// PostGIS geometry column, with proximity queried through ST_DWithin.
//
// A Reader is backed by sqlx over the pgx stdlib driver, with an optional
// go-redis read-through cache in front of single-id lookups.
package postgis

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DSNConfig assembles a libpq-style connection string the way a service's
// config layer would, instead of asking callers to hand-format one.
type DSNConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders cfg as a libpq key=value connection string. SSLMode defaults
// to "disable" when empty.
func (cfg DSNConfig) DSN() string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode,
	)
}

// DB bundles the connection pool with the logger every repository method
// reports query failures through.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Open connects to Postgres via the pgx driver and wraps the pool in a DB.
func Open(dsn string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgis database: %w", err)
	}
	return &DB{DB: conn, logger: logger}, nil
}
