// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/logging"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// queryTimeout bounds every catalog query.
const queryTimeout = 30 * time.Second

// DB wraps the SQL connection and provides data access methods
type DB struct {
	conn   *sql.DB
	driver string
	logger zerolog.Logger
}

// New opens the configured database and brings the schema up to date.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverDuckDB
	}

	dsn, err := dataSourceName(driver, cfg)
	if err != nil {
		return nil, err
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if !isMemoryPath(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		driver: driver,
		logger: logging.WithComponent("database"),
	}
	db.configureConnectionPool(cfg)

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	path := cfg.Path
	if isMemoryPath(path) {
		path = ":memory:"
	}
	db.logger.Info().Str("driver", driver).Str("path", path).Msg("Database ready")

	return db, nil
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:"
}

// dataSourceName builds the driver connection string.
func dataSourceName(driver string, cfg *config.DatabaseConfig) (string, error) {
	switch driver {
	case DriverDuckDB:
		path := cfg.Path
		if isMemoryPath(path) {
			path = ""
		}
		threads := cfg.Threads
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		dsn := fmt.Sprintf("%s?threads=%d", path, threads)
		if cfg.MaxMemory != "" {
			dsn += "&max_memory=" + cfg.MaxMemory
		}
		return dsn, nil
	case DriverSQLite:
		// modernc.org/sqlite uses _pragma=name(value) syntax
		if isMemoryPath(cfg.Path) {
			return "file::memory:?_pragma=busy_timeout(5000)", nil
		}
		return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// configureConnectionPool sets connection pool parameters.
// An in-memory SQLite database exists per connection, so it is pinned to one.
func (db *DB) configureConnectionPool(cfg *config.DatabaseConfig) {
	if db.driver == DriverSQLite && isMemoryPath(cfg.Path) {
		db.conn.SetMaxOpenConns(1)
		db.conn.SetMaxIdleConns(1)
		return
	}
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize verifies the connection and applies pending migrations.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return db.runVersionedMigrations(ctx)
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
