package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quote-service/internal/shared"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Pool size for file-backed SQLite stores
const (
	sqliteMaxOpenConns = 8
	sqliteMaxIdleConns = 4
)

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/postgres.sql
var postgresSchema string

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Store struct {
	db       *sqlx.DB
	driver   string
	location string
}

// NewStore opens a database store at location using driver.
// For sqlite the location is a file path (or ":memory:"), for postgres a connection URL.
func NewStore(driver, location string) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch driver {
	case DriverSQLite:
		db, err = connectSQLite(location)
	case DriverPostgres:
		db, err = connectPostgres(location)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
	if err != nil {
		return nil, err
	}

	return &Store{db: db, driver: driver, location: location}, nil
}

func connectSQLite(location string) (*sqlx.DB, error) {
	if !strings.HasPrefix(location, ":") && !strings.HasPrefix(location, "file:") {
		if dir := filepath.Dir(location); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	sep := "?"
	if strings.Contains(location, "?") {
		sep = "&"
	}
	dsn := location + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	memory := isMemoryLocation(location)
	if !memory {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.Connect(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if memory {
		// every connection to :memory: would see its own empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(sqliteMaxOpenConns)
		db.SetMaxIdleConns(sqliteMaxIdleConns)
	}
	db.SetConnMaxLifetime(0)

	return db, nil
}

func isMemoryLocation(location string) bool {
	return location == ":memory:" || strings.Contains(location, "mode=memory")
}

func connectPostgres(location string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverPostgres, location)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Driver returns the driver name the store was opened with
func (s *Store) Driver() string {
	return s.driver
}

// Location returns the path or URL the store was opened at
func (s *Store) Location() string {
	return s.location
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates any missing tables
func (s *Store) Migrate(ctx context.Context) error {
	ddl := sqliteSchema
	if s.driver == DriverPostgres {
		ddl = postgresSchema
	}

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// in expands an IN (?) query for ids and rebinds it for the store's driver
func (s *Store) in(query string, ids []int64) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return "", nil, shared.StoreError("build in query", err)
	}
	return s.db.Rebind(query), args, nil
}
