// Package db provides the measurement-range data source and size history storage.
// It runs on sqlite (default), postgres or mysql through database/sql and sqlx.
package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	apperrors "size-convert/internal/errors"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Store is the range data source and history store
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and creates the schema if needed
func Open(ctx context.Context, driverName, dsn string, maxOpenConns int) (*Store, error) {
	if driverName == DriverSQLite && dsn != "" && !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, apperrors.Config("create database directory", err)
		}
	}

	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, apperrors.Config("open "+driverName, err)
	}
	if driverName == DriverSQLite {
		// sqlite allows one writer at a time
		conn.SetMaxOpenConns(1)
	} else if maxOpenConns > 0 {
		conn.SetMaxOpenConns(maxOpenConns)
	}

	s := New(conn, driverName)
	if err := s.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection without migrating it
func New(conn *sqlx.DB, driverName string) *Store {
	return &Store{db: conn, driver: driverName}
}

// Migrate creates tables and indexes that do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	stmts, ok := schemas[s.driver]
	if !ok {
		return apperrors.Newf(apperrors.TypeConfig, "no schema for driver %q", s.driver)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return classify("migrate", err)
		}
	}
	return nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Unavailable("ping", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the driver name
func (s *Store) Driver() string {
	return s.driver
}

// classify maps driver errors onto the domain error types
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.Wrap(apperrors.TypeNotFound, op, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return apperrors.Unavailable(op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.Unavailable(op, err)
	}
	return apperrors.Query(op, err)
}
