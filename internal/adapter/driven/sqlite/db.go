// Package sqlite implements the driven storage ports on SQLite through the
// sqlhelper command API.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ericfisherdev/loginform/internal/sqlhelper"
)

const (
	// DriverModernc is the pure-Go driver, always available.
	DriverModernc = "sqlite"
	// DriverCgo is github.com/mattn/go-sqlite3, registered only in cgo builds.
	DriverCgo = "sqlite3"

	cgoScheme  = "sqlite3://"
	pureScheme = "sqlite://"
)

// ParseConnString splits a connection string into a database/sql driver name
// and a driver-specific DSN. "sqlite3://path" selects the cgo driver,
// "sqlite://path" or a bare path selects the pure-Go one. Bare file paths get
// WAL mode, a busy timeout, synchronous NORMAL, foreign keys and a 64MB cache.
// DSNs that already carry a "file:" prefix or query string are passed through.
func ParseConnString(connStr string) (driver, dsn string) {
	driver = DriverModernc
	switch {
	case strings.HasPrefix(connStr, cgoScheme):
		driver = DriverCgo
		connStr = strings.TrimPrefix(connStr, cgoScheme)
	case strings.HasPrefix(connStr, pureScheme):
		connStr = strings.TrimPrefix(connStr, pureScheme)
	}

	if connStr == ":memory:" || strings.HasPrefix(connStr, "file:") || strings.Contains(connStr, "?") {
		return driver, connStr
	}

	if driver == DriverCgo {
		return driver, fmt.Sprintf(
			"file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=on&_cache_size=-64000",
			connStr,
		)
	}
	return driver, fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		connStr,
	)
}

// NewDB opens a Helper for the connection string and verifies connectivity.
// The pool is limited to a single connection to avoid "database is locked"
// errors; a transaction therefore owns the database until it ends.
func NewDB(ctx context.Context, connStr string, logger *slog.Logger) (*sqlhelper.Helper, error) {
	driver, dsn := ParseConnString(connStr)
	if !slices.Contains(sql.Drivers(), driver) {
		return nil, fmt.Errorf("sql driver %q not registered (the cgo driver needs CGO_ENABLED=1)", driver)
	}

	h := sqlhelper.New(driver, dsn,
		sqlhelper.WithLogger(logger),
		sqlhelper.WithMaxOpenConns(1),
	)
	if err := h.Open(ctx); err != nil {
		return nil, err
	}
	return h, nil
}
