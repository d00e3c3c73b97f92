package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/ericfisherdev/loginform/internal/sqlhelper"
)

// setupTestDB creates a named shared in-memory SQLite database for testing
// with all migrations applied. A unique name derived from t.Name() ensures
// isolation between parallel tests.
func setupTestDB(t *testing.T) *sqlhelper.Helper {
	t.Helper()

	// Percent-encode the test name so it's a safe SQLite URI filename component
	// and cannot be misinterpreted as query parameters in the "file:%s?..." DSN.
	safeName := url.PathEscape(t.Name())
	// WAL mode is not applicable to in-memory databases; omit journal_mode pragma.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		safeName,
	)

	h := sqlhelper.New(DriverModernc, dsn, sqlhelper.WithMaxOpenConns(1))
	db, err := h.DB(context.Background())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		_ = h.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = h.Close() })

	return h
}
