package sqlhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Dialect turns a stored-procedure name into executable SQL text.
type Dialect interface {
	ProcedureCall(ctx context.Context, q Queryer, name string, nargs int) (string, error)
}

// SQLiteDialect resolves procedures from a catalog table, since SQLite has
// no native stored procedures. The body is run with the caller's arguments.
type SQLiteDialect struct {
	// Catalog is the table holding (name, body) rows. Defaults to "stored_procedures".
	Catalog string
}

// ProcedureCall looks the procedure body up through q, so lookups made inside
// a transaction see procedures created in it.
func (d SQLiteDialect) ProcedureCall(ctx context.Context, q Queryer, name string, _ int) (string, error) {
	catalog := d.Catalog
	if catalog == "" {
		catalog = "stored_procedures"
	}

	var body string
	err := q.QueryRowContext(ctx, "SELECT body FROM "+catalog+" WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", ErrProcedureNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("resolve procedure %q: %w", name, err)
	}
	return body, nil
}

// CallDialect produces "CALL name(?, ?, ...)" for servers with native procedures.
type CallDialect struct{}

// ProcedureCall builds the CALL statement with one placeholder per argument.
func (CallDialect) ProcedureCall(_ context.Context, _ Queryer, name string, nargs int) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyCommand
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", nargs), ", ")
	return "CALL " + name + "(" + placeholders + ")", nil
}
