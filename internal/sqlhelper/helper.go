// Package sqlhelper wraps database/sql with a small command-oriented API:
// non-query, scalar, reader and table execution for plain SQL text and stored
// procedures, plus a single manually driven transaction slot. While a
// transaction is active every command is routed through it.
package sqlhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTxActive is returned by Begin when a transaction is already open.
	ErrTxActive = errors.New("sqlhelper: transaction already active")

	// ErrNoTx is returned by Commit and Rollback when no transaction is open.
	ErrNoTx = errors.New("sqlhelper: no active transaction")

	// ErrEmptyCommand is returned when the command text or procedure name is blank.
	ErrEmptyCommand = errors.New("sqlhelper: empty command")

	// ErrProcedureNotFound is returned by a Dialect that cannot resolve a procedure name.
	ErrProcedureNotFound = errors.New("sqlhelper: stored procedure not found")
)

// CommandType selects how command text is interpreted.
type CommandType int

const (
	// CommandText executes the text as-is.
	CommandText CommandType = iota
	// CommandStoredProcedure treats the text as a procedure name resolved by the Dialect.
	CommandStoredProcedure
)

// String returns the lower-case name used in log output.
func (t CommandType) String() string {
	switch t {
	case CommandText:
		return "text"
	case CommandStoredProcedure:
		return "procedure"
	default:
		return fmt.Sprintf("CommandType(%d)", int(t))
	}
}

// Queryer is the subset of *sql.DB and *sql.Tx used to run commands.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Helper owns one connection pool and at most one active transaction.
type Helper struct {
	driver  string
	connStr string
	dialect Dialect
	logger  *slog.Logger
	maxOpen int

	mu sync.Mutex
	db *sql.DB
	tx *sql.Tx
}

// Option configures a Helper.
type Option func(*Helper)

// WithDialect sets the dialect used to resolve stored procedures.
// The default is SQLiteDialect.
func WithDialect(d Dialect) Option {
	return func(h *Helper) { h.dialect = d }
}

// WithLogger sets the logger used for per-command debug output. A nil
// logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Helper) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxOpenConns caps the pool size. Zero leaves the driver default.
func WithMaxOpenConns(n int) Option {
	return func(h *Helper) { h.maxOpen = n }
}

// New creates a Helper for the given database/sql driver name and connection
// string. No connection is made until Open or the first command.
func New(driver, connStr string, opts ...Option) *Helper {
	h := &Helper{
		driver:  driver,
		connStr: connStr,
		dialect: SQLiteDialect{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Driver returns the database/sql driver name.
func (h *Helper) Driver() string { return h.driver }

// Open opens and pings the pool if it is not open yet. Calling Open on an
// open Helper is a no-op.
func (h *Helper) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.openLocked(ctx)
	return err
}

func (h *Helper) openLocked(ctx context.Context) (*sql.DB, error) {
	if h.db != nil {
		return h.db, nil
	}

	db, err := sql.Open(h.driver, h.connStr)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.driver, err)
	}
	if h.maxOpen > 0 {
		db.SetMaxOpenConns(h.maxOpen)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", h.driver, err)
	}

	h.db = db
	return db, nil
}

// DB returns the underlying pool, opening it if needed.
func (h *Helper) DB(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openLocked(ctx)
}

// Close rolls back a dangling transaction and closes the pool. Closing a
// closed Helper is a no-op.
func (h *Helper) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var firstErr error
	if h.tx != nil {
		if err := h.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			firstErr = fmt.Errorf("rollback on close: %w", err)
		}
		h.tx = nil
	}
	if h.db != nil {
		if err := h.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", h.driver, err)
		}
		h.db = nil
	}
	return firstErr
}

// Ping verifies the database is reachable.
func (h *Helper) Ping(ctx context.Context) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// queryer returns the active transaction, or the pool when none is open.
func (h *Helper) queryer(ctx context.Context) (Queryer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tx != nil {
		return h.tx, nil
	}
	return h.openLocked(ctx)
}

// command resolves the executable SQL text for a command. Callers reject
// blank text before reaching here; a procedure whose resolved body is blank
// is rejected the same way.
func (h *Helper) command(ctx context.Context, q Queryer, text string, typ CommandType, nargs int) (string, error) {
	if typ != CommandStoredProcedure {
		return text, nil
	}
	stmt, err := h.dialect.ProcedureCall(ctx, q, text, nargs)
	if err != nil {
		return "", err
	}
	if isBlank(stmt) {
		return "", fmt.Errorf("%w: procedure %q has no body", ErrEmptyCommand, text)
	}
	return stmt, nil
}

// isBlank reports whether text holds nothing but whitespace, semicolons and
// SQL comments. Such text compiles to no statement at all.
func isBlank(text string) bool {
	for i := 0; i < len(text); {
		switch {
		case strings.IndexByte(" \t\r\n\f\v;", text[i]) >= 0:
			i++
		case strings.HasPrefix(text[i:], "--"):
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return true
			}
			i += end + 1
		case strings.HasPrefix(text[i:], "/*"):
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return true
			}
			i += end + 4
		default:
			return false
		}
	}
	return true
}

func (h *Helper) trace(op string, typ CommandType, text string, nargs int, start time.Time, err error) {
	attrs := []any{
		"op", op,
		"type", typ.String(),
		"command", text,
		"args", nargs,
		"duration", time.Since(start).Round(time.Microsecond),
	}
	if err != nil {
		h.logger.Debug("sql command failed", append(attrs, "error", err)...)
		return
	}
	h.logger.Debug("sql command", attrs...)
}
