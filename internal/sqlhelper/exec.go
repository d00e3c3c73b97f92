package sqlhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// errNoResult is returned when the driver produced no sql.Result.
var errNoResult = errors.New("driver returned no result")

// ExecNonQuery runs a statement and returns the number of rows affected.
func (h *Helper) ExecNonQuery(ctx context.Context, query string, args ...any) (int64, error) {
	return h.nonQuery(ctx, query, CommandText, args)
}

// ExecProcNonQuery runs a stored procedure and returns the number of rows affected.
func (h *Helper) ExecProcNonQuery(ctx context.Context, proc string, args ...any) (int64, error) {
	return h.nonQuery(ctx, proc, CommandStoredProcedure, args)
}

// ExecScalar returns the first column of the first row, or nil when the
// query produced no rows.
func (h *Helper) ExecScalar(ctx context.Context, query string, args ...any) (any, error) {
	return h.scalar(ctx, query, CommandText, args)
}

// ExecProcScalar is ExecScalar for a stored procedure.
func (h *Helper) ExecProcScalar(ctx context.Context, proc string, args ...any) (any, error) {
	return h.scalar(ctx, proc, CommandStoredProcedure, args)
}

// ExecScalarInt runs ExecScalar and converts the result to an integer.
// A nil scalar converts to 0.
func (h *Helper) ExecScalarInt(ctx context.Context, query string, args ...any) (int64, error) {
	v, err := h.ExecScalar(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return ToInt64(v)
}

// ExecProcScalarInt is ExecScalarInt for a stored procedure.
func (h *Helper) ExecProcScalarInt(ctx context.Context, proc string, args ...any) (int64, error) {
	v, err := h.ExecProcScalar(ctx, proc, args...)
	if err != nil {
		return 0, err
	}
	return ToInt64(v)
}

// ExecReader runs a query and returns the open result set. The caller must
// close the rows.
func (h *Helper) ExecReader(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return h.reader(ctx, query, CommandText, args)
}

// ExecProcReader is ExecReader for a stored procedure.
func (h *Helper) ExecProcReader(ctx context.Context, proc string, args ...any) (*sql.Rows, error) {
	return h.reader(ctx, proc, CommandStoredProcedure, args)
}

// ExecTable runs a query and buffers the whole result set.
func (h *Helper) ExecTable(ctx context.Context, query string, args ...any) (*Table, error) {
	return h.table(ctx, query, CommandText, args)
}

// ExecProcTable is ExecTable for a stored procedure.
func (h *Helper) ExecProcTable(ctx context.Context, proc string, args ...any) (*Table, error) {
	return h.table(ctx, proc, CommandStoredProcedure, args)
}

func (h *Helper) nonQuery(ctx context.Context, text string, typ CommandType, args []any) (n int64, err error) {
	start := time.Now()
	defer func() { h.trace("non-query", typ, text, len(args), start, err) }()

	if isBlank(text) {
		return 0, ErrEmptyCommand
	}
	q, err := h.queryer(ctx)
	if err != nil {
		return 0, err
	}
	stmt, err := h.command(ctx, q, text, typ, len(args))
	if err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("exec %s: %w", typ, err)
	}
	n, err = rowsAffected(res)
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// rowsAffected reads the affected-row count. Some drivers hand back no
// result for statements that compile to nothing, which makes
// sql.Result.RowsAffected panic.
func rowsAffected(res sql.Result) (n int64, err error) {
	if res == nil {
		return 0, errNoResult
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errNoResult, r)
		}
	}()
	return res.RowsAffected()
}

func (h *Helper) scalar(ctx context.Context, text string, typ CommandType, args []any) (v any, err error) {
	start := time.Now()
	defer func() { h.trace("scalar", typ, text, len(args), start, err) }()

	if isBlank(text) {
		return nil, ErrEmptyCommand
	}
	q, err := h.queryer(ctx)
	if err != nil {
		return nil, err
	}
	stmt, err := h.command(ctx, q, text, typ, len(args))
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query scalar %s: %w", typ, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query scalar %s: %w", typ, err)
		}
		return nil, nil
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("scalar columns: %w", err)
	}
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan scalar: %w", err)
	}
	if len(dest) == 0 {
		return nil, nil
	}
	return normalize(dest[0]), nil
}

func (h *Helper) reader(ctx context.Context, text string, typ CommandType, args []any) (rows *sql.Rows, err error) {
	start := time.Now()
	defer func() { h.trace("reader", typ, text, len(args), start, err) }()

	if isBlank(text) {
		return nil, ErrEmptyCommand
	}
	q, err := h.queryer(ctx)
	if err != nil {
		return nil, err
	}
	stmt, err := h.command(ctx, q, text, typ, len(args))
	if err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", typ, err)
	}
	return rows, nil
}

func (h *Helper) table(ctx context.Context, text string, typ CommandType, args []any) (*Table, error) {
	rows, err := h.reader(ctx, text, typ, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t, err := ReadTable(rows)
	if err != nil {
		return nil, fmt.Errorf("fill table: %w", err)
	}
	return t, nil
}

// ToInt64 converts a scalar produced by a driver into an int64. Integers,
// floats without a fractional part, numeric strings and byte slices are
// accepted; nil converts to 0.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("scalar %v is not an integer", n)
		}
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("scalar %q is not an integer: %w", n, err)
		}
		return i, nil
	case []byte:
		return ToInt64(string(n))
	default:
		return 0, fmt.Errorf("scalar of type %T is not an integer", v)
	}
}

// normalize copies driver-owned byte slices so they outlive the row.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return append([]byte(nil), b...)
	}
	return v
}
