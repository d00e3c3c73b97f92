package sqlhelper

import (
	"context"
	"fmt"
)

// Begin opens a transaction. Until Commit or Rollback, every command on the
// Helper runs inside it. The transaction outlives ctx: cancelling ctx after
// Begin returns does not roll it back.
func (h *Helper) Begin(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tx != nil {
		return ErrTxActive
	}
	db, err := h.openLocked(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx, err := db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	h.tx = tx
	return nil
}

// Commit commits the active transaction.
func (h *Helper) Commit() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tx == nil {
		return ErrNoTx
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the active transaction.
func (h *Helper) Rollback() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tx == nil {
		return ErrNoTx
	}
	tx := h.tx
	h.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// InTx reports whether a transaction is active.
func (h *Helper) InTx() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tx != nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (h *Helper) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := h.Begin(ctx); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		if rbErr := h.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return h.Commit()
}
