package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/vidpress/internal/common"
)

// TxState describes where a transaction handle is in its lifecycle.
type TxState int

const (
	TxActive TxState = iota
	TxCommitted
	TxAborted
)

func (s TxState) String() string {
	switch s {
	case TxActive:
		return "active"
	case TxCommitted:
		return "committed"
	case TxAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Tx wraps *sql.Tx with explicit lifecycle tracking. A handle moves from
// active to exactly one of committed or aborted; statements issued after a
// terminal state are rejected with common.ErrTransactionClosed, and Rollback
// is idempotent so cleanup paths may call it unconditionally.
type Tx struct {
	mu    sync.Mutex
	tx    *sql.Tx
	state TxState
}

// Begin opens a transaction against db. A begin failure (e.g. pool
// exhaustion, store unreachable) is reported as ErrTransactionStartFailed.
func Begin(ctx context.Context, db *sql.DB, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransactionStartFailed, err)
	}
	return &Tx{tx: tx, state: TxActive}, nil
}

// State reports the current lifecycle state.
func (t *Tx) State() TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Commit durably applies all writes issued through the handle. On driver
// failure the underlying transaction is rolled back, the handle transitions
// to aborted and ErrCommitFailed is returned, so the caller never has to
// guess whether a failed commit left writes behind.
func (t *Tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxActive {
		return fmt.Errorf("%w: commit in state %s", common.ErrTransactionClosed, t.state)
	}

	if err := t.tx.Commit(); err != nil {
		t.state = TxAborted
		_ = t.tx.Rollback()
		return fmt.Errorf("%w: %v", common.ErrCommitFailed, err)
	}

	t.state = TxCommitted
	return nil
}

// Rollback discards all writes issued through the handle. Calling it on a
// terminal handle is a no-op, which lets deferred cleanup run on every path.
func (t *Tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxActive {
		return nil
	}

	t.state = TxAborted
	return t.tx.Rollback()
}

// ExecContext implements DBTX.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxActive {
		return nil, fmt.Errorf("%w: exec in state %s", common.ErrTransactionClosed, t.state)
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext implements DBTX.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TxActive {
		return nil, fmt.Errorf("%w: query in state %s", common.ErrTransactionClosed, t.state)
	}
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBTX.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	// *sql.Row carries its error internally, so a closed handle still has to
	// return a row the caller can Scan. Issue the query through the dead
	// transaction; the driver reports it as done.
	return t.tx.QueryRowContext(ctx, query, args...)
}
