package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/repositories"
)

// txContextKey marks the context value holding an open transaction. Dual
// writes (load insert + counter bump, payment insert + paid-until projection)
// depend on every repository call inside InTransaction picking it up.
type txContextKey struct{}

// Executor abstracts over *sql.DB and *sql.Tx so repository queries run the
// same way inside and outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor picks the open transaction from ctx when one is present,
// falling back to the pooled connection.
func GetExecutor(ctx context.Context, db *DB) Executor {
	if tx, ok := ctx.Value(txContextKey{}).(*Transaction); ok {
		return tx.tx
	}
	return db.DB
}

// TransactionManager implements repositories.TransactionManager over
// database/sql transactions.
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// Begin opens a transaction tied to ctx.
func (tm *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	sqlTx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	tm.logger.Debug("transaction started")
	return &Transaction{tx: sqlTx, ctx: ctx, logger: tm.logger}, nil
}

// InTransaction runs fn with a transaction attached to its context,
// committing when fn returns nil and rolling back otherwise. fn's error is
// returned unwrapped so callers can still classify it.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	started, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	tx := started.(*Transaction)

	if err := fn(context.WithValue(ctx, txContextKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			tm.logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("original_error", err))
		}
		return err
	}

	return tx.Commit()
}

// Transaction wraps an *sql.Tx with its originating context.
type Transaction struct {
	tx     *sql.Tx
	ctx    context.Context
	logger *zap.Logger
}

func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.logger.Debug("transaction committed")
	return nil
}

// Rollback aborts the transaction. Rolling back a finished transaction is
// treated as a no-op.
func (t *Transaction) Rollback() error {
	switch err := t.tx.Rollback(); {
	case err == nil:
		t.logger.Debug("transaction rolled back")
		return nil
	case errors.Is(err, sql.ErrTxDone):
		return nil
	default:
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
}

func (t *Transaction) Context() context.Context {
	return t.ctx
}
