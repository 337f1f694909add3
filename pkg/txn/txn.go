// Package txn demarcates units of work with start, commit and rollback.
//
// A Transaction is driven by Run: Start runs before the work, then exactly
// one of Commit or Rollback runs depending on how the work ended. Noop does
// nothing at all; Bound delegates to a Connections implementation such as
// pkg/orm, pkg/cache or pkg/rocketmq.
package txn

import (
	"context"
	"errors"
	"fmt"
)

// DefaultAlias names the connection used when no alias is given.
const DefaultAlias = "default"

var (
	// ErrNested is returned when an alias is entered twice in the same scope.
	ErrNested = errors.New("txn: connection is already under transaction management")
	// ErrNotManaged is returned for operations on an alias that was never entered or already left.
	ErrNotManaged = errors.New("txn: connection is not under transaction management")
)

// Transaction is the capability set driven by Run.
type Transaction interface {
	// Start enters the transaction and returns the context carrying its scope.
	Start(ctx context.Context) (context.Context, error)
	// Commit finishes a scope whose work succeeded.
	Commit(ctx context.Context) error
	// Rollback finishes a scope whose work failed.
	Rollback(ctx context.Context) error
}

// Run executes fn inside t.
//
// If Start fails, fn is not called and neither Commit nor Rollback runs.
// When fn returns nil, Commit runs. When fn returns an error or panics,
// Rollback runs; the error is returned and the panic is re-raised.
func Run(ctx context.Context, t Transaction, fn func(ctx context.Context) error) error {
	txCtx, err := t.Start(ctx)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}

	finished := false
	defer func() {
		if p := recover(); p != nil {
			if !finished {
				_ = t.Rollback(txCtx)
			}
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		finished = true
		if rbErr := t.Rollback(txCtx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	finished = true
	if err := t.Commit(txCtx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
