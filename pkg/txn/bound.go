package txn

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

//go:generate mockgen -source=bound.go -destination=txnmock/connections.go -package=txnmock

// Connections is the transaction-management surface of a data access layer.
// Every call is keyed by a connection alias; Enter returns the context that
// the remaining calls of the same scope must receive.
type Connections interface {
	Enter(ctx context.Context, alias string) (context.Context, error)
	SetManaged(ctx context.Context, alias string, managed bool) error
	IsDirty(ctx context.Context, alias string) bool
	Commit(ctx context.Context, alias string) error
	Rollback(ctx context.Context, alias string) error
	Leave(ctx context.Context, alias string) error
}

var _ Transaction = (*Bound)(nil)

// Bound is a Transaction bound to one alias of a Connections implementation.
type Bound struct {
	conns Connections
	alias string
	log   *log.Helper
}

// NewBound returns a Bound for alias. An empty alias means DefaultAlias.
func NewBound(conns Connections, alias string, logger log.Logger) *Bound {
	if alias == "" {
		alias = DefaultAlias
	}
	return &Bound{
		conns: conns,
		alias: alias,
		log:   log.NewHelper(log.With(logger, "module", "pkg/txn", "alias", alias)),
	}
}

// Alias returns the connection alias b manages.
func (b *Bound) Alias() string {
	return b.alias
}

// Start enters transaction management and marks the connection managed.
func (b *Bound) Start(ctx context.Context) (context.Context, error) {
	txCtx, err := b.conns.Enter(ctx, b.alias)
	if err != nil {
		return ctx, fmt.Errorf("enter transaction management on %q: %w", b.alias, err)
	}

	if err := b.conns.SetManaged(txCtx, b.alias, true); err != nil {
		err = fmt.Errorf("set %q managed: %w", b.alias, err)
		if leaveErr := b.leave(txCtx); leaveErr != nil {
			err = errors.Join(err, leaveErr)
		}
		return ctx, err
	}
	return txCtx, nil
}

// Commit commits pending changes. A failed commit is followed by a rollback
// and the commit failure is returned. Transaction management is always left.
func (b *Bound) Commit(ctx context.Context) (err error) {
	defer func() {
		if leaveErr := b.leave(ctx); leaveErr != nil {
			err = errors.Join(err, leaveErr)
		}
	}()

	if !b.conns.IsDirty(ctx, b.alias) {
		return nil
	}

	if err := b.conns.Commit(ctx, b.alias); err != nil {
		if rbErr := b.conns.Rollback(ctx, b.alias); rbErr != nil {
			b.log.WithContext(ctx).Errorf("rollback after failed commit: %v", rbErr)
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

// Rollback discards pending changes. Transaction management is always left.
func (b *Bound) Rollback(ctx context.Context) (err error) {
	defer func() {
		if leaveErr := b.leave(ctx); leaveErr != nil {
			err = errors.Join(err, leaveErr)
		}
	}()

	if !b.conns.IsDirty(ctx, b.alias) {
		return nil
	}
	return b.conns.Rollback(ctx, b.alias)
}

func (b *Bound) leave(ctx context.Context) error {
	if err := b.conns.Leave(ctx, b.alias); err != nil {
		return fmt.Errorf("leave transaction management on %q: %w", b.alias, err)
	}
	return nil
}
