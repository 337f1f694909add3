package txn

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// Manager runs units of work inside one Transaction.
// It satisfies the InTx-shaped interfaces declared by the biz layer.
type Manager struct {
	tx  Transaction
	log *log.Helper
}

// NewManager returns a Manager driving tx.
func NewManager(tx Transaction, logger log.Logger) *Manager {
	return &Manager{
		tx:  tx,
		log: log.NewHelper(log.With(logger, "module", "pkg/txn")),
	}
}

// NewNoopManager returns a Manager that does no transaction management.
func NewNoopManager(logger log.Logger) *Manager {
	return NewManager(Noop{}, logger)
}

// InTx executes fn within a transaction.
func (m *Manager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := Run(ctx, m.tx, fn); err != nil {
		m.log.WithContext(ctx).Debugf("transaction aborted: %v", err)
		return err
	}
	return nil
}
