package txn

import "context"

var _ Transaction = Noop{}

// Noop is a Transaction that does no transaction management.
// It's useful where the backing store has no transactional semantics.
type Noop struct{}

// Start returns ctx unchanged.
func (Noop) Start(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// Commit does nothing.
func (Noop) Commit(context.Context) error {
	return nil
}

// Rollback does nothing.
func (Noop) Rollback(context.Context) error {
	return nil
}
