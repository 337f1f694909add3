package biz

import "context"

// Transaction is the interface for managing database transactions.
// Defined in biz layer, implemented by data/infra layer.
type Transaction interface {
	InTx(context.Context, func(ctx context.Context) error) error
}

// CacheTransaction groups balance cache writes so they apply together.
type CacheTransaction interface {
	InTx(context.Context, func(ctx context.Context) error) error
}

// EventTransaction holds published events back until the unit of work succeeds.
type EventTransaction interface {
	InTx(context.Context, func(ctx context.Context) error) error
}
