package txn

import "context"

// scopeKey identifies the management state of one alias of one Connections
// implementation inside a context.
type scopeKey struct {
	owner any
	alias string
}

type scope[T any] struct {
	state T
	left  bool
}

// Enter attaches state for alias to ctx on behalf of owner, which must be a
// comparable value such as the Connections pointer. It fails with ErrNested
// when ctx already carries an open scope for the same owner and alias.
func Enter[T any](ctx context.Context, owner any, alias string, state T) (context.Context, error) {
	key := scopeKey{owner: owner, alias: alias}
	if s, ok := ctx.Value(key).(*scope[T]); ok && !s.left {
		return ctx, ErrNested
	}
	return context.WithValue(ctx, key, &scope[T]{state: state}), nil
}

// Lookup returns the state of the open scope for alias.
func Lookup[T any](ctx context.Context, owner any, alias string) (T, error) {
	s, ok := ctx.Value(scopeKey{owner: owner, alias: alias}).(*scope[T])
	if !ok || s.left {
		var zero T
		return zero, ErrNotManaged
	}
	return s.state, nil
}

// Leave closes the scope for alias and returns its final state.
// Later calls to Lookup or Leave for the same scope fail with ErrNotManaged.
func Leave[T any](ctx context.Context, owner any, alias string) (T, error) {
	s, ok := ctx.Value(scopeKey{owner: owner, alias: alias}).(*scope[T])
	if !ok || s.left {
		var zero T
		return zero, ErrNotManaged
	}
	s.left = true
	return s.state, nil
}
