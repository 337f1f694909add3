package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

// ErrUnknownAlias is returned for aliases that were not configured.
var ErrUnknownAlias = errors.New("cache: unknown redis alias")

var _ txn.Connections = (*Connections)(nil)

// Connections implements txn.Connections over redis transactions.
// Inside a managed scope commands are queued in a MULTI/EXEC pipeline,
// so their results are only available after commit.
type Connections struct {
	clients map[string]redis.Cmdable
	close   func() error
}

type scope struct {
	client  redis.Cmdable
	pipe    redis.Pipeliner
	managed bool
}

// NewConnections wraps existing clients keyed by alias. An empty alias
// means txn.DefaultAlias.
func NewConnections(clients map[string]redis.Cmdable) (*Connections, error) {
	c := &Connections{clients: make(map[string]redis.Cmdable, len(clients))}
	for alias, client := range clients {
		if alias == "" {
			alias = txn.DefaultAlias
		}
		if _, ok := c.clients[alias]; ok {
			return nil, fmt.Errorf("cache: duplicate redis alias %q", alias)
		}
		c.clients[alias] = client
	}
	return c, nil
}

func (c *Connections) client(alias string) (redis.Cmdable, error) {
	client, ok := c.clients[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return client, nil
}

// Cmd returns the command target for alias within ctx: the scope pipeline
// inside a managed scope, the client otherwise.
func (c *Connections) Cmd(ctx context.Context, alias string) (redis.Cmdable, error) {
	client, err := c.client(alias)
	if err != nil {
		return nil, err
	}

	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil || !s.managed {
		return client, nil
	}
	if s.pipe == nil {
		s.pipe = client.TxPipeline()
	}
	return s.pipe, nil
}

// Enter starts transaction management for alias.
func (c *Connections) Enter(ctx context.Context, alias string) (context.Context, error) {
	client, err := c.client(alias)
	if err != nil {
		return ctx, err
	}
	return txn.Enter(ctx, c, alias, &scope{client: client})
}

// SetManaged toggles whether Cmd queues commands for alias.
func (c *Connections) SetManaged(ctx context.Context, alias string, managed bool) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	s.managed = managed
	return nil
}

// IsDirty reports whether commands are queued for alias.
func (c *Connections) IsDirty(ctx context.Context, alias string) bool {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil || s.pipe == nil {
		return false
	}
	return s.pipe.Len() > 0
}

// Commit sends the queued commands as one MULTI/EXEC block.
func (c *Connections) Commit(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	if s.pipe == nil {
		return nil
	}
	cmds, err := s.pipe.Exec(ctx)
	if err == nil {
		return nil
	}
	// Exec only reports the first failed command; a missing key reported by
	// a queued read is not a failure and must not hide the ones after it.
	var errs []error
	for _, cmd := range cmds {
		if cmdErr := cmd.Err(); cmdErr != nil && !errors.Is(cmdErr, redis.Nil) {
			errs = append(errs, cmdErr)
		}
	}
	if len(errs) == 0 && !errors.Is(err, redis.Nil) {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("exec %q: %w", alias, errors.Join(errs...))
}

// Rollback discards the commands still queued. Redis has no rollback for an
// EXEC that already ran: when a commit failed, the commands that succeeded
// inside it stay applied.
func (c *Connections) Rollback(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	if s.pipe != nil {
		s.pipe.Discard()
	}
	return nil
}

// Leave ends transaction management for alias, discarding anything still queued.
func (c *Connections) Leave(ctx context.Context, alias string) error {
	s, err := txn.Leave[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	if s.pipe != nil {
		s.pipe.Discard()
		s.pipe = nil
	}
	return nil
}

// Close closes the clients opened by Open.
func (c *Connections) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}
