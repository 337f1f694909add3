package rocketmq

import (
	"context"
	"errors"
	"fmt"

	rmq "github.com/apache/rocketmq-clients/golang/v5"

	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

var (
	// ErrUnknownAlias is returned for aliases that were not configured.
	ErrUnknownAlias = errors.New("rocketmq: unknown producer alias")
	// ErrTransactionFull is returned when a second message is sent in one
	// transaction; the v5 client carries a single half message per transaction.
	ErrTransactionFull = errors.New("rocketmq: transaction already carries a message")
	// ErrUncommittedMessage is returned by Leave when a half message was still pending.
	ErrUncommittedMessage = errors.New("rocketmq: left transaction management with a pending half message")
)

var _ txn.Connections = (*Transactions)(nil)

// Transactions implements txn.Connections over transactional producers keyed
// by alias. Inside a managed scope Send delivers half messages that become
// visible to consumers only on commit.
type Transactions struct {
	producers map[string]*Producer
}

type scope struct {
	producer *Producer
	tx       rmq.Transaction
	sent     int
	managed  bool
}

// NewTransactions wraps producers keyed by alias. An empty alias means txn.DefaultAlias.
func NewTransactions(producers map[string]*Producer) (*Transactions, error) {
	t := &Transactions{producers: make(map[string]*Producer, len(producers))}
	for alias, p := range producers {
		if alias == "" {
			alias = txn.DefaultAlias
		}
		if _, ok := t.producers[alias]; ok {
			return nil, fmt.Errorf("rocketmq: duplicate producer alias %q", alias)
		}
		t.producers[alias] = p
	}
	return t, nil
}

func (t *Transactions) producer(alias string) (*Producer, error) {
	p, ok := t.producers[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return p, nil
}

// Send publishes msg through the producer of alias, as a half message when
// ctx carries a managed scope for alias.
func (t *Transactions) Send(ctx context.Context, alias string, msg *Message) (*SendReceipt, error) {
	p, err := t.producer(alias)
	if err != nil {
		return nil, err
	}

	s, err := txn.Lookup[*scope](ctx, t, alias)
	if err != nil || !s.managed {
		return p.Send(ctx, msg)
	}
	if s.sent > 0 {
		return nil, ErrTransactionFull
	}
	if s.tx == nil {
		s.tx = p.client.BeginTransaction()
	}

	receipt, err := p.sendHalf(ctx, msg, s.tx)
	if err != nil {
		return nil, err
	}
	s.sent++
	return receipt, nil
}

// Enter starts transaction management for alias.
func (t *Transactions) Enter(ctx context.Context, alias string) (context.Context, error) {
	p, err := t.producer(alias)
	if err != nil {
		return ctx, err
	}
	return txn.Enter(ctx, t, alias, &scope{producer: p})
}

// SetManaged toggles whether Send uses a transaction for alias.
func (t *Transactions) SetManaged(ctx context.Context, alias string, managed bool) error {
	s, err := txn.Lookup[*scope](ctx, t, alias)
	if err != nil {
		return err
	}
	s.managed = managed
	return nil
}

// IsDirty reports whether a half message is pending for alias.
func (t *Transactions) IsDirty(ctx context.Context, alias string) bool {
	s, err := txn.Lookup[*scope](ctx, t, alias)
	if err != nil {
		return false
	}
	return s.sent > 0
}

// Commit makes the pending half message visible to consumers. The v5 client
// only logs a failed end-transaction request to the broker, so such failures
// are not returned here; the broker settles them later through the producer's
// transaction checker.
func (t *Transactions) Commit(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, t, alias)
	if err != nil {
		return err
	}
	if s.tx == nil {
		return nil
	}
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction on %q: %w", alias, err)
	}
	s.tx = nil
	s.sent = 0
	return nil
}

// Rollback withdraws the pending half message.
func (t *Transactions) Rollback(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, t, alias)
	if err != nil {
		return err
	}
	return s.rollback(alias)
}

// Leave ends transaction management for alias, withdrawing anything still pending.
func (t *Transactions) Leave(ctx context.Context, alias string) error {
	s, err := txn.Leave[*scope](ctx, t, alias)
	if err != nil {
		return err
	}
	pending := s.sent > 0
	if err := s.rollback(alias); err != nil {
		return err
	}
	if pending {
		return fmt.Errorf("%w on %q", ErrUncommittedMessage, alias)
	}
	return nil
}

func (s *scope) rollback(alias string) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	s.sent = 0
	if err := tx.RollBack(); err != nil {
		return fmt.Errorf("rollback transaction on %q: %w", alias, err)
	}
	return nil
}
