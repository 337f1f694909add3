package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

var (
	// ErrUnknownAlias is returned for aliases that were not configured.
	ErrUnknownAlias = errors.New("orm: unknown database alias")
	// ErrUncommittedChanges is returned by Leave when a dirty transaction was still open.
	ErrUncommittedChanges = errors.New("orm: left transaction management with uncommitted changes")
)

var _ txn.Connections = (*Connections)(nil)

// Connections holds one gorm handle per alias and implements
// txn.Connections on top of gorm transactions.
type Connections struct {
	dbs     map[string]*gorm.DB
	closers []*sql.DB
}

// scope is the per-alias state between Enter and Leave.
type scope struct {
	ctx     context.Context // context the transaction is begun with
	root    *gorm.DB
	tx      *gorm.DB
	managed bool
	dirty   bool
}

// Open dials every configured alias.
func Open(cfgs map[string]*DBConfig) (*Connections, error) {
	c := &Connections{dbs: make(map[string]*gorm.DB, len(cfgs))}
	for alias, cfg := range cfgs {
		db, sqlDB, err := openConnection(cfg, true)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("open database %q: %w", alias, err)
		}
		c.closers = append(c.closers, sqlDB)
		if err := c.add(alias, db); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// NewConnections wraps already opened gorm handles. The caller keeps
// ownership of the underlying pools.
func NewConnections(dbs map[string]*gorm.DB) (*Connections, error) {
	c := &Connections{dbs: make(map[string]*gorm.DB, len(dbs))}
	for alias, db := range dbs {
		if err := c.add(alias, db); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// add registers db under alias and installs the dirty-tracking callbacks.
func (c *Connections) add(alias string, db *gorm.DB) error {
	if alias == "" {
		alias = txn.DefaultAlias
	}
	if _, ok := c.dbs[alias]; ok {
		return fmt.Errorf("orm: duplicate database alias %q", alias)
	}

	name := "txn:mark_dirty:" + alias
	mark := func(stmt *gorm.DB) { c.markDirty(stmt, alias) }
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().After("gorm:create").Register(name, mark),
		cb.Update().After("gorm:update").Register(name, mark),
		cb.Delete().After("gorm:delete").Register(name, mark),
		cb.Raw().After("gorm:raw").Register(name, mark),
	} {
		if err != nil {
			return fmt.Errorf("register dirty callback for %q: %w", alias, err)
		}
	}

	c.dbs[alias] = db
	return nil
}

// markDirty flags the scope of alias when stmt ran on its transaction.
func (c *Connections) markDirty(stmt *gorm.DB, alias string) {
	if stmt.Error != nil || stmt.Statement == nil || stmt.Statement.Context == nil {
		return
	}
	s, err := txn.Lookup[*scope](stmt.Statement.Context, c, alias)
	if err != nil || s.tx == nil {
		return
	}
	if stmt.Statement.ConnPool == s.tx.Statement.ConnPool {
		s.dirty = true
	}
}

// Aliases returns the configured aliases in sorted order.
func (c *Connections) Aliases() []string {
	aliases := make([]string, 0, len(c.dbs))
	for alias := range c.dbs {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

func (c *Connections) root(alias string) (*gorm.DB, error) {
	db, ok := c.dbs[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return db, nil
}

// DB returns the handle to use for alias within ctx. Inside a managed scope
// the first call begins the transaction and every call returns it; outside
// one it returns an autocommit session.
func (c *Connections) DB(ctx context.Context, alias string) (*gorm.DB, error) {
	root, err := c.root(alias)
	if err != nil {
		return nil, err
	}

	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return root.WithContext(ctx), nil
	}
	if s.tx == nil {
		if !s.managed {
			return root.WithContext(ctx), nil
		}
		tx := root.WithContext(s.ctx).Begin()
		if tx.Error != nil {
			return nil, fmt.Errorf("begin transaction on %q: %w", alias, tx.Error)
		}
		s.tx = tx
	}
	return s.tx.WithContext(ctx), nil
}

// Enter starts transaction management for alias.
func (c *Connections) Enter(ctx context.Context, alias string) (context.Context, error) {
	root, err := c.root(alias)
	if err != nil {
		return ctx, err
	}
	s := &scope{root: root}
	scoped, err := txn.Enter(ctx, c, alias, s)
	if err != nil {
		return ctx, err
	}
	s.ctx = scoped
	return scoped, nil
}

// SetManaged toggles whether DB begins a transaction for alias.
func (c *Connections) SetManaged(ctx context.Context, alias string, managed bool) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	s.managed = managed
	return nil
}

// IsDirty reports whether the transaction of alias has uncommitted writes.
func (c *Connections) IsDirty(ctx context.Context, alias string) bool {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return false
	}
	return s.dirty
}

// Commit commits the open transaction of alias, if any.
func (c *Connections) Commit(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	if s.tx == nil {
		return nil
	}
	if err := s.tx.Commit().Error; err != nil {
		// keep s.tx so that the compensating Rollback sees it
		return fmt.Errorf("commit %q: %w", alias, err)
	}
	s.tx = nil
	s.dirty = false
	return nil
}

// Rollback rolls back the open transaction of alias, if any.
func (c *Connections) Rollback(ctx context.Context, alias string) error {
	s, err := txn.Lookup[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	return s.rollback(alias)
}

// Leave ends transaction management for alias. A transaction still open at
// this point is rolled back; if it held writes, ErrUncommittedChanges is returned.
func (c *Connections) Leave(ctx context.Context, alias string) error {
	s, err := txn.Leave[*scope](ctx, c, alias)
	if err != nil {
		return err
	}
	dirty := s.tx != nil && s.dirty
	if err := s.rollback(alias); err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w on %q", ErrUncommittedChanges, alias)
	}
	return nil
}

func (s *scope) rollback(alias string) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	s.dirty = false
	// database/sql has already ended a transaction whose commit failed
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback %q: %w", alias, err)
	}
	return nil
}

// Close closes the pools opened by Open.
func (c *Connections) Close() error {
	var errs []error
	for _, sqlDB := range c.closers {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
