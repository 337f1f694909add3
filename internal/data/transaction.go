package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/guoxiaopeng875/txscope/internal/biz"
	"github.com/guoxiaopeng875/txscope/internal/conf"
	"github.com/guoxiaopeng875/txscope/pkg/env"
	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

// envTxnDisabled switches every store to the no-op transaction when true.
const envTxnDisabled = "TXN_DISABLED"

// NewTransaction returns the transaction used for database units of work.
func NewTransaction(c *conf.Data, d *Data, logger log.Logger) biz.Transaction {
	return newManager(transactionConf(c), d.dbs, d.dbAlias, logger)
}

// NewCacheTransaction returns the transaction used for balance cache writes.
func NewCacheTransaction(c *conf.Data, d *Data, logger log.Logger) biz.CacheTransaction {
	return newManager(transactionConf(c), d.caches, d.cacheAlias, logger)
}

// NewEventTransaction returns the transaction used for transfer events.
// Without a configured producer there is nothing to bind, so it is a no-op.
func NewEventTransaction(c *conf.Data, e *Events, logger log.Logger) biz.EventTransaction {
	if !e.Enabled() {
		return txn.NewNoopManager(logger)
	}
	return newManager(transactionConf(c), e.tx, e.alias, logger)
}

func newManager(tc *conf.Transaction, conns txn.Connections, alias string, logger log.Logger) *txn.Manager {
	if !transactionsEnabled(tc) {
		return txn.NewNoopManager(logger)
	}
	return txn.NewManager(txn.NewBound(conns, alias, logger), logger)
}

func transactionsEnabled(tc *conf.Transaction) bool {
	if env.GetBool(envTxnDisabled, false) {
		return false
	}
	return tc.GetMode() != conf.TransactionModeNoop
}

func transactionConf(c *conf.Data) *conf.Transaction {
	if c == nil {
		return nil
	}
	return c.Transaction
}
