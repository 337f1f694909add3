package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/guoxiaopeng875/txscope/internal/conf"
	"github.com/guoxiaopeng875/txscope/pkg/cache"
	"github.com/guoxiaopeng875/txscope/pkg/orm"
	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData, NewEvents,
	NewTransaction, NewCacheTransaction, NewEventTransaction,
	NewAccountRepo, NewBalanceCache, NewTransferEventRepo,
	NewTransferChecker,
)

// Data is the data layer dependency container. Repos reach the stores
// through DB and Cache so that they join whatever transaction scope ctx carries.
type Data struct {
	dbs        *orm.Connections
	caches     *cache.Connections
	dbAlias    string
	cacheAlias string
}

// DB returns the gorm handle of the configured database alias for ctx.
func (d *Data) DB(ctx context.Context) (*gorm.DB, error) {
	return d.dbs.DB(ctx, d.dbAlias)
}

// Cache returns the redis command target of the configured cache alias for ctx.
func (d *Data) Cache(ctx context.Context) (redis.Cmdable, error) {
	return d.caches.Cmd(ctx, d.cacheAlias)
}

// NewData opens every configured database and redis alias and returns a cleanup function.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	logHelper := log.NewHelper(log.With(logger, "module", "data"))
	if c == nil {
		c = &conf.Data{}
	}

	if mode := c.Transaction.GetMode(); mode != conf.TransactionModeBound && mode != conf.TransactionModeNoop {
		return nil, nil, fmt.Errorf("unknown transaction mode %q", mode)
	}

	dbCfgs := make(map[string]*orm.DBConfig, len(c.Databases))
	for alias, db := range c.Databases {
		if db == nil {
			return nil, nil, fmt.Errorf("database %q has no configuration", alias)
		}
		dbCfgs[alias] = &orm.DBConfig{
			Driver:          db.Driver,
			Username:        db.Username,
			Password:        db.Password,
			Host:            db.Host,
			Port:            fmt.Sprintf("%d", db.Port),
			DBName:          db.DbName,
			MaxIdleConns:    int(db.MaxIdleConns),
			MaxOpenConns:    int(db.MaxOpenConns),
			DBCharset:       db.DbCharset,
			SSLMode:         db.SslMode,
			ConnMaxLifetime: db.ConnMaxLifetime.AsDuration(),
			ConnMaxIdleTime: db.ConnMaxIdleTime.AsDuration(),
		}
	}
	dbs, err := orm.Open(dbCfgs)
	if err != nil {
		logHelper.Errorf("failed to open databases: %v", err)
		return nil, nil, err
	}

	cacheCfgs := make(map[string]*cache.Config, len(c.Redis))
	for alias, r := range c.Redis {
		if r == nil {
			_ = dbs.Close()
			return nil, nil, fmt.Errorf("redis %q has no configuration", alias)
		}
		cacheCfgs[alias] = &cache.Config{
			Addr:         r.Addr,
			Password:     r.Password,
			DB:           int(r.Db),
			DialTimeout:  r.DialTimeout.AsDuration(),
			ReadTimeout:  r.ReadTimeout.AsDuration(),
			WriteTimeout: r.WriteTimeout.AsDuration(),
		}
	}
	caches, err := cache.Open(context.Background(), cacheCfgs)
	if err != nil {
		logHelper.Errorf("failed to open redis: %v", err)
		_ = dbs.Close()
		return nil, nil, err
	}

	d := newData(dbs, caches, c.Transaction)
	logHelper.Infof("data ready, databases=%v, db alias=%s, cache alias=%s, transaction mode=%s",
		dbs.Aliases(), d.dbAlias, d.cacheAlias, c.Transaction.GetMode())

	cleanup := func() {
		logHelper.Info("closing the data resources")

		if err := caches.Close(); err != nil {
			logHelper.Errorf("failed to close redis data resources: %v", err)
		}

		if err := dbs.Close(); err != nil {
			logHelper.Errorf("failed to close database data resources: %v", err)
		}
	}

	return d, cleanup, nil
}

func newData(dbs *orm.Connections, caches *cache.Connections, tc *conf.Transaction) *Data {
	d := &Data{
		dbs:        dbs,
		caches:     caches,
		dbAlias:    txn.DefaultAlias,
		cacheAlias: txn.DefaultAlias,
	}
	if tc != nil {
		d.dbAlias = aliasOrDefault(tc.DbAlias)
		d.cacheAlias = aliasOrDefault(tc.CacheAlias)
	}
	return d
}

func aliasOrDefault(alias string) string {
	if alias == "" {
		return txn.DefaultAlias
	}
	return alias
}
