// Package cache binds txn to redis MULTI/EXEC pipelines.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is the configuration for one redis alias.
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// pingTimeout bounds the connectivity check done by Open.
const pingTimeout = 10 * time.Second

// Open builds one client per alias and pings each of them.
func Open(ctx context.Context, cfgs map[string]*Config) (*Connections, error) {
	clients := make(map[string]redis.Cmdable, len(cfgs))
	var opened []*redis.Client
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}

	for alias, cfg := range cfgs {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
		})
		opened = append(opened, rdb)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("ping redis %q: %w", alias, err)
		}
		clients[alias] = rdb
	}

	c, err := NewConnections(clients)
	if err != nil {
		closeAll()
		return nil, err
	}
	c.close = func() error {
		var errs []error
		for _, rdb := range opened {
			if err := rdb.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return c, nil
}
