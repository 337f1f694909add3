package data

import (
	"context"
	"strconv"

	"github.com/guoxiaopeng875/txscope/internal/biz"
)

const balanceKeyPrefix = "account:balance:"

func balanceKey(id int64) string {
	return balanceKeyPrefix + strconv.FormatInt(id, 10)
}

type balanceCache struct {
	data *Data
}

// NewBalanceCache .
func NewBalanceCache(data *Data) biz.BalanceCache {
	return &balanceCache{data: data}
}

func (c *balanceCache) PutBalance(ctx context.Context, a *biz.Account) error {
	cmd, err := c.data.Cache(ctx)
	if err != nil {
		return err
	}
	// inside a cache transaction this only queues the command
	return cmd.Set(ctx, balanceKey(a.ID), a.Balance, 0).Err()
}
