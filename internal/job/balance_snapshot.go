package job

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/guoxiaopeng875/txscope/internal/biz"
	"github.com/guoxiaopeng875/txscope/internal/conf"
)

const defaultSnapshotInterval = time.Minute

// BalanceSnapshotJob periodically mirrors every account balance into the cache.
type BalanceSnapshotJob struct {
	*TickerJob
}

// NewBalanceSnapshotJob creates the job; a zero interval falls back to one minute.
func NewBalanceSnapshotJob(c *conf.Job, uc *biz.AccountUsecase, logger log.Logger) *BalanceSnapshotJob {
	interval := defaultSnapshotInterval
	if c != nil {
		if d := c.SnapshotInterval.AsDuration(); d > 0 {
			interval = d
		}
	}
	helper := log.NewHelper(log.With(logger, "module", "job/balance-snapshot"))
	return &BalanceSnapshotJob{
		TickerJob: newTickerJob("balance-snapshot", interval, logger, func(ctx context.Context) error {
			n, err := uc.SnapshotBalances(ctx)
			if err != nil {
				return err
			}
			helper.WithContext(ctx).Debugf("snapshotted %d balances", n)
			return nil
		}, true),
	}
}
