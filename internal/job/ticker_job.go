package job

import (
	"context"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// TickerJob runs a unit of work on a fixed interval and plugs into the
// kratos app lifecycle as a transport.Server.
// Stop is safe to call multiple times.
type TickerJob struct {
	name             string
	log              *log.Helper
	interval         time.Duration
	stopCh           chan struct{}
	stopOnce         sync.Once
	executeImmediate bool
	executeFn        func(ctx context.Context) error
	wg               sync.WaitGroup
}

func newTickerJob(name string, interval time.Duration, logger log.Logger, executeFn func(ctx context.Context) error, executeImmediate bool) *TickerJob {
	return &TickerJob{
		name:             name,
		log:              log.NewHelper(log.With(logger, "module", "job/"+name)),
		interval:         interval,
		stopCh:           make(chan struct{}),
		executeFn:        executeFn,
		executeImmediate: executeImmediate,
	}
}

// Start implements transport.Server. It blocks until Stop or ctx is done.
func (j *TickerJob) Start(ctx context.Context) error {
	j.log.Infof("%s started, interval: %s", j.name, j.interval)

	if j.executeImmediate {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			j.execute(ctx)
		}()
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Infof("%s stopped by context", j.name)
			j.wg.Wait()
			return ctx.Err()
		case <-j.stopCh:
			j.log.Infof("%s stopped", j.name)
			j.wg.Wait()
			return nil
		case <-ticker.C:
			j.wg.Add(1)
			j.execute(ctx)
			j.wg.Done()
		}
	}
}

// execute runs one round; a failed round is logged and retried on the next tick.
func (j *TickerJob) execute(ctx context.Context) {
	started := time.Now()
	if err := j.executeFn(ctx); err != nil {
		j.log.WithContext(ctx).Errorf("%s failed after %s: %v", j.name, time.Since(started), err)
		return
	}
	j.log.WithContext(ctx).Debugf("%s done in %s", j.name, time.Since(started))
}

// Stop implements transport.Server.
func (j *TickerJob) Stop(_ context.Context) error {
	j.stopOnce.Do(func() {
		close(j.stopCh)
	})
	return nil
}
