package data

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/guoxiaopeng875/txscope/internal/biz"
	"github.com/guoxiaopeng875/txscope/internal/conf"
	"github.com/guoxiaopeng875/txscope/pkg/rocketmq"
)

const (
	defaultTransferTopic = "account_transfer"
	transferTag          = "transfer"
	// checkTimeout bounds the database lookup behind a broker check.
	checkTimeout = 5 * time.Second
)

// Events publishes transfer events through a RocketMQ transactional
// producer. The zero value is disabled and drops events.
type Events struct {
	tx    *rocketmq.Transactions
	alias string
	topic string
}

// Enabled reports whether a producer is configured.
func (e *Events) Enabled() bool {
	return e != nil && e.tx != nil
}

// NewEvents starts the transfer event producer. An empty name server list
// disables publishing.
func NewEvents(c *conf.RocketMQ, d *conf.Data, checker rocketmq.TransactionChecker, logger log.Logger) (*Events, func(), error) {
	logHelper := log.NewHelper(log.With(logger, "module", "data/events"))
	if c == nil || c.NameServers == "" {
		logHelper.Info("rocketmq not configured, transfer events are disabled")
		return &Events{}, func() {}, nil
	}

	topic := c.TransferTopic
	if topic == "" {
		topic = defaultTransferTopic
	}
	var alias string
	if d != nil && d.Transaction != nil {
		alias = d.Transaction.EventsAlias
	}
	alias = aliasOrDefault(alias)

	producer, cleanup, err := rocketmq.NewProducer(rocketmq.NewConfig(c), []string{topic}, checker, logger)
	if err != nil {
		return nil, nil, err
	}
	tx, err := rocketmq.NewTransactions(map[string]*rocketmq.Producer{alias: producer})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &Events{tx: tx, alias: alias, topic: topic}, cleanup, nil
}

// transferEvent is the body of a transfer message.
type transferEvent struct {
	ID        string    `json:"id"`
	From      int64     `json:"from"`
	To        int64     `json:"to"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type transferEventRepo struct {
	events *Events
	codec  encoding.Codec
	log    *log.Helper
}

// NewTransferEventRepo .
func NewTransferEventRepo(events *Events, logger log.Logger) biz.TransferEventRepo {
	return &transferEventRepo{
		events: events,
		codec:  encoding.GetCodec(json.Name),
		log:    log.NewHelper(log.With(logger, "module", "data/events")),
	}
}

func (r *transferEventRepo) PublishTransfer(ctx context.Context, t *biz.Transfer) error {
	if !r.events.Enabled() {
		r.log.WithContext(ctx).Debugf("transfer events disabled, dropping %s", t.ID)
		return nil
	}

	body, err := r.codec.Marshal(&transferEvent{
		ID:        t.ID,
		From:      t.From,
		To:        t.To,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, err = r.events.tx.Send(ctx, r.events.alias, &rocketmq.Message{
		Topic: r.events.topic,
		Body:  body,
		Keys:  []string{t.ID},
		Tag:   transferTag,
	})
	return err
}

// NewTransferChecker resolves half messages the broker could not settle:
// the event commits iff its transfer row was committed.
func NewTransferChecker(repo biz.AccountRepo, logger log.Logger) rocketmq.TransactionChecker {
	logHelper := log.NewHelper(log.With(logger, "module", "data/events"))
	return func(msg *rocketmq.MessageView) rocketmq.TransactionResolution {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		return resolveTransfer(ctx, repo, msg.GetKeys(), logHelper)
	}
}

func resolveTransfer(ctx context.Context, repo biz.AccountRepo, keys []string, logHelper *log.Helper) rocketmq.TransactionResolution {
	if len(keys) == 0 {
		logHelper.Warn("half message without transfer id, rolling back")
		return rocketmq.ResolutionRollback
	}
	exists, err := repo.TransferExists(ctx, keys[0])
	if err != nil {
		logHelper.Errorf("check transfer %s: %v", keys[0], err)
		return rocketmq.ResolutionUnknown
	}
	if !exists {
		return rocketmq.ResolutionRollback
	}
	return rocketmq.ResolutionCommit
}
