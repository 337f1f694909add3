package rocketmq

import (
	"context"
	"fmt"
	"os"

	rmq "github.com/apache/rocketmq-clients/golang/v5"
	"github.com/go-kratos/kratos/v2/log"
)

func init() {
	if err := os.Setenv("mq.consoleAppender.enabled", "true"); err != nil {
		panic(err)
	}
	rmq.ResetLogger()
}

// TransactionResolution is the verdict for a half message.
type TransactionResolution = rmq.TransactionResolution

// TransactionResolution values.
const (
	ResolutionCommit   = rmq.COMMIT
	ResolutionRollback = rmq.ROLLBACK
	ResolutionUnknown  = rmq.UNKNOWN
)

// TransactionChecker is asked by the broker to resolve a half message whose
// transaction outcome never arrived, e.g. because the producer crashed
// between the database commit and the message commit.
type TransactionChecker func(msg *MessageView) TransactionResolution

// SendReceipt contains the result of a message send operation.
type SendReceipt struct {
	MessageID     string
	TransactionID string
	Offset        int64
}

// Message represents a message to be sent to RocketMQ.
type Message struct {
	Topic string
	Body  []byte
	Keys  []string // Message keys for filtering/lookup
	Tag   string   // Message tag for filtering
}

// client is the part of rmq.Producer the Producer relies on.
type client interface {
	Send(ctx context.Context, msg *rmq.Message) ([]*rmq.SendReceipt, error)
	SendWithTransaction(ctx context.Context, msg *rmq.Message, tx rmq.Transaction) ([]*rmq.SendReceipt, error)
	BeginTransaction() rmq.Transaction
}

// Producer wraps RocketMQ v5 producer for sending messages.
type Producer struct {
	client client
	log    *log.Helper
	cfg    *Config
}

// NewProducer creates and starts a RocketMQ v5 producer. A non-nil checker
// enables transactional messages.
func NewProducer(cfg *Config, topics []string, checker TransactionChecker, logger log.Logger) (*Producer, func(), error) {
	logHelper := log.NewHelper(log.With(logger, "module", "pkg/rocketmq"))

	configureSSL(cfg.EnableSSL)

	opts := []rmq.ProducerOption{
		rmq.WithMaxAttempts(cfg.MaxAttempts),
	}

	if len(topics) > 0 {
		opts = append(opts, rmq.WithTopics(topics...))
	}

	if checker != nil {
		opts = append(opts, rmq.WithTransactionChecker(&rmq.TransactionChecker{
			Check: func(msg *rmq.MessageView) rmq.TransactionResolution {
				resolution := checker(msg)
				logHelper.Infof("checked half message %s, resolution=%v", msg.GetMessageId(), resolution)
				return resolution
			},
		}))
	}

	p, err := rmq.NewProducer(cfg.ToRMQConfig(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create rocketmq producer: %w", err)
	}

	if err := p.Start(); err != nil {
		return nil, nil, fmt.Errorf("start rocketmq producer: %w", err)
	}

	logHelper.Infof("rocketmq producer started, endpoint=%s", cfg.Endpoint)

	cleanup := func() {
		logHelper.Info("shutting down rocketmq producer")
		if err := p.GracefulStop(); err != nil {
			logHelper.Errorf("shutdown rocketmq producer: %v", err)
		}
	}

	return newProducer(p, cfg, logger), cleanup, nil
}

func newProducer(c client, cfg *Config, logger log.Logger) *Producer {
	return &Producer{
		client: c,
		log:    log.NewHelper(log.With(logger, "module", "pkg/rocketmq")),
		cfg:    cfg,
	}
}

// Send sends a message outside of any transaction.
func (p *Producer) Send(ctx context.Context, msg *Message) (*SendReceipt, error) {
	ctx, cancel := p.withSendTimeout(ctx)
	defer cancel()

	m := toRMQMessage(msg)
	receipts, err := p.client.Send(ctx, m)
	return p.receipt(ctx, m, receipts, err)
}

// sendHalf sends msg as a half message of tx.
func (p *Producer) sendHalf(ctx context.Context, msg *Message, tx rmq.Transaction) (*SendReceipt, error) {
	ctx, cancel := p.withSendTimeout(ctx)
	defer cancel()

	m := toRMQMessage(msg)
	receipts, err := p.client.SendWithTransaction(ctx, m, tx)
	return p.receipt(ctx, m, receipts, err)
}

func (p *Producer) withSendTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg == nil || p.cfg.SendTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.SendTimeout)
}

func (p *Producer) receipt(ctx context.Context, msg *rmq.Message, receipts []*rmq.SendReceipt, err error) (*SendReceipt, error) {
	if err != nil {
		p.log.WithContext(ctx).Errorf("send to %s failed: %v", msg.Topic, err)
		return nil, fmt.Errorf("send message: %w", err)
	}

	if len(receipts) == 0 {
		return nil, fmt.Errorf("send message: no receipt returned")
	}

	result := receipts[0]
	p.log.WithContext(ctx).Debugf("sent to %s, msgId=%s", msg.Topic, result.MessageID)

	return &SendReceipt{
		MessageID:     result.MessageID,
		TransactionID: result.TransactionId,
		Offset:        result.Offset,
	}, nil
}

func toRMQMessage(msg *Message) *rmq.Message {
	m := &rmq.Message{
		Topic: msg.Topic,
		Body:  msg.Body,
	}
	if len(msg.Keys) > 0 {
		m.SetKeys(msg.Keys...)
	}
	if msg.Tag != "" {
		m.SetTag(msg.Tag)
	}
	return m
}
