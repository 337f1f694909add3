package rocketmq

import (
	"context"
	"fmt"
	"time"

	rmq "github.com/apache/rocketmq-clients/golang/v5"
	"github.com/go-kratos/kratos/v2/log"
)

// MessageView represents a received message.
type MessageView = rmq.MessageView

// FilterExpression represents a message filter expression.
type FilterExpression = rmq.FilterExpression

// SubAll subscribes to all messages (tag = "*").
var SubAll = rmq.SUB_ALL

// SimpleConsumer pulls committed messages. Half messages are never
// delivered before their transaction commits.
type SimpleConsumer struct {
	client rmq.SimpleConsumer
	log    *log.Helper
}

// NewSimpleConsumer creates and starts a RocketMQ v5 simple consumer.
func NewSimpleConsumer(
	cfg *Config,
	awaitDuration time.Duration,
	subscriptions map[string]*FilterExpression,
	logger log.Logger,
) (*SimpleConsumer, func(), error) {
	logHelper := log.NewHelper(log.With(logger, "module", "pkg/rocketmq/consumer"))

	if len(subscriptions) == 0 {
		return nil, nil, fmt.Errorf("subscriptions cannot be empty")
	}

	configureSSL(cfg.EnableSSL)

	c, err := rmq.NewSimpleConsumer(cfg.ToRMQConfig(),
		rmq.WithSimpleAwaitDuration(awaitDuration),
		rmq.WithSimpleSubscriptionExpressions(subscriptions),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create rocketmq simple consumer: %w", err)
	}
	if err := c.Start(); err != nil {
		return nil, nil, fmt.Errorf("start rocketmq simple consumer: %w", err)
	}

	logHelper.Infof("rocketmq simple consumer started, endpoint=%s, group=%s",
		cfg.Endpoint, cfg.ConsumerGroup)

	cleanup := func() {
		logHelper.Info("shutting down rocketmq simple consumer")
		if err := c.GracefulStop(); err != nil {
			logHelper.Errorf("shutdown rocketmq simple consumer: %v", err)
		}
	}

	return &SimpleConsumer{client: c, log: logHelper}, cleanup, nil
}

// Receive receives up to maxMessageNum messages and acknowledges each one
// after handle returns nil.
func (c *SimpleConsumer) Receive(ctx context.Context, maxMessageNum int32, invisibleDuration time.Duration, handle func(*MessageView) error) error {
	msgs, err := c.client.Receive(ctx, maxMessageNum, invisibleDuration)
	if err != nil {
		return fmt.Errorf("receive messages: %w", err)
	}
	for _, msg := range msgs {
		if err := handle(msg); err != nil {
			c.log.WithContext(ctx).Warnf("handle message %s: %v", msg.GetMessageId(), err)
			continue
		}
		if err := c.client.Ack(ctx, msg); err != nil {
			return fmt.Errorf("ack message %s: %w", msg.GetMessageId(), err)
		}
	}
	return nil
}
