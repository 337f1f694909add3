package rocketmq

import (
	"strings"
	"sync"
	"time"

	rmq "github.com/apache/rocketmq-clients/golang/v5"
	"github.com/apache/rocketmq-clients/golang/v5/credentials"

	"github.com/guoxiaopeng875/txscope/internal/conf"
)

var sslOnce sync.Once

// configureSSL sets the global SSL flag once in a thread-safe manner.
// The first call determines the value; subsequent calls are no-ops.
func configureSSL(enable bool) {
	sslOnce.Do(func() {
		rmq.EnableSsl = enable
	})
}

// Config holds RocketMQ client configuration for v5 SDK.
type Config struct {
	Endpoint      string                          // gRPC endpoint (e.g., "127.0.0.1:8081")
	NameSpace     string                          // Optional namespace
	ConsumerGroup string                          // Consumer group name
	Credentials   *credentials.SessionCredentials // Authentication credentials
	SendTimeout   time.Duration                   // Message send timeout
	MaxAttempts   int32                           // Max retry attempts for producer
	EnableSSL     bool                            // Whether to enable SSL
}

// NewConfig creates a Config from the bootstrap configuration.
// name_servers is treated as the gRPC endpoint; only the first entry is used.
func NewConfig(c *conf.RocketMQ) *Config {
	cfg := &Config{
		ConsumerGroup: c.ProducerGroup,
		NameSpace:     c.Namespace,
		SendTimeout:   3 * time.Second,
		MaxAttempts:   3,
		EnableSSL:     c.EnableSsl,
		Credentials: &credentials.SessionCredentials{
			AccessKey:    c.AccessKey,
			AccessSecret: c.SecretKey,
		},
	}

	servers := strings.ReplaceAll(c.NameServers, ";", ",")
	parts := strings.Split(servers, ",")
	if len(parts) > 0 {
		cfg.Endpoint = strings.TrimSpace(parts[0])
	}

	if d := c.SendTimeout.AsDuration(); d > 0 {
		cfg.SendTimeout = d
	}
	if c.RetryTimes > 0 {
		cfg.MaxAttempts = c.RetryTimes
	}

	return cfg
}

// ToRMQConfig converts Config to RocketMQ v5 SDK Config.
func (c *Config) ToRMQConfig() *rmq.Config {
	return &rmq.Config{
		Endpoint:      c.Endpoint,
		NameSpace:     c.NameSpace,
		ConsumerGroup: c.ConsumerGroup,
		Credentials:   c.Credentials,
	}
}
