// Package conf holds the bootstrap configuration scanned by kratos config.
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the configuration file.
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Rocketmq *RocketMQ `json:"rocketmq"`
	Job      *Job      `json:"job"`
}

// Server configures the transports.
type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

// Server_HTTP configures the HTTP transport.
type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Server_GRPC configures the gRPC transport.
type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data configures the stores and how transactions are demarcated on them.
// Databases and Redis are keyed by connection alias.
type Data struct {
	Databases   map[string]*Database `json:"databases"`
	Redis       map[string]*Redis    `json:"redis"`
	Transaction *Transaction         `json:"transaction"`
}

// Database configures one gorm connection.
type Database struct {
	Driver          string   `json:"driver"`
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	Host            string   `json:"host"`
	Port            int32    `json:"port"`
	DbName          string   `json:"db_name"`
	DbCharset       string   `json:"db_charset"`
	SslMode         string   `json:"ssl_mode"`
	MaxIdleConns    int32    `json:"max_idle_conns"`
	MaxOpenConns    int32    `json:"max_open_conns"`
	ConnMaxLifetime Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime Duration `json:"conn_max_idle_time"`
}

// Redis configures one redis client.
type Redis struct {
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	Db           int32    `json:"db"`
	DialTimeout  Duration `json:"dial_timeout"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Transaction modes.
const (
	TransactionModeBound = "bound"
	TransactionModeNoop  = "noop"
)

// Transaction selects the transaction variant per store.
// Mode is "bound" (default) or "noop"; aliases default to "default".
type Transaction struct {
	Mode        string `json:"mode"`
	DbAlias     string `json:"db_alias"`
	CacheAlias  string `json:"cache_alias"`
	EventsAlias string `json:"events_alias"`
}

// GetMode returns the configured mode, defaulting to bound.
func (t *Transaction) GetMode() string {
	if t == nil || t.Mode == "" {
		return TransactionModeBound
	}
	return t.Mode
}

// RocketMQ configures the transfer event producer. An empty NameServers
// disables event publishing.
type RocketMQ struct {
	NameServers   string   `json:"name_servers"`
	Namespace     string   `json:"namespace"`
	ProducerGroup string   `json:"producer_group"`
	AccessKey     string   `json:"access_key"`
	SecretKey     string   `json:"secret_key"`
	EnableSsl     bool     `json:"enable_ssl"`
	SendTimeout   Duration `json:"send_timeout"`
	RetryTimes    int32    `json:"retry_times"`
	TransferTopic string   `json:"transfer_topic"`
}

// Job configures background jobs.
type Job struct {
	SnapshotInterval Duration `json:"snapshot_interval"`
}

// Duration is a time.Duration read from either a string such as "1.5s"
// or a number of nanoseconds.
type Duration struct {
	time.Duration
}

// AsDuration returns the wrapped duration; a nil receiver yields zero.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
