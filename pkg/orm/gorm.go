package orm

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DBConfig is the configuration for one database alias
type DBConfig struct {
	Driver          string
	Username        string
	Password        string
	Host            string
	Port            string
	DBName          string
	MaxIdleConns    int
	MaxOpenConns    int
	DBCharset       string
	SSLMode         string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MultiStatements bool
}

// getDriver returns the driver, defaulting to mysql
func (c *DBConfig) getDriver() string {
	if c.Driver == "" {
		return DriverMySQL
	}
	return c.Driver
}

// getCharset returns the charset, defaulting to utf8mb4
func (c *DBConfig) getCharset() string {
	if c.DBCharset == "" {
		return "utf8mb4"
	}
	return c.DBCharset
}

// getSSLMode returns the postgres sslmode, defaulting to disable
func (c *DBConfig) getSSLMode() string {
	if c.SSLMode == "" {
		return "disable"
	}
	return c.SSLMode
}

// getConnMaxLifetime returns the connection max lifetime, defaulting to 1 hour
func (c *DBConfig) getConnMaxLifetime() time.Duration {
	if c.ConnMaxLifetime == 0 {
		return time.Hour
	}
	return c.ConnMaxLifetime
}

// getConnMaxIdleTime returns the connection max idle time, defaulting to 10 minutes
func (c *DBConfig) getConnMaxIdleTime() time.Duration {
	if c.ConnMaxIdleTime == 0 {
		return 10 * time.Minute
	}
	return c.ConnMaxIdleTime
}

// buildDSN constructs the driver specific DSN string
func (c *DBConfig) buildDSN() (string, error) {
	switch c.getDriver() {
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.DBName,
			c.getCharset())
		if c.MultiStatements {
			dsn += "&multiStatements=true"
		}
		return dsn, nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host,
			c.Username,
			c.Password,
			c.DBName,
			c.Port,
			c.getSSLMode()), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// sqlDriverName returns the database/sql driver registered for the gorm driver
func (c *DBConfig) sqlDriverName() string {
	if c.getDriver() == DriverPostgres {
		// registered by pgx/v5/stdlib, which gorm.io/driver/postgres imports
		return "pgx"
	}
	return "mysql"
}

func (c *DBConfig) dialector(sqlDB *sql.DB) gorm.Dialector {
	if c.getDriver() == DriverPostgres {
		return postgres.New(postgres.Config{Conn: sqlDB})
	}
	return mysql.New(mysql.Config{Conn: sqlDB})
}

// openConnection dials the database described by cfg and wraps it with gorm
func openConnection(cfg *DBConfig, silent bool) (gormDB *gorm.DB, sqlDB *sql.DB, err error) {
	dsn, err := cfg.buildDSN()
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err = sql.Open(cfg.sqlDriverName(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.getConnMaxLifetime())
	sqlDB.SetConnMaxIdleTime(cfg.getConnMaxIdleTime())

	gormConfig := &gorm.Config{}
	if silent {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err = gorm.Open(cfg.dialector(sqlDB), gormConfig)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return gormDB, sqlDB, nil
}
