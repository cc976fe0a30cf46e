package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Client owns the pooled connection shared by the pricing repositories.
type Client struct {
	conn    *gorm.DB
	retries int
	backoff time.Duration
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the configured database and applies the pool limits.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	conn, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger:                 newQueryLogger(logg, cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	configurePool(sqlDB, cfg)

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"driver": conn.Dialector.Name(), "max_open": cfg.MaxOpenConns})
		logg.Info(ctx, "db.connected")
	}
	return NewClient(conn, cfg.TxRetries), nil
}

// NewClient wraps an already open connection. retries bounds how often a
// transaction aborted by a serialization failure or deadlock is replayed.
func NewClient(conn *gorm.DB, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{conn: conn, retries: retries, backoff: 20 * time.Millisecond}
}

// Dialector picks the GORM driver for the configured engine. SQLite backs local runs and tests.
func Dialector(cfg config.DBConfig) gorm.Dialector {
	if cfg.IsSQLite() {
		return sqlite.Open(cfg.DSN)
	}
	return postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	})
}

func configurePool(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. A panic or error rolls back; transient
// conflicts (see IsRetryableTx) replay fn from scratch, so fn must not keep
// state across attempts.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = c.conn.WithContext(ctx).Transaction(fn)
		if err == nil || attempt >= c.retries || !IsRetryableTx(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(c.backoff * time.Duration(attempt+1)):
		}
	}
}
