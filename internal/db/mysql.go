// Package db opens the MySQL pool shared by notifier processes that keep
// their per-game message counters in MySQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
	ConnMaxIdle  time.Duration
	DialTimeout  time.Duration
	PingTimeout  time.Duration
}

// Each dispatch holds a connection for one short upsert transaction, so the
// pool stays small.
func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 10
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = 5
	}
	if o.ConnMaxLife <= 0 {
		o.ConnMaxLife = 30 * time.Minute
	}
	if o.ConnMaxIdle <= 0 {
		o.ConnMaxIdle = 5 * time.Minute
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 3 * time.Second
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 2 * time.Second
	}
	return o
}

// connectorConfig parses the DSN and fills in what the counter relies on.
// A dial timeout in the DSN wins over Options.DialTimeout.
func connectorConfig(opt Options) (*mysql.Config, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("mysql: missing dsn: %w", notify.ErrNotConfigured)
	}
	cfg, err := mysql.ParseDSN(opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = opt.DialTimeout
	}
	cfg.ParseTime = true
	return cfg, nil
}

// Open returns a pinged pool. ctx bounds the ping only.
func Open(ctx context.Context, opt Options) (*sql.DB, error) {
	opt = opt.withDefaults()
	cfg, err := connectorConfig(opt)
	if err != nil {
		return nil, err
	}
	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: connector: %w", err)
	}

	db := sql.OpenDB(conn)
	db.SetMaxOpenConns(opt.MaxOpenConns)
	db.SetMaxIdleConns(opt.MaxIdleConns)
	db.SetConnMaxLifetime(opt.ConnMaxLife)
	db.SetConnMaxIdleTime(opt.ConnMaxIdle)

	pctx, cancel := context.WithTimeout(ctx, opt.PingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping %s: %w", cfg.Addr, err)
	}
	return db, nil
}
