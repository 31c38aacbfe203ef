// Package ch provides a clickhouse client over the native protocol
package ch

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	URL  string
	Role string
	Tag  string

	// Password fills in a DSN without one
	Password string
}

// Rows is the result set iteration the store needs
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// conn is the subset of driver.Conn used here
type conn interface {
	Exec(ctx context.Context, query string, args ...any) error
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH wraps one native connection pool
type CH struct {
	conn conn
}

var openConn = func(opts *clickhouse.Options) (conn, error) {
	return clickhouse.Open(opts)
}

// Open parses the DSN and opens a connection pool; it does not contact the server
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.Password != "" && opts.Auth.Password == "" {
		opts.Auth.Password = cfg.Password
	}
	c, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: c}, nil
}

// Exec runs a statement without results
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

// Insert sends rows to table as one native batch.
// Every row must hold one value per column, in column order
func (c *CH) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	q := fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(columns, ", "))
	b, err := c.conn.PrepareBatch(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			_ = b.Abort()
			return fmt.Errorf("row %d: %d values for %d columns", i, len(r), len(columns))
		}
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("append row %d: %w", i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Query runs a query and returns its rows
func (c *CH) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, query, args...)
}

// Ping checks the server is reachable
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the pool
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Password returns the password embedded in a clickhouse DSN, if any
func Password(dsn string) string {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return opts.Auth.Password
}
