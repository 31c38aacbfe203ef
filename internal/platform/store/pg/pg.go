// Package pg opens the pgx pool behind the postgres sink
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool. Zero MaxConns keeps the pgx default
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG is an opened pool with the tracing settings its adapter applies
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool from cfg.URL. mut sees the parsed config last and may
// set runtime params or credentials. pgx dials lazily, so success here says
// nothing about reachability
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mut func(*pgxpool.Config)) (*PG, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if mut != nil {
		mut(pc)
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close releases the pool; safe on nil
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}

// Password extracts the password from a URL or keyword DSN; "" when absent
// or unparsable
func Password(dsn string) string {
	if pc, err := pgxpool.ParseConfig(dsn); err == nil {
		return pc.ConnConfig.Password
	}
	return ""
}
