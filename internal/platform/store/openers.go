package store

import (
	"context"

	perr "qabundle/internal/platform/errors"
	chx "qabundle/internal/platform/store/ch"
	"qabundle/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/pgxpool"
)

// openPG opens the pool, pings it once and wraps it with the sql adapter.
// No retry: a publish run fails fast when its database is down
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	mut := func(pc *pgxpool.Config) {
		if cfg.AppName != "" {
			if pc.ConnConfig.RuntimeParams == nil {
				pc.ConnConfig.RuntimeParams = map[string]string{}
			}
			pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
		}
		if cfg.PG.Password != "" && pc.ConnConfig.Password == "" {
			pc.ConnConfig.Password = cfg.PG.Password
		}
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, mut)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "postgres config")
	}

	pctx, cancel := context.WithTimeout(ctx, pingTimeout(cfg.PG.PingTimeout))
	defer cancel()
	if err := p.Pool.Ping(pctx); err != nil {
		p.Close()
		if _, isPg := perr.DBErrorCode(err); isPg {
			return nil, perr.FromPostgres(err, "postgres ping")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "postgres ping")
	}
	return newPGAdapter(p), nil
}

// openCH opens the clickhouse connection and pings it once
func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.CH.Tag, Password: cfg.CH.Password})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "clickhouse config")
	}

	pctx, cancel := context.WithTimeout(ctx, pingTimeout(cfg.CH.PingTimeout))
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		_ = c.Close()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "clickhouse ping")
	}
	return newCHAdapter(c), nil
}
