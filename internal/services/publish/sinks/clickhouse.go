package sinks

import (
	"context"
	"fmt"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/platform/store"
	"qabundle/internal/services/publish/domain"
)

// ClickhouseOpener connects using credential when the DSN has no password
type ClickhouseOpener func(ctx context.Context, credential string) (store.Clickhouse, error)

// ClickhouseConfig configures the clickhouse sink
type ClickhouseConfig struct {
	Table string

	// Password is the one embedded in the DSN, if any
	Password string
}

// Clickhouse appends rows to a MergeTree table, tagged with run id and config
type Clickhouse struct {
	cfg  ClickhouseConfig
	db   store.Clickhouse
	open ClickhouseOpener
}

var chColumns = []string{"run_id", "config", "question", "context", "answers"}

// NewClickhouse builds the sink. db may be nil, in which case open is used at publish time
func NewClickhouse(cfg ClickhouseConfig, db store.Clickhouse, open ClickhouseOpener) *Clickhouse {
	if cfg.Table == "" {
		cfg.Table = "qa_rows"
	}
	return &Clickhouse{cfg: cfg, db: db, open: open}
}

// Name implements domain.Sink
func (c *Clickhouse) Name() string { return domain.SinkClickhouse }

// Credential implements domain.Sink
func (c *Clickhouse) Credential() (string, bool) {
	if c.db != nil {
		return "", false
	}
	return c.cfg.Password, true
}

// Publish creates the table when missing and sends every row in one batch
func (c *Clickhouse) Publish(ctx context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	if err := checkTable(c.cfg.Table); err != nil {
		return domain.Result{}, err
	}

	db := c.db
	if db == nil {
		if c.open == nil {
			return domain.Result{}, perr.Unavailablef("clickhouse is not configured")
		}
		conn, err := c.open(ctx, t.Token)
		if err != nil {
			return domain.Result{}, err
		}
		defer func() { _ = conn.Close() }()
		db = conn
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id String,
			config LowCardinality(String),
			question String,
			context String,
			answers String
		)
		ENGINE = MergeTree
		ORDER BY (config, run_id)
	`, c.cfg.Table)
	if err := db.Exec(ctx, ddl); err != nil {
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "create table %s", c.cfg.Table)
	}

	batch := make([][]any, len(rows))
	for i, r := range rows {
		batch[i] = []any{t.RunID, t.Config, r.Question, r.Context, r.Answers}
	}
	if err := db.Insert(ctx, c.cfg.Table, chColumns, batch); err != nil {
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeDB, "insert into %s", c.cfg.Table)
	}

	logger.C(ctx).Info().Str("sink", domain.SinkClickhouse).Str("table", c.cfg.Table).Int("rows", len(rows)).Msg("rows inserted")
	return domain.Result{Sink: domain.SinkClickhouse, Location: c.cfg.Table, Rows: len(rows), Commit: t.RunID}, nil
}
