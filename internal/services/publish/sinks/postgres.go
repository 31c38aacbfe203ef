package sinks

import (
	"context"
	"fmt"

	"qabundle/internal/core/normalize"
	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/platform/store"
	"qabundle/internal/services/publish/domain"
)

// PostgresOpener connects using credential when the DSN has no password.
// The returned func releases the connection
type PostgresOpener func(ctx context.Context, credential string) (store.TxRunner, func(), error)

// PostgresConfig configures the postgres sink
type PostgresConfig struct {
	Table string

	// Password is the one embedded in the DSN, if any
	Password string
}

// Postgres replaces a config's rows in one transaction
type Postgres struct {
	cfg  PostgresConfig
	db   store.TxRunner
	open PostgresOpener
}

// NewPostgres builds the sink. db may be nil, in which case open is used at publish time
func NewPostgres(cfg PostgresConfig, db store.TxRunner, open PostgresOpener) *Postgres {
	if cfg.Table == "" {
		cfg.Table = "qa_rows"
	}
	return &Postgres{cfg: cfg, db: db, open: open}
}

// Name implements domain.Sink
func (p *Postgres) Name() string { return domain.SinkPostgres }

// Credential implements domain.Sink
func (p *Postgres) Credential() (string, bool) {
	if p.db != nil {
		return "", false
	}
	return p.cfg.Password, true
}

// Publish creates the table when missing, drops the config's previous rows and inserts the new ones
func (p *Postgres) Publish(ctx context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	if err := checkTable(p.cfg.Table); err != nil {
		return domain.Result{}, err
	}

	db := p.db
	if db == nil {
		if p.open == nil {
			return domain.Result{}, perr.Unavailablef("postgres is not configured")
		}
		conn, release, err := p.open(ctx, t.Token)
		if err != nil {
			return domain.Result{}, err
		}
		defer release()
		db = conn
	}

	questions := make([]string, len(rows))
	contexts := make([]string, len(rows))
	answers := make([]string, len(rows))
	for i, r := range rows {
		r = normalize.Row(r)
		questions[i], contexts[i], answers[i] = r.Question, r.Context, r.Answers
	}

	var replaced int64
	err := db.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := q.Exec(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id bigserial PRIMARY KEY,
				run_id text NOT NULL,
				config text NOT NULL,
				position integer NOT NULL,
				question text NOT NULL,
				context text NOT NULL,
				answers text NOT NULL,
				published_at timestamptz NOT NULL DEFAULT now()
			)
		`, p.cfg.Table)); err != nil {
			return perr.FromPostgresf(err, "create table %s", p.cfg.Table)
		}

		tag, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE config = $1`, p.cfg.Table), t.Config)
		if err != nil {
			return perr.FromPostgresf(err, "clear config %s", t.Config)
		}
		replaced = tag.RowsAffected()

		if len(rows) == 0 {
			return nil
		}
		if _, err := q.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (run_id, config, position, question, context, answers)
			SELECT $1, $2, k.n::int, k.question, k.context, k.answers
			FROM UNNEST($3::text[], $4::text[], $5::text[]) WITH ORDINALITY
			AS k(question, context, answers, n)
		`, p.cfg.Table), t.RunID, t.Config, questions, contexts, answers); err != nil {
			return perr.FromPostgresf(err, "insert into %s", p.cfg.Table)
		}
		return nil
	})
	if err != nil {
		return domain.Result{}, err
	}

	logger.C(ctx).Info().
		Str("sink", domain.SinkPostgres).
		Str("table", p.cfg.Table).
		Int("rows", len(rows)).
		Int64("replaced", replaced).
		Msg("rows written")
	return domain.Result{Sink: domain.SinkPostgres, Location: p.cfg.Table, Rows: len(rows), Commit: t.RunID}, nil
}
