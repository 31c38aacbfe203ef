// Package module wires the publish service and its sinks
package module

import (
	"context"

	"qabundle/internal/adapters/prompt"
	"qabundle/internal/core/version"
	"qabundle/internal/modkit"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/platform/store"
	chx "qabundle/internal/platform/store/ch"
	"qabundle/internal/platform/store/pg"
	"qabundle/internal/services/publish/domain"
	"qabundle/internal/services/publish/ingest"
	"qabundle/internal/services/publish/service"
	"qabundle/internal/services/publish/sinks"
)

// Ports defines the publish module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the publish module
type Module struct {
	name  string
	deps  modkit.Deps
	ports Ports
}

// Overrides lets callers swap adapters; nil fields keep the defaults.
// Sinks replace registered sinks with the same name
type Overrides struct {
	Reader domain.DatasetReader
	Creds  domain.CredentialSource
	Sinks  []domain.Sink
}

// New registers every sink. Database sinks use deps.PG and deps.CH when set,
// otherwise they connect on first use with the resolved credential
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) *Module {
	b := modkit.Build("publish", mopts...)
	ov, _ := b.Ports.(Overrides)

	var reader domain.DatasetReader = ingest.NewReader()
	if ov.Reader != nil {
		reader = ov.Reader
	}
	var creds domain.CredentialSource = prompt.Stdio()
	if ov.Creds != nil {
		creds = ov.Creds
	}

	all := []domain.Sink{
		sinks.NewHub(sinks.HubConfig{
			Endpoint:  opts.HubEndpoint,
			Revision:  opts.HubRevision,
			Timeout:   opts.HubTimeout,
			UserAgent: version.Info(opts.AppName).Tag(),
			Token:     opts.HubToken,
		}),
		sinks.NewClickhouse(sinks.ClickhouseConfig{Table: opts.CHTable, Password: chPassword(opts.CHURL)}, deps.CH, chOpener(opts, deps.Log)),
		sinks.NewPostgres(sinks.PostgresConfig{Table: opts.PGTable, Password: pgPassword(opts.PGURL)}, deps.PG, pgOpener(opts, deps.Log)),
		sinks.NewFile(opts.FileDir),
	}
	all = append(all, ov.Sinks...)

	svc := service.New(reader, creds, opts.Timeouts, all...)
	return &Module{name: b.Name, deps: deps, ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

func pgPassword(url string) string {
	if url == "" {
		return ""
	}
	return pg.Password(url)
}

func chPassword(url string) string {
	if url == "" {
		return ""
	}
	return chx.Password(url)
}

func pgOpener(opts Options, log logger.Logger) sinks.PostgresOpener {
	return func(ctx context.Context, cred string) (store.TxRunner, func(), error) {
		if opts.PGURL == "" {
			return nil, nil, perr.WithField(perr.InvalidArgf("PUBLISH_PGSQL_DBURL is not set"), "pgsql-url")
		}
		st, err := store.Open(ctx, store.Config{
			AppName: opts.AppName,
			PG: store.PGConfig{
				Enabled:     true,
				URL:         opts.PGURL,
				MaxConns:    int32(opts.PGMaxConns),
				LogSQL:      opts.PGLogSQL,
				SlowQueryMs: opts.PGSlowMs,
				Password:    cred,
			},
		}, store.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return st.PG, func() { _ = st.Close(context.Background()) }, nil
	}
}

func chOpener(opts Options, log logger.Logger) sinks.ClickhouseOpener {
	return func(ctx context.Context, cred string) (store.Clickhouse, error) {
		if opts.CHURL == "" {
			return nil, perr.WithField(perr.InvalidArgf("PUBLISH_CLICKHOUSE_DBURL is not set"), "clickhouse-url")
		}
		st, err := store.Open(ctx, store.Config{
			AppName: opts.AppName,
			CH: store.CHConfig{
				Enabled:  true,
				URL:      opts.CHURL,
				Role:     "publish",
				Tag:      version.Info(opts.AppName).Version,
				Password: cred,
			},
		}, store.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return st.CH, nil
	}
}
