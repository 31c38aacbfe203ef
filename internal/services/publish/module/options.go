package module

import (
	"time"

	"qabundle/internal/platform/config"
	"qabundle/internal/services/publish/domain"
	"qabundle/internal/services/publish/guardrails"
)

// Options holds publish settings
type Options struct {
	Input  string
	Repo   string
	Config string
	Sink   string

	Timeouts guardrails.Timeouts

	HubEndpoint string
	HubRevision string
	HubTimeout  time.Duration
	HubToken    string

	FileDir string

	PGURL      string
	PGTable    string
	PGLogSQL   bool
	PGSlowMs   int
	PGMaxConns int

	CHURL   string
	CHTable string

	// AppName is reported to the databases
	AppName string
}

// FromConfig reads PUBLISH_* with the historical defaults.
// HF_TOKEN is honoured when PUBLISH_HUB_TOKEN is unset
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("PUBLISH_")
	return Options{
		Input:  c.MayString("INPUT", "combined_qa_dataset.json"),
		Repo:   c.MayString("REPO", "madks/medieval-qa-dataset"),
		Config: c.MayString("CONFIG", "default"),
		Sink: c.MayEnum("SINK", domain.SinkHub,
			domain.SinkHub, domain.SinkClickhouse, domain.SinkPostgres, domain.SinkFile),

		Timeouts: guardrails.Timeouts{
			Run:  c.MayDuration("TIMEOUT", 0),
			Read: c.MayDuration("READ_TIMEOUT", 0),
			Sink: c.MayDuration("SINK_TIMEOUT", 0),
		},

		HubEndpoint: c.MayString("HUB_ENDPOINT", "https://huggingface.co"),
		HubRevision: c.MayString("HUB_REVISION", "main"),
		HubTimeout:  c.MayDuration("HUB_TIMEOUT", 5*time.Minute),
		HubToken:    c.MayString("HUB_TOKEN", cfg.MayString("HF_TOKEN", "")),

		FileDir: c.MayString("FILE_DIR", "dist"),

		PGURL:      c.MayString("PGSQL_DBURL", ""),
		PGTable:    c.MayString("PGSQL_TABLE", "qa_rows"),
		PGLogSQL:   c.MayBool("PGSQL_LOG_SQL", false),
		PGSlowMs:   c.MayInt("PGSQL_SLOW_MS", 500),
		PGMaxConns: c.MayInt("PGSQL_MAX_CONNS", 2),

		CHURL:   c.MayString("CLICKHOUSE_DBURL", ""),
		CHTable: c.MayString("CLICKHOUSE_TABLE", "qa_rows"),

		AppName: "qabundle-publish",
	}
}

// Request builds the run request from the options
func (o Options) Request(token string) domain.Request {
	return domain.Request{Input: o.Input, Repo: o.Repo, Config: o.Config, Token: token, Sink: o.Sink}
}
