package module

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"qabundle/internal/core/qa"
	"qabundle/internal/modkit"
	"qabundle/internal/platform/config"
	perr "qabundle/internal/platform/errors"
	kit "qabundle/internal/platform/testkit"
	"qabundle/internal/services/publish/domain"

	"github.com/rs/zerolog"
)

func TestFromConfig_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	o := FromConfig(config.New())
	if o.Input != "combined_qa_dataset.json" || o.Repo != "madks/medieval-qa-dataset" || o.Config != "default" {
		t.Fatalf("defaults = %+v", o)
	}
	if o.Sink != domain.SinkHub || o.HubRevision != "main" || o.HubEndpoint != "https://huggingface.co" || o.Timeouts.Run != 0 {
		t.Fatalf("defaults = %+v", o)
	}
	if o.PGTable != "qa_rows" || o.CHTable != "qa_rows" || o.FileDir != "dist" {
		t.Fatalf("defaults = %+v", o)
	}
	if o.PGSlowMs != 500 || o.PGMaxConns != 2 || o.PGLogSQL {
		t.Fatalf("pg defaults = %+v", o)
	}
}

func TestFromConfig_Env(t *testing.T) {
	t.Setenv("PUBLISH_SINK", "File")
	t.Setenv("PUBLISH_TIMEOUT", "90s")
	t.Setenv("PUBLISH_CONFIG", "v2")
	t.Setenv("HF_TOKEN", "hf_env")
	t.Setenv("PUBLISH_PGSQL_MAX_CONNS", "8")
	t.Setenv("PUBLISH_PGSQL_SLOW_MS", "nope")
	o := FromConfig(config.New())
	if o.PGMaxConns != 8 || o.PGSlowMs != 500 {
		t.Fatalf("pg env = %d/%d", o.PGMaxConns, o.PGSlowMs)
	}
	if o.Sink != domain.SinkFile || o.Timeouts.Run != 90*time.Second || o.Config != "v2" || o.HubToken != "hf_env" {
		t.Fatalf("env = %+v", o)
	}

	t.Setenv("PUBLISH_HUB_TOKEN", "hf_specific")
	if o := FromConfig(config.New()); o.HubToken != "hf_specific" {
		t.Fatalf("PUBLISH_HUB_TOKEN should win, got %q", o.HubToken)
	}
}

func TestFromConfig_BadSinkPanics(t *testing.T) {
	t.Setenv("PUBLISH_SINK", "s3")
	kit.MustPanic(t, func() { _ = FromConfig(config.New()) })
}

func TestNew_FileSinkEndToEnd(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{
		"combined.json": `{"version":"1.0","data":[{"id":"1","context":"C","question":"Q?","answers":["A"]}]}`,
	})
	out := t.TempDir()
	opts := Options{
		Input:   filepath.Join(dir, "combined.json"),
		Repo:    "madks/medieval-qa-dataset",
		Config:  "default",
		Sink:    domain.SinkFile,
		FileDir: out,
		AppName: "qabundle-publish",
	}

	m := New(modkit.Deps{}, opts)
	if m.Name() != "publish" {
		t.Fatalf("Name = %q", m.Name())
	}
	res, err := modkit.MustPortsOf[Ports](m).Runner.Publish(context.Background(), opts.Request(""))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Rows != 1 || res.Sink != domain.SinkFile {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "madks", "medieval-qa-dataset", "data", "train-00000-of-00001.parquet")); err != nil {
		t.Fatalf("shard: %v", err)
	}
}

type stubSink struct{ got []qa.Row }

func (s *stubSink) Name() string               { return domain.SinkHub }
func (s *stubSink) Credential() (string, bool) { return "", true }
func (s *stubSink) Publish(_ context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	s.got = rows
	return domain.Result{Sink: "hub", Rows: len(rows), Commit: t.Token}, nil
}

type stubCreds string

func (s stubCreds) Credential(context.Context, string) (string, error) { return string(s), nil }

func TestNew_OverridesReplaceSinkAndPrompt(t *testing.T) {
	dir := kit.WriteFiles(t, map[string]string{
		"combined.json": `{"version":"1.0","data":[{"id":"1","context":"C","question":"Q?","answers":["A"]}]}`,
	})
	opts := Options{Input: filepath.Join(dir, "combined.json"), Repo: "a/b", Config: "default", Sink: domain.SinkHub}
	sink := &stubSink{}

	m := New(modkit.Deps{}, opts, modkit.WithPorts(Overrides{Creds: stubCreds("typed"), Sinks: []domain.Sink{sink}}))
	res, err := m.Ports().(Ports).Runner.Publish(context.Background(), opts.Request(""))
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(sink.got) != 1 || res.Commit != "typed" {
		t.Fatalf("sink got %d rows, token %q", len(sink.got), res.Commit)
	}
}

func TestOpeners_RequireURL(t *testing.T) {
	if _, _, err := pgOpener(Options{}, zerolog.Nop())(context.Background(), "pw"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("pg opener: %v", err)
	}
	if _, err := chOpener(Options{}, zerolog.Nop())(context.Background(), "pw"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("ch opener: %v", err)
	}
}

func TestPasswords(t *testing.T) {
	if pgPassword("") != "" || chPassword("") != "" {
		t.Fatalf("empty urls have no password")
	}
	if pgPassword("postgres://u:pw@h/db") != "pw" || chPassword("clickhouse://u:pw@h:9000/db") != "pw" {
		t.Fatalf("passwords not read from dsn")
	}
}
