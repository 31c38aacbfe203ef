package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"qabundle/internal/core/qa"
	"qabundle/internal/modkit"
	perr "qabundle/internal/platform/errors"
	kit "qabundle/internal/platform/testkit"
	"qabundle/internal/services/publish/domain"
	publishmod "qabundle/internal/services/publish/module"
)

const merged = `{"version":"1.0","data":[{"id":"1","context":"C","question":"Q?","answers":["A","B"]}]}`

func TestPublishCommand_FileSink(t *testing.T) {
	in := filepath.Join(kit.WriteFiles(t, map[string]string{"combined.json": merged}), "combined.json")
	out := t.TempDir()

	var stdout bytes.Buffer
	cmd := newCmd(&stdout)
	cmd.SetArgs([]string{"--input", in, "--repo", "madks/medieval-qa-dataset", "--sink", "file", "--dir", out})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	kit.MustContain(t, stdout.String(), "1 rows written to "+filepath.Join(out, "madks", "medieval-qa-dataset"))
}

type hubStub struct{ target domain.Target }

func (h *hubStub) Name() string               { return domain.SinkHub }
func (h *hubStub) Credential() (string, bool) { return "", true }
func (h *hubStub) Publish(_ context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	h.target = t
	return domain.Result{Sink: domain.SinkHub, Location: "https://huggingface.co/datasets/" + t.Repo, Rows: len(rows)}, nil
}

func TestPublishCommand_HubMessageAndFlags(t *testing.T) {
	in := filepath.Join(kit.WriteFiles(t, map[string]string{"combined.json": merged}), "combined.json")
	stub := &hubStub{}

	var stdout bytes.Buffer
	cmd := newCmd(&stdout, modkit.WithPorts(publishmod.Overrides{Sinks: []domain.Sink{stub}}))
	cmd.SetArgs([]string{"--input", in, "--repo", "madks/ds", "--version", "v2", "--token", "hf_x", "--sink", "hub"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stub.target.Config != "v2" || stub.target.Token != "hf_x" {
		t.Fatalf("target = %+v", stub.target)
	}
	kit.MustContain(t, stdout.String(), "Upload complete! The dataset is now available at https://huggingface.co/datasets/madks/ds")
}

func TestPublishCommand_BadRepo(t *testing.T) {
	cmd := newCmd(&bytes.Buffer{})
	cmd.SetArgs([]string{"--repo", "not a repo", "--sink", "file"})
	err := cmd.ExecuteContext(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeValidation) || perr.ExitCode(err) == 0 {
		t.Fatalf("err = %v", err)
	}
}

func TestPublishCommand_VersionSubcommand(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newCmd(&stdout)
	cmd.SetArgs([]string{"version"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	kit.MustContain(t, stdout.String(), "qabundle-publish dev")
}
