// Package service reads the merged dataset, projects it to rows and hands them to one sink
package service

import (
	"context"
	"strings"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/platform/validate"
	"qabundle/internal/services/publish/domain"
	"qabundle/internal/services/publish/guardrails"
)

// Service implements domain.RunnerPort
type Service struct {
	Reader   domain.DatasetReader
	Sinks    map[string]domain.Sink
	Creds    domain.CredentialSource
	Timeouts guardrails.Timeouts
}

// New builds the service; sinks are keyed by Name()
func New(reader domain.DatasetReader, creds domain.CredentialSource, t guardrails.Timeouts, sinks ...domain.Sink) *Service {
	m := make(map[string]domain.Sink, len(sinks))
	for _, s := range sinks {
		m[s.Name()] = s
	}
	return &Service{Reader: reader, Sinks: m, Creds: creds, Timeouts: t}
}

// Publish validates req, loads and projects the dataset, resolves a credential
// and calls the selected sink exactly once. Nothing is retried
func (s *Service) Publish(ctx context.Context, req domain.Request) (domain.Result, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Result{}, err
	}
	sink, ok := s.Sinks[req.Sink]
	if !ok {
		return domain.Result{}, perr.WithField(perr.InvalidArgf("sink %q is not available", req.Sink), "sink")
	}

	ctx, cancel := guardrails.WithRun(ctx, s.Timeouts)
	defer cancel()
	log := logger.C(ctx).With().Str("sink", req.Sink).Str("repo", req.Repo).Str("config", req.Config).Logger()

	rctx, rcancel := guardrails.ForRead(ctx, s.Timeouts)
	ds, err := s.Reader.Read(rctx, req.Input)
	rcancel()
	if err != nil {
		return domain.Result{}, err
	}

	rows := qa.ProjectAll(ds.Data)
	log.Info().Str("input", req.Input).Int("records", ds.Len()).Int("rows", len(rows)).Msg("dataset loaded")
	if len(rows) == 0 {
		log.Warn().Msg("dataset is empty; publishing an empty table")
	}

	cred, err := s.credential(ctx, req, sink)
	if err != nil {
		return domain.Result{}, err
	}

	target := domain.Target{Repo: req.Repo, Config: req.Config, Token: cred, RunID: logger.RunID(ctx)}

	sctx, scancel := guardrails.ForSink(ctx, s.Timeouts)
	defer scancel()
	res, err := sink.Publish(sctx, target, rows)
	if err != nil {
		if ctx.Err() != nil && perr.CodeOf(err) == perr.ErrorCodeUnknown {
			return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "publish timed out or was interrupted")
		}
		return domain.Result{}, err
	}
	return res, nil
}

// credential resolves the flag value, then what the sink holds, then the prompt
func (s *Service) credential(ctx context.Context, req domain.Request, sink domain.Sink) (string, error) {
	held, needed := sink.Credential()
	if !needed {
		return "", nil
	}
	if tok := strings.TrimSpace(req.Token); tok != "" {
		return tok, nil
	}
	if held != "" {
		return held, nil
	}
	if s.Creds != nil {
		tok, err := s.Creds.Credential(ctx, domain.SinkLabel(sink.Name()))
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}
	}
	return "", perr.WithField(perr.Unauthorizedf("no %s credential provided", domain.SinkLabel(sink.Name())), "token")
}
