// Package service runs the combine: discover, route, load, extract, write
package service

import (
	"context"
	"fmt"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/services/combine/domain"
)

// Config holds run settings
type Config struct {
	// Output is the merged dataset path
	Output string

	// Log is the base logger; nil uses the run-scoped root logger
	Log *logger.Logger
}

// Driver processes every discovered file inside its own failure boundary.
// A failing file is logged and skipped; only output failures stop the run
type Driver struct {
	Discover domain.Discoverer
	Router   domain.Router
	Load     domain.Loader
	Writers  domain.WriterFactory
	Cfg      Config
}

var _ domain.RunnerPort = (*Driver)(nil)

// New constructs a Driver
func New(disc domain.Discoverer, router domain.Router, load domain.Loader, writers domain.WriterFactory, cfg Config) *Driver {
	return &Driver{Discover: disc, Router: router, Load: load, Writers: writers, Cfg: cfg}
}

// Run combines all sources into Cfg.Output
func (d *Driver) Run(ctx context.Context) (domain.Summary, error) {
	base := d.Cfg.Log
	if base == nil {
		base = logger.C(ctx)
	}
	log := base.With().Str("component", "combine").Logger()
	sum := domain.Summary{Output: d.Cfg.Output}

	srcs, err := d.Discover.Discover(ctx)
	if err != nil {
		return sum, err
	}
	sum.Found = len(srcs)
	if len(srcs) == 0 {
		log.Warn().Msg("no input files found")
	}
	log.Info().Int("files", len(srcs)).Str("output", d.Cfg.Output).Msg("combining")

	w, err := d.Writers.Create(d.Cfg.Output)
	if err != nil {
		return sum, err
	}

	owners := map[string]string{}
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			_ = w.Abort()
			return sum, perr.Wrap(err, perr.ErrorCodeUnknown, "combine interrupted")
		}

		rep, recs := d.processFile(ctx, src)
		if ctx.Err() != nil {
			// a cancelled load is not a bad file
			break
		}
		sum.Files = append(sum.Files, rep)
		if rep.Skipped() {
			sum.Skipped++
			log.Error().
				Str("file", src.Name).
				Str("format", rep.Format).
				Str("code", perr.Label(perr.CodeOf(rep.Err))).
				Err(rep.Err).
				Msg("skipping file")
			continue
		}

		sum.DuplicateIDs += countForeign(owners, src.Name, recs)
		if err := w.Write(recs); err != nil {
			_ = w.Abort()
			return sum, err
		}
		sum.Processed++
		sum.Records += len(recs)
		log.Info().Str("file", src.Name).Str("format", rep.Format).Int("samples", len(recs)).Msg("processed file")
	}

	if err := ctx.Err(); err != nil {
		_ = w.Abort()
		return sum, perr.Wrap(err, perr.ErrorCodeUnknown, "combine interrupted")
	}
	if err := w.Close(); err != nil {
		return sum, err
	}

	if sum.DuplicateIDs > 0 {
		log.Warn().Int("duplicate_ids", sum.DuplicateIDs).Msg("ids repeat across files; kept as is")
	}
	log.Info().
		Int("total", sum.Records).
		Int("processed", sum.Processed).
		Int("skipped", sum.Skipped).
		Str("output", d.Cfg.Output).
		Msg("combined dataset saved")
	return sum, nil
}

// processFile routes, loads and extracts one source. Errors and panics both land in rep.Err
func (d *Driver) processFile(ctx context.Context, src domain.Source) (rep domain.FileReport, recs []qa.Record) {
	rule := d.Router.Route(src.Name)
	rep = domain.FileReport{Name: src.Name, Format: rule.Format.String()}

	defer func() {
		if r := recover(); r != nil {
			rep.Err = perr.WithOp(perr.New(perr.ErrorCodeUnknown, fmt.Sprintf("panic: %v", r)), src.Name)
			rep.Records = 0
			recs = nil
		}
	}()

	doc, err := d.Load.Load(ctx, src, rule)
	if err != nil {
		rep.Err = err
		return rep, nil
	}
	recs = rule.Format.Extract(doc)
	rep.Records = len(recs)
	return rep, recs
}

// countForeign counts ids of recs already owned by another file, then claims the new ones for file
func countForeign(owners map[string]string, file string, recs []qa.Record) int {
	n := 0
	for _, r := range recs {
		if r.ID == "" {
			continue
		}
		owner, ok := owners[r.ID]
		switch {
		case !ok:
			owners[r.ID] = file
		case owner != file:
			n++
		}
	}
	return n
}
