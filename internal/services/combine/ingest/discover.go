// Package ingest holds the filesystem adapters of the combine run
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	perr "qabundle/internal/platform/errors"
	"qabundle/internal/services/combine/domain"

	"github.com/bmatcuk/doublestar/v4"
)

// Discoverer globs Pattern under Dir
type Discoverer struct {
	Dir     string
	Pattern string
}

// NewDiscoverer returns a discoverer; an empty pattern means *.json
func NewDiscoverer(dir, pattern string) Discoverer {
	if pattern == "" {
		pattern = "*.json"
	}
	return Discoverer{Dir: dir, Pattern: pattern}
}

// Discover returns regular files matching the pattern in lexical order of their relative names
func (d Discoverer) Discover(ctx context.Context) ([]domain.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(d.Pattern) {
		return nil, perr.InvalidArgf("bad pattern %q", d.Pattern)
	}
	st, err := os.Stat(d.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "input dir %s", d.Dir)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "input dir %s", d.Dir)
	}
	if !st.IsDir() {
		return nil, perr.InvalidArgf("input %s is not a directory", d.Dir)
	}

	names, err := doublestar.Glob(os.DirFS(d.Dir), d.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "glob %s", d.Pattern)
	}
	slices.Sort(names)

	out := make([]domain.Source, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Source{Path: filepath.Join(d.Dir, filepath.FromSlash(n)), Name: n})
	}
	return out, nil
}
