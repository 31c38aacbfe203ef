package sinks

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"qabundle/internal/adapters/hub"
	"qabundle/internal/adapters/parquet"
	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"
	"qabundle/internal/services/publish/domain"
)

// File writes the hub layout under Dir/<repo> without any network access
type File struct {
	Dir string
}

// NewFile builds the file sink
func NewFile(dir string) *File {
	if dir == "" {
		dir = "dist"
	}
	return &File{Dir: dir}
}

// Name implements domain.Sink
func (f *File) Name() string { return domain.SinkFile }

// Credential implements domain.Sink; local writes need none
func (f *File) Credential() (string, bool) { return "", false }

// Publish writes the shard and merges the local card
func (f *File) Publish(ctx context.Context, t domain.Target, rows []qa.Row) (domain.Result, error) {
	rel := filepath.Join(filepath.FromSlash(t.Repo), filepath.FromSlash(hub.ShardPath(t.Config)))
	if !filepath.IsLocal(rel) {
		return domain.Result{}, perr.WithField(perr.InvalidArgf("repo %q with config %q leaves %s", t.Repo, t.Config, f.Dir), "config")
	}
	root := filepath.Join(f.Dir, filepath.FromSlash(t.Repo))

	shard, err := parquet.EncodeBytes(rows)
	if err != nil {
		return domain.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeUnknown, "publish interrupted")
	}

	cardPath := filepath.Join(root, hub.CardFile)
	existing, err := os.ReadFile(cardPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeIO, "read %s", cardPath)
	}
	card, err := hub.BuildCard(existing, t.Repo, hub.CardEntry{
		Config:   t.Config,
		Rows:     len(rows),
		Bytes:    int64(len(shard)),
		Features: parquet.Columns,
	})
	if err != nil {
		return domain.Result{}, err
	}

	shardPath := filepath.Join(f.Dir, rel)
	if err := writeAtomic(shardPath, shard); err != nil {
		return domain.Result{}, err
	}
	if err := writeAtomic(cardPath, card); err != nil {
		return domain.Result{}, err
	}

	logger.C(ctx).Info().Str("sink", domain.SinkFile).Str("path", shardPath).Int("rows", len(rows)).Msg("parquet shard written")
	return domain.Result{Sink: domain.SinkFile, Location: root, Rows: len(rows)}, nil
}

// writeAtomic writes to a temp sibling and renames it over path
func writeAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "mkdir %s", filepath.Dir(path))
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create temp for %s", path)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return perr.Wrapf(err, perr.ErrorCodeIO, "close %s", name)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return perr.Wrapf(err, perr.ErrorCodeIO, "rename onto %s", path)
	}
	return nil
}
