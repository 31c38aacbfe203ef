// Package ingest loads the merged dataset document for publishing
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"qabundle/internal/core/qa"
	perr "qabundle/internal/platform/errors"
)

// Reader loads a merged dataset from disk
type Reader struct{}

// NewReader returns the disk reader
func NewReader() Reader { return Reader{} }

// Read decodes path as a merged dataset; unknown fields are ignored
func (Reader) Read(ctx context.Context, path string) (qa.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return qa.Dataset{}, perr.Wrap(err, perr.ErrorCodeUnknown, "read interrupted")
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return qa.Dataset{}, perr.NotFoundf("dataset %s not found", path)
		}
		return qa.Dataset{}, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var ds qa.Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		return qa.Dataset{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeJSON, "decode dataset"), path)
	}
	if ds.Version != qa.DatasetVersion {
		return qa.Dataset{}, perr.WithOp(perr.JSONErrf("unsupported dataset version %q", ds.Version), path)
	}
	return ds, nil
}
