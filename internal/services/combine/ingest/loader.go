package ingest

import (
	"context"
	"os"

	"qabundle/internal/core/formats"
	"qabundle/internal/core/jsondoc"
	"qabundle/internal/core/repair"
	perr "qabundle/internal/platform/errors"
	"qabundle/internal/services/combine/domain"

	"github.com/tidwall/gjson"
)

// Loader reads sources from disk
type Loader struct{}

// NewLoader returns the disk loader
func NewLoader() Loader { return Loader{} }

// Load reads src and parses it, through the rule's repair strategy when one is set
func (Loader) Load(ctx context.Context, src domain.Source, rule formats.Rule) (gjson.Result, error) {
	if err := ctx.Err(); err != nil {
		return gjson.Result{}, err
	}
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return gjson.Result{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeIO, "read"), src.Name)
	}
	if rule.Repair != nil {
		doc, ok, err := repair.Repair(rule.Repair, raw)
		if !ok {
			return gjson.Result{}, perr.WithOp(err, src.Name)
		}
		return doc, nil
	}
	doc, err := jsondoc.Parse(raw)
	if err != nil {
		return gjson.Result{}, perr.WithOp(err, src.Name)
	}
	return doc, nil
}
