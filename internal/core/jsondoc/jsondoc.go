// Package jsondoc is the dynamic JSON boundary for source documents.
// Documents are validated once and then walked with gjson, so missing keys read as zero values
package jsondoc

import (
	"encoding/json"
	"errors"

	perr "qabundle/internal/platform/errors"

	"github.com/tidwall/gjson"
)

// Parse validates raw and returns the document root.
// Rejected input is re-read by encoding/json only to name the failing offset
func Parse(raw []byte) (gjson.Result, error) {
	if gjson.ValidBytes(raw) {
		return gjson.ParseBytes(raw), nil
	}
	var doc json.RawMessage
	err := json.Unmarshal(raw, &doc)
	var syn *json.SyntaxError
	switch {
	case errors.As(err, &syn):
		return gjson.Result{}, perr.Wrapf(err, perr.ErrorCodeJSON, "invalid json at offset %d", syn.Offset)
	case err != nil:
		return gjson.Result{}, perr.Wrap(err, perr.ErrorCodeJSON, "invalid json")
	}
	return gjson.Result{}, perr.JSONErrf("invalid json")
}

// Items returns the elements of r when r is an array, nil otherwise.
// gjson's Array wraps scalars into a one-element slice; sources must not be read that way
func Items(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// Text returns r as a string; missing and null read as ""
func Text(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return r.String()
}

// Field reads key from r when r is an object
func Field(r gjson.Result, key string) gjson.Result {
	if !r.IsObject() {
		return gjson.Result{}
	}
	return r.Get(gjson.Escape(key))
}
