// Package repair fixes known defects in source documents before parsing.
// Each strategy is keyed by a literal defect signature; none of them attempt general JSON repair
package repair

import (
	"bytes"

	"qabundle/internal/core/jsondoc"
	perr "qabundle/internal/platform/errors"

	"github.com/tidwall/gjson"
)

// Strategy detects and fixes one known defect
type Strategy interface {
	Name() string
	Detect(raw []byte) bool
	Apply(raw []byte) []byte
}

// literal replaces every occurrence of a defect signature with a fixed string
type literal struct {
	name   string
	defect string
	fix    string
}

// Literal returns a strategy that replaces every occurrence of defect with fix
func Literal(name, defect, fix string) Strategy {
	return literal{name: name, defect: defect, fix: fix}
}

func (l literal) Name() string { return l.name }

func (l literal) Detect(raw []byte) bool { return bytes.Contains(raw, []byte(l.defect)) }

func (l literal) Apply(raw []byte) []byte {
	return bytes.ReplaceAll(raw, []byte(l.defect), []byte(l.fix))
}

// TrailingCommaTab removes the comma left after the last object of a tab-indented list
var TrailingCommaTab = Literal("trailing-comma-tab", "},\n\t\t}", "}\n\t\t}")

// Repair applies s when its signature is present and parses the result.
// ok is false when the document still does not parse; err carries the reason for the caller to log
func Repair(s Strategy, raw []byte) (doc gjson.Result, ok bool, err error) {
	fixed := raw
	applied := s.Detect(raw)
	if applied {
		fixed = s.Apply(raw)
	}
	doc, err = jsondoc.Parse(fixed)
	if err != nil {
		msg := "repair %s: defect not present"
		if applied {
			msg = "repair %s: still malformed"
		}
		return gjson.Result{}, false, perr.Wrapf(err, perr.ErrorCodeRepair, msg, s.Name())
	}
	return doc, true, nil
}
