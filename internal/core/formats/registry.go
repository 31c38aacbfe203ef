package formats

import (
	"path/filepath"
	"strings"

	"qabundle/internal/core/repair"
	perr "qabundle/internal/platform/errors"
)

// Rule routes filenames containing Token to Format.
// Repair, when set, is applied to the raw bytes before parsing
type Rule struct {
	Token  string
	Format Format
	Repair repair.Strategy
}

// Registry is an ordered rule list with an explicit fallback.
// The first matching rule wins
type Registry struct {
	rules    []Rule
	fallback Rule
}

// NewRegistry validates rules and builds a registry routing unmatched names to fallback
func NewRegistry(fallback Format, rules ...Rule) (*Registry, error) {
	if !fallback.Valid() {
		return nil, perr.InvalidArgf("fallback format %d is not extractable", fallback)
	}
	for i, r := range rules {
		if r.Token == "" {
			return nil, perr.InvalidArgf("rule %d: empty token", i)
		}
		if !r.Format.Valid() {
			return nil, perr.InvalidArgf("rule %d (%s): unknown format %d", i, r.Token, r.Format)
		}
	}
	return &Registry{
		rules:    append([]Rule(nil), rules...),
		fallback: Rule{Format: fallback},
	}, nil
}

// MustRegistry is NewRegistry that panics on invalid input
func MustRegistry(fallback Format, rules ...Rule) *Registry {
	r, err := NewRegistry(fallback, rules...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the routing table for the book sources
func Default() *Registry {
	return MustRegistry(IDAnswers,
		Rule{Token: "book1.json", Format: NestedTitled, Repair: repair.TrailingCommaTab},
		Rule{Token: "book2.json", Format: FlatContext},
		Rule{Token: "book3.json", Format: IDAnswers},
		Rule{Token: "book4.json", Format: QAList},
		Rule{Token: "book5.json", Format: QAList},
		Rule{Token: "book6.json", Format: QAList},
		Rule{Token: "book7.json", Format: QAList},
		Rule{Token: "book8.json", Format: QAData},
	)
}

// Route picks the rule for filename by its base name; it never fails
func (r *Registry) Route(filename string) Rule {
	base := filepath.Base(filename)
	for _, rule := range r.rules {
		if strings.Contains(base, rule.Token) {
			return rule
		}
	}
	return r.fallback
}

// Fallback returns the rule used when nothing matches
func (r *Registry) Fallback() Rule { return r.fallback }

// Rules returns a copy of the ordered rule list
func (r *Registry) Rules() []Rule { return append([]Rule(nil), r.rules...) }
