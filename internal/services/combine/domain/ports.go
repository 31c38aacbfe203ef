package domain

import (
	"context"

	"qabundle/internal/core/formats"
	"qabundle/internal/core/qa"

	"github.com/tidwall/gjson"
)

// RunnerPort is the port the module exposes to the command
type RunnerPort interface {
	Run(ctx context.Context) (Summary, error)
}

// Discoverer lists the sources of a run in processing order
type Discoverer interface {
	Discover(ctx context.Context) ([]Source, error)
}

// Router picks the format rule for a file name
type Router interface {
	Route(filename string) formats.Rule
}

// Loader reads and parses one source, applying the rule's repair when set
type Loader interface {
	Load(ctx context.Context, src Source, rule formats.Rule) (gjson.Result, error)
}

// RecordWriter receives records one file at a time.
// Close publishes the output; Abort discards it
type RecordWriter interface {
	Write(recs []qa.Record) error
	Close() error
	Abort() error
}

// WriterFactory creates the output writer for a run
type WriterFactory interface {
	Create(path string) (RecordWriter, error)
}
