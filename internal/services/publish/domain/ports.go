package domain

import (
	"context"

	"qabundle/internal/core/qa"
)

// RunnerPort is the port the module exposes to the command
type RunnerPort interface {
	Publish(ctx context.Context, req Request) (Result, error)
}

// DatasetReader loads the merged dataset document
type DatasetReader interface {
	Read(ctx context.Context, path string) (qa.Dataset, error)
}

// Sink pushes projected rows somewhere. Publish is called at most once per run
type Sink interface {
	Name() string

	// Credential returns a credential the sink already holds.
	// needed is false when the sink publishes without one
	Credential() (cred string, needed bool)

	Publish(ctx context.Context, t Target, rows []qa.Row) (Result, error)
}

// CredentialSource asks the operator for a credential
type CredentialSource interface {
	Credential(ctx context.Context, sink string) (string, error)
}
