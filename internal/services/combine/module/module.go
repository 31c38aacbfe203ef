// Package module wires the combine service
package module

import (
	"qabundle/internal/core/formats"
	"qabundle/internal/modkit"
	"qabundle/internal/services/combine/domain"
	"qabundle/internal/services/combine/ingest"
	"qabundle/internal/services/combine/service"
)

// Ports defines the combine module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the combine module
type Module struct {
	name  string
	ports Ports
}

// Overrides lets callers swap adapters; nil fields keep the defaults
type Overrides struct {
	Router  domain.Router
	Loader  domain.Loader
	Writers domain.WriterFactory
}

// New wires the disk adapters, the default routing table and the driver.
// Pass modkit.WithPorts(Overrides{...}) to replace adapters
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) *Module {
	b := modkit.Build("combine", mopts...)
	ov, _ := b.Ports.(Overrides)

	var router domain.Router = formats.Default()
	if ov.Router != nil {
		router = ov.Router
	}
	var loader domain.Loader = ingest.NewLoader()
	if ov.Loader != nil {
		loader = ov.Loader
	}
	var writers domain.WriterFactory = ingest.Files{}
	if ov.Writers != nil {
		writers = ov.Writers
	}

	drv := service.New(
		ingest.NewDiscoverer(opts.InputDir, opts.Pattern),
		router, loader, writers,
		service.Config{Output: opts.Output, Log: deps.BaseLog()},
	)
	return &Module{name: b.Name, ports: Ports{Runner: drv}}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
