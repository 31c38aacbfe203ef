package modkit

// Built is a module's resolved options
type Built struct {
	Name  string
	Ports any // module-defined overrides, nil when none were given
}

// Option adjusts Built
type Option func(*Built)

// WithName renames the module in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPorts hands the module caller-owned ports, such as a prompt or a fake
// sink. The receiving module decides which types it accepts
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// Build resolves opts over the default name
func Build(name string, opts ...Option) Built {
	b := Built{Name: name}
	for _, o := range opts {
		o(&b)
	}
	return b
}
