// Package modkit wires service modules: shared deps in, typed ports out
package modkit

import (
	"fmt"
	"reflect"

	"qabundle/internal/platform/config"
	"qabundle/internal/platform/logger"
	"qabundle/internal/platform/store"
)

// Deps is what a command hands every module. PG and CH are nil unless the
// command opened them; modules open their own on demand otherwise
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
}

// BaseLog returns Log when the command set one, nil otherwise
func (d Deps) BaseLog() *logger.Logger {
	if reflect.ValueOf(d.Log).IsZero() {
		return nil
	}
	l := d.Log
	return &l
}

// Module is a named bundle of ports
type Module interface {
	Name() string
	Ports() any
}

// PortsOf finds a T in m's ports: the ports value itself, or its first
// exported field holding one
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	switch p := m.Ports().(type) {
	case nil:
		return zero, false
	case T:
		return p, true
	}
	rv := reflect.ValueOf(m.Ports())
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, where a missing port is a bug
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("modkit: module %s has no %s port", m.Name(), reflect.TypeFor[T]()))
	}
	return v
}
