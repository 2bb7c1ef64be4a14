// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package protocol is a small, in-memory catalog of well-known named IR
// protocols (NEC, RC-5, RC-6, Sony SIRC and their variants), each
// pre-compiled to its irp.Irp form at registration time.
//
// It stands in for the IRP-protocols-from-XML catalog a full decoder
// toolchain would load from disk: rather than parsing a protocol
// definition file at startup, each protocol registers itself from its
// own source file's init(), the way a periph host driver registers
// itself with the root package instead of being discovered from disk.
// keymap.LinuxProtocols resolves a kernel decoder name to the same kind
// of IRP text; this catalog is the counterpart for code that names a
// protocol directly rather than going through an rc_keymap table.
package protocol

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/parser"
)

// Protocol is one named, compiled IR protocol definition.
type Protocol struct {
	Name string
	IRP  string
	Def  *irp.Irp
}

var (
	mu     sync.Mutex
	byName = map[string]*Protocol{}
	ordered []*Protocol
)

// Register compiles irpText and adds it to the catalog under name.
//
// name must be unique across all registered protocols. It is meant to
// be called from a protocol source file's init() function.
func Register(name, irpText string) error {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := byName[name]; ok {
		return errors.Errorf("protocol: %q already registered", name)
	}
	def, err := parser.Parse(irpText)
	if err != nil {
		return errors.Wrapf(err, "protocol: compiling %q", name)
	}
	p := &Protocol{Name: name, IRP: irpText, Def: def}
	byName[name] = p
	ordered = append(ordered, p)
	return nil
}

// MustRegister calls Register and panics if registration fails.
//
// This is the function to call from a protocol's init() function.
func MustRegister(name, irpText string) {
	if err := Register(name, irpText); err != nil {
		panic(err)
	}
}

// Lookup returns the protocol registered under name, if any.
func Lookup(name string) (*Protocol, bool) {
	mu.Lock()
	defer mu.Unlock()
	p, ok := byName[name]
	return p, ok
}

// Protocols returns every registered protocol, sorted by name.
func Protocols() []*Protocol {
	mu.Lock()
	defer mu.Unlock()
	out := make([]*Protocol, len(ordered))
	copy(out, ordered)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
