// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

// binding is one entry of a Vartable: either a resolved integer value, or
// a deferred expression that has not been evaluated yet.
type binding struct {
	hasValue bool
	value    int64
	deferred Expression
}

// Vartable is a name-to-value mapping threaded through evaluation, decoding
// and encoding. Definitions are stored as lazily-evaluated expressions, so
// a definition that references a not-yet-assigned variable is legal as
// long as the reference resolves before it is actually needed.
//
// A Vartable is cheap to Clone: decode keeps one clone per live NFA
// position, so Clone is on the hot path.
type Vartable struct {
	m map[string]binding
}

// NewVartable returns an empty table.
func NewVartable() *Vartable {
	return &Vartable{m: map[string]binding{}}
}

// Clone returns an independent copy; mutating the copy never affects the
// receiver.
func (v *Vartable) Clone() *Vartable {
	n := make(map[string]binding, len(v.m))
	for k, b := range v.m {
		n[k] = b
	}
	return &Vartable{m: n}
}

// Set records a resolved value for name.
func (v *Vartable) Set(name string, value int64) {
	v.m[name] = binding{hasValue: true, value: value}
}

// Defer records a lazily-evaluated definition for name.
func (v *Vartable) Defer(name string, expr Expression) {
	v.m[name] = binding{deferred: expr}
}

// Lookup returns the resolved value for name, evaluating its deferred
// expression on demand if needed.
func (v *Vartable) Lookup(name string) (int64, error) {
	b, ok := v.m[name]
	if !ok {
		return 0, &UnknownVariable{Name: name}
	}
	if b.hasValue {
		return b.value, nil
	}
	if b.deferred == nil {
		return 0, &UnknownVariable{Name: name}
	}
	val, err := Eval(b.deferred, v)
	if err != nil {
		return 0, err
	}
	v.m[name] = binding{hasValue: true, value: val}
	return val, nil
}

// Has reports whether name has any binding (resolved or deferred).
func (v *Vartable) Has(name string) bool {
	_, ok := v.m[name]
	return ok
}

// Resolved reports whether name is bound to a concrete value without
// needing to evaluate a deferred expression.
func (v *Vartable) Resolved(name string) bool {
	b, ok := v.m[name]
	return ok && b.hasValue
}

// Names returns every bound name, in no particular order.
func (v *Vartable) Names() []string {
	names := make([]string, 0, len(v.m))
	for k := range v.m {
		names = append(names, k)
	}
	return names
}

// Consts returns a snapshot of every already-resolved binding, suitable as
// input to Fold; deferred-but-unevaluated bindings are omitted.
func (v *Vartable) Consts() map[string]int64 {
	out := make(map[string]int64, len(v.m))
	for k, b := range v.m {
		if b.hasValue {
			out[k] = b.value
		}
	}
	return out
}
