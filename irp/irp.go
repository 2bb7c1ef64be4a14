// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

// ParameterSpec describes one named, bounded input of an Irp (e.g. D, S,
// F, T). Memory parameters (declared `name@:min..max=default` in IRP
// notation) persist across invocations of the same Irp; non-memory
// parameters reset to their default on every encode.
type ParameterSpec struct {
	Name        string
	Memory      bool
	Min, Max    int64
	Default     Expression // nil only legal when !Memory
	HasDefault  bool
}

// Irp is a fully parsed, validated IRP notation program: a carrier/unit
// header, the body stream, top-level definitions, and the declared
// parameter list.
//
// Irp intentionally does not cache the (down, repeat, up) variant split
// described in §3's data model: computing it requires the rewriting
// machinery in package irp/variant, and storing the result here would
// create an import cycle (irp/variant already imports irp for the AST
// types it rewrites). Callers needing the split call variant.Compute(irp)
// once after parsing/validation; it is pure and safe to memoize
// externally.
type Irp struct {
	General     GeneralSpec
	Stream      Stream
	Definitions []Assignment
	Parameters  []ParameterSpec
}

// Parameter looks up a declared parameter by name.
func (i *Irp) Parameter(name string) (ParameterSpec, bool) {
	for _, p := range i.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Mask returns the bitmask covering a parameter's declared width, derived
// from Max (the smallest power-of-two-minus-one at or above Max).
func (p ParameterSpec) Mask() int64 {
	if p.Max <= 0 {
		return 0
	}
	mask := int64(1)
	for mask < p.Max {
		mask = mask<<1 | 1
	}
	return mask
}

// NewVartable builds a Vartable seeded with every definition (as a
// deferred expression) and every parameter's default (also deferred, so a
// default expressed in terms of another parameter resolves lazily).
// Memory parameters are not reset here; callers that maintain a
// long-lived decoder/encoder across repeated presses seed those from
// their own persisted Vartable instead.
func (i *Irp) NewVartable() *Vartable {
	v := NewVartable()
	for _, d := range i.Definitions {
		v.Defer(d.Name, d.Value)
	}
	for _, p := range i.Parameters {
		if p.HasDefault {
			v.Defer(p.Name, p.Default)
		}
	}
	return v
}
