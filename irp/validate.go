// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

import "fmt"

// MaxBitSpecAlternatives is the largest legal bit-spec width (§4.2):
// `<alt_0|...|alt_n>` with n+1 alternatives, n+1 <= 16.
const MaxBitSpecAlternatives = 16

// MaxRepeatCount is the largest legal literal repeat count `n+`/`n`.
const MaxRepeatCount = 64

// Validate runs every post-parse structural check from §4.2 against i. It
// is called by irp/parser after a successful grammar parse, and again by
// lircd.Synthesize on its generated Irp, so both native and synthesized
// programs are held to the same rules before compilation.
func (i *Irp) Validate() error {
	if err := i.validateParameters(); err != nil {
		return err
	}
	if err := i.validateDefinitions(); err != nil {
		return err
	}
	if err := i.validateStream(i.Stream); err != nil {
		return err
	}
	return nil
}

func (i *Irp) validateParameters() error {
	seen := map[string]bool{}
	for _, p := range i.Parameters {
		if seen[p.Name] {
			return &ValidationError{Message: fmt.Sprintf("duplicate parameter %q", p.Name)}
		}
		seen[p.Name] = true
		if p.Min < 0 {
			return &ValidationError{Message: fmt.Sprintf("parameter %q has negative min", p.Name)}
		}
		if p.Min > p.Max {
			return &ValidationError{Message: fmt.Sprintf("parameter %q has min > max", p.Name)}
		}
		if p.Memory && !p.HasDefault {
			return &ValidationError{Message: fmt.Sprintf("memory parameter %q has no default", p.Name)}
		}
	}
	return nil
}

func (i *Irp) validateDefinitions() error {
	names := map[string]bool{}
	for _, p := range i.Parameters {
		names[p.Name] = true
	}
	defExpr := map[string]Expression{}
	order := make([]string, 0, len(i.Definitions))
	for _, d := range i.Definitions {
		if names[d.Name] {
			return &ValidationError{Message: fmt.Sprintf("definition %q shadows a parameter", d.Name)}
		}
		defExpr[d.Name] = d.Value
		order = append(order, d.Name)
	}
	// Cycle detection: DFS over the reference graph induced by
	// identifiers appearing in each definition's expression.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return &ValidationError{Message: fmt.Sprintf("cyclic definition involving %q", name)}
		}
		color[name] = gray
		if expr, ok := defExpr[name]; ok {
			var err error
			Visit(expr, func(n Expression) {
				if err != nil {
					return
				}
				if id, ok := n.(Ident); ok {
					if _, isDef := defExpr[id.Name]; isDef {
						if verr := visit(id.Name); verr != nil {
							err = verr
						}
					}
				}
			})
			if err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}
	for _, name := range order {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func (i *Irp) validateStream(s Stream) error {
	if len(s.BitSpec) > MaxBitSpecAlternatives {
		return &BitfieldOverflow{Message: "bit-spec has more than 16 alternatives"}
	}
	if s.Repeat.Kind == "n" || s.Repeat.Kind == "n+" {
		if s.Repeat.Count > MaxRepeatCount {
			return &ValidationError{Message: "repeat count exceeds 64"}
		}
	}
	repeats := 0
	if !s.Repeat.None() {
		repeats++
	}
	for _, b := range s.BitSpec {
		if err := i.validateBody([]Expression{b}, &repeats); err != nil {
			return err
		}
	}
	return i.validateBody(s.Body, &repeats)
}

// validateBody walks a stream body (or bit-spec alternative), checking
// expression kinds are only those legal in a stream context, that
// variations only occur inside a stream, and that at most one repeat
// marker (counting all nesting) appears in the enclosing stream.
func (i *Irp) validateBody(body []Expression, repeats *int) error {
	for _, e := range body {
		switch n := e.(type) {
		case Flash, Gap, Extent, Assignment, BitField:
			// legal atoms
		case Stream:
			if !n.Repeat.None() {
				*repeats++
				if *repeats > 1 {
					return &ValidationError{Message: "more than one repeat marker in a single stream"}
				}
			}
			if err := i.validateStream(n); err != nil {
				return err
			}
		case Variation:
			if len(n.Variants) < 2 || len(n.Variants) > 3 {
				return &ValidationError{Message: "variation must have 2 or 3 alternatives"}
			}
			for _, v := range n.Variants {
				if err := i.validateBody(v, repeats); err != nil {
					return err
				}
			}
		case List:
			if err := i.validateBody(n.Items, repeats); err != nil {
				return err
			}
		default:
			return &ValidationError{Message: "unsupported expression kind in stream body"}
		}
	}
	return nil
}
