// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package variant implements C3, the variant splitter: it separates an
// IRP stream into (down, repeat, up) sub-streams given the placement of
// repeat markers and alternation ([...][...][...]).
package variant

import "cirkit.dev/cir/irp"

// Split is the (down, repeat, up) triple produced from an Irp's top-level
// stream. Down is sent once on press, Repeat while held, Up once on
// release (Up may be absent).
type Split struct {
	Down   irp.Stream
	Repeat irp.Stream
	Up     irp.Stream
	HasUp  bool
}

// Compute implements §4.3. Exactly one of its three numbered cases applies.
func Compute(i *irp.Irp) (Split, error) {
	s := i.Stream
	if v, ok := findTopLevelVariation(s.Body); ok {
		return splitFromVariation(s, v)
	}
	if !s.Repeat.None() {
		// Case 1 variant without an explicit [down][repeat][up]: the
		// whole stream repeats, so there is no distinct down/up, only a
		// repeat body equal to the whole stream played once.
		once := s
		once.Repeat = irp.RepeatMarker{}
		return Split{Down: once, Repeat: once}, nil
	}
	return splitByMarkedSubstream(s)
}

// findTopLevelVariation looks for a Variation directly in body (not
// nested inside a sub-stream), per case 1: "the stream contains a
// Variation [a][b][c?]".
func findTopLevelVariation(body []irp.Expression) (irp.Variation, bool) {
	for _, e := range body {
		if v, ok := e.(irp.Variation); ok {
			return v, true
		}
	}
	return irp.Variation{}, false
}

func splitFromVariation(s irp.Stream, v irp.Variation) (Split, error) {
	if len(v.Variants) < 2 {
		return Split{}, &irp.ValidationError{Message: "variation needs at least down and repeat alternatives"}
	}
	build := func(items []irp.Expression) irp.Stream {
		return irp.Stream{BitSpec: s.BitSpec, Body: substituteVariation(s.Body, items), Repeat: irp.RepeatMarker{}}
	}
	out := Split{
		Down:   build(v.Variants[0]),
		Repeat: build(v.Variants[1]),
	}
	if len(v.Variants) == 3 {
		out.Up = build(v.Variants[2])
		out.HasUp = true
	}
	return out, nil
}

// substituteVariation replaces the first Variation found in body with
// items, leaving every other body element untouched.
func substituteVariation(body []irp.Expression, items []irp.Expression) []irp.Expression {
	out := make([]irp.Expression, 0, len(body)-1+len(items))
	done := false
	for _, e := range body {
		if !done {
			if _, ok := e.(irp.Variation); ok {
				out = append(out, items...)
				done = true
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// splitByMarkedSubstream implements case 2/3: scan body for the single
// sub-stream carrying a repeat marker; everything before it is down,
// everything after is up, and its own body becomes repeat.
func splitByMarkedSubstream(s irp.Stream) (Split, error) {
	idx := -1
	for i, e := range s.Body {
		if sub, ok := e.(irp.Stream); ok && !sub.Repeat.None() {
			if idx != -1 {
				return Split{}, &irp.ValidationError{Message: "more than one repeating sub-stream"}
			}
			idx = i
		}
	}
	if idx == -1 {
		// No repeat anywhere: the whole thing is just "down", sent once,
		// with no distinct repeat behavior (repeat == down).
		once := irp.Stream{BitSpec: s.BitSpec, Body: s.Body}
		return Split{Down: once, Repeat: once}, nil
	}
	sub := s.Body[idx].(irp.Stream)
	down := irp.Stream{BitSpec: s.BitSpec, Body: s.Body[:idx]}
	up := irp.Stream{BitSpec: s.BitSpec, Body: s.Body[idx+1:]}
	repeat := irp.Stream{BitSpec: coalesceBitSpec(s.BitSpec, sub.BitSpec), Body: sub.Body}

	down = synthesizeDown(down, repeat, sub.Repeat)

	out := Split{Down: down, Repeat: repeat}
	if len(up.Body) > 0 {
		out.Up = up
		out.HasUp = true
	}
	return out, nil
}

func coalesceBitSpec(outer, inner []irp.Expression) []irp.Expression {
	if inner != nil {
		return inner
	}
	return outer
}

// synthesizeDown implements the case-3 degenerate rule: if down is empty
// except for assignments, and repeat references the assigned variables,
// fold the assignments' values forward so repeat can stand alone;
// additionally, if the repeat sub-stream used a '+'/'n+' marker (meaning
// "one mandatory pass, then repeats"), that first pass is emitted once as
// part of down. Avoids double counting an extent shared between the
// synthesized down pass and the steady-state repeat by leaving the
// extent in repeat and never duplicating it into down beyond what the
// single synthesized pass already contributes.
func synthesizeDown(down, repeat irp.Stream, marker irp.RepeatMarker) irp.Stream {
	onlyAssignments := true
	for _, e := range down.Body {
		if _, ok := e.(irp.Assignment); !ok {
			onlyAssignments = false
			break
		}
	}
	if marker.Kind == "+" || marker.Kind == "n+" {
		merged := append(append([]irp.Expression{}, down.Body...), repeat.Body...)
		return irp.Stream{BitSpec: down.BitSpec, Body: merged}
	}
	if onlyAssignments && len(down.Body) > 0 && referencesAny(repeat.Body, assignedNames(down.Body)) {
		merged := append(append([]irp.Expression{}, down.Body...), repeat.Body...)
		return irp.Stream{BitSpec: down.BitSpec, Body: merged}
	}
	return down
}

func assignedNames(body []irp.Expression) map[string]bool {
	names := map[string]bool{}
	for _, e := range body {
		if a, ok := e.(irp.Assignment); ok {
			names[a.Name] = true
		}
	}
	return names
}

func referencesAny(body []irp.Expression, names map[string]bool) bool {
	found := false
	for _, e := range body {
		irp.Visit(e, func(n irp.Expression) {
			if found {
				return
			}
			if id, ok := n.(irp.Ident); ok && names[id.Name] {
				found = true
			}
		})
	}
	return found
}
