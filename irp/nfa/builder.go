// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nfa

import (
	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/solve"
)

// bitsVar is the private accumulator a bit-field run shifts bits into
// before they are sliced out to individual parameters.
const bitsVar = "$bits"

// Compile lowers one stream of a variant split (Down, Repeat, or Up) into
// an NFA, against i's Definitions and Parameters so Done edges know which
// variables to report.
func Compile(i *irp.Irp, stream irp.Stream) (*NFA, error) {
	b := &builder{
		irp:       i,
		verts:     []Vertex{{}},
		constants: map[string]int64{},
		known:     map[string]bool{},
	}
	b.addConstants()
	if err := b.lowerStream(stream, nil); err != nil {
		return nil, err
	}
	b.addDone()
	return &NFA{Verts: b.verts}, nil
}

type builder struct {
	irp       *irp.Irp
	head      int
	verts     []Vertex
	constants map[string]int64
	known     map[string]bool // variables set somewhere along the current path
}

func (b *builder) addVertex() int {
	b.verts = append(b.verts, Vertex{})
	return len(b.verts) - 1
}

func (b *builder) addAction(a Action) {
	b.verts[b.head].Actions = append(b.verts[b.head].Actions, a)
}

func (b *builder) addEdge(e Edge) {
	b.verts[b.head].Edges = append(b.verts[b.head].Edges, e)
}

func (b *builder) set(name string) {
	b.known[name] = true
}

// addConstants evaluates every definition that only references already
// known constants (expanding to a fixed point), folding those into the
// builder's constant table; remaining definitions become Set actions at
// the graph's entry vertex, evaluated once per decode.
func (b *builder) addConstants() {
	for {
		changed := false
		for _, d := range b.irp.Definitions {
			if b.known[d.Name] {
				continue
			}
			folded := solve.Fold(d.Value, b.constants)
			if n, ok := folded.(irp.Number); ok {
				b.constants[d.Name] = n.Value
				b.known[d.Name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for _, d := range b.irp.Definitions {
		if b.known[d.Name] {
			continue
		}
		b.addAction(Action{Kind: ActionSet, Var: d.Name, Expr: solve.Fold(d.Value, b.constants)})
		b.set(d.Name)
	}
	b.addAction(Action{Kind: ActionSet, Var: "$repeat", Expr: irp.Number{Value: 0}})
}

// addDone appends a Done edge listing every declared parameter, once all
// of them are known along the current path; it is a no-op otherwise (a
// stream that never binds every parameter simply has no Done edge, which
// irp.Validate's caller is expected to have already rejected upstream for
// anything but a pure-repeat signal with no parameters).
func (b *builder) addDone() {
	names := make([]string, 0, len(b.irp.Parameters))
	for _, p := range b.irp.Parameters {
		if !b.known[p.Name] {
			return
		}
		names = append(names, p.Name)
	}
	b.addEdge(Edge{Kind: EdgeDone, Params: names})
}

func (b *builder) lowerStream(s irp.Stream, outerAlts [][]irp.Expression) error {
	alts := outerAlts
	if s.BitSpec != nil {
		alts = toBitSpecAlts(s.BitSpec)
	}
	if s.Repeat.None() {
		return b.lowerBody(s.Body, alts)
	}
	entry := b.head
	if err := b.lowerBody(s.Body, alts); err != nil {
		return err
	}
	b.addEdge(Edge{Kind: EdgeBranch, Dest: entry})
	return nil
}

// toBitSpecAlts normalizes a Stream.BitSpec (each element typically an
// irp.List) into a slice of flat atom slices, one per alternative.
func toBitSpecAlts(spec []irp.Expression) [][]irp.Expression {
	if spec == nil {
		return nil
	}
	out := make([][]irp.Expression, len(spec))
	for i, alt := range spec {
		if l, ok := alt.(irp.List); ok {
			out[i] = l.Items
		} else {
			out[i] = []irp.Expression{alt}
		}
	}
	return out
}

func (b *builder) lowerBody(body []irp.Expression, bitSpec [][]irp.Expression) error {
	pos := 0
	for pos < len(body) {
		if _, ok := body[pos].(irp.BitField); ok {
			run, next, err := b.gatherConstantRun(body, pos)
			if err != nil {
				return err
			}
			if len(run) > 0 {
				if err := b.lowerBitfieldRun(run, bitSpec); err != nil {
					return err
				}
				pos = next
				continue
			}
		}
		if err := b.lowerAtom(body[pos], bitSpec); err != nil {
			return err
		}
		pos++
	}
	return nil
}

// gatherConstantRun collects a maximal run of adjacent BitField atoms,
// starting at pos, whose lengths are compile-time constants and whose
// combined width is at most 64 bits; it returns the run (possibly of
// length zero if body[pos]'s length is not constant, or variable-length,
// in which case the caller falls back to lowering it as one expression).
func (b *builder) gatherConstantRun(body []irp.Expression, pos int) ([]irp.BitField, int, error) {
	var run []irp.BitField
	total := int64(0)
	i := pos
	for i < len(body) {
		bf, ok := body[i].(irp.BitField)
		if !ok {
			break
		}
		if bf.Length == nil {
			break
		}
		folded := solve.Fold(bf.Length, b.constants)
		n, ok := folded.(irp.Number)
		if !ok {
			break
		}
		if n.Value > 64 || total+n.Value > 64 {
			break
		}
		total += n.Value
		run = append(run, bf)
		i++
	}
	return run, i, nil
}

func (b *builder) lowerAtom(e irp.Expression, bitSpec [][]irp.Expression) error {
	switch n := e.(type) {
	case irp.Flash:
		return b.lowerTiming(n.Value, n.Unit, false)
	case irp.Gap:
		return b.lowerTiming(n.Value, n.Unit, true)
	case irp.Extent:
		// The exact extent length requires knowing the minimum elapsed
		// time since the enclosing repeat marker, which this builder
		// does not track; conservatively lower to TrailingGap, matching
		// any gap at least as long as the decoder's configured maximum.
		next := b.addVertex()
		b.addEdge(Edge{Kind: EdgeTrailingGap, Dest: next})
		b.head = next
		return nil
	case irp.Assignment:
		folded := solve.Fold(n.Value, b.constants)
		b.addAction(Action{Kind: ActionSet, Var: n.Name, Expr: folded})
		b.set(n.Name)
		return nil
	case irp.List:
		for _, it := range n.Items {
			if err := b.lowerAtom(it, bitSpec); err != nil {
				return err
			}
		}
		return nil
	case irp.Stream:
		return b.lowerStream(n, bitSpec)
	case irp.BitField:
		run, _, err := b.gatherConstantRun([]irp.Expression{n}, 0)
		if err != nil {
			return err
		}
		if len(run) == 0 {
			return &irp.ValidationError{Message: "variable-length bit-field outside a constant run is not supported"}
		}
		return b.lowerBitfieldRun(run, bitSpec)
	default:
		return &irp.ValidationError{Message: "unsupported expression kind in stream body"}
	}
}

// lowerTiming appends a Flash/Gap edge for value, either as a constant
// (when it folds to a Number) or as a FlashVar/GapVar edge naming the
// single identifier it reduces to.
func (b *builder) lowerTiming(value irp.Expression, unit irp.Unit, gap bool) error {
	folded := solve.Fold(value, b.constants)
	if n, ok := folded.(irp.Number); ok {
		us, err := b.irp.General.ToMicroseconds(float64(n.Value), unit)
		if err != nil {
			return err
		}
		kind := EdgeFlash
		if gap {
			kind = EdgeGap
		}
		next := b.addVertex()
		b.addEdge(Edge{Kind: kind, Length: int64(us), Dest: next})
		b.head = next
		return nil
	}
	id, ok := folded.(irp.Ident)
	if !ok {
		return &irp.ValidationError{Message: "flash/gap duration must fold to a constant or a single variable"}
	}
	mult, err := b.unitMultiplier(unit)
	if err != nil {
		return err
	}
	kind := EdgeFlashVar
	if gap {
		kind = EdgeGapVar
	}
	next := b.addVertex()
	b.addEdge(Edge{Kind: kind, Var: id.Name, Length: mult, Dest: next})
	b.head = next
	return nil
}

// unitMultiplier returns the microsecond multiplier for a runtime-valued
// Flash/Gap/Extent whose raw value is itself an identifier; Pulses and
// Units both reduce to a single integer multiplier (duty cycle is not
// representable as a multiplier and has no meaning here).
func (b *builder) unitMultiplier(u irp.Unit) (int64, error) {
	us, err := b.irp.General.ToMicroseconds(1, u)
	if err != nil {
		return 0, err
	}
	return int64(us), nil
}

// lowerBitfieldRun emits the bit-consuming subgraph for a maximal run of
// constant-width bit-fields: one decode-bits loop over their combined
// width, then one Set/AssertEq per field sliced out of the accumulator.
func (b *builder) lowerBitfieldRun(run []irp.BitField, bitSpec [][]irp.Expression) error {
	total := int64(0)
	lengths := make([]int64, len(run))
	for i, bf := range run {
		n := solve.Fold(bf.Length, b.constants).(irp.Number)
		lengths[i] = n.Value
		total += n.Value
	}
	b.addAction(Action{Kind: ActionSet, Var: bitsVar, Expr: irp.Number{Value: 0}})
	if err := b.decodeBits(total, bitSpec); err != nil {
		return err
	}

	// Slice $bits into each field, MSB-first accumulation means the
	// first-consumed bit landed in the highest position of the run.
	offset := total
	for i, bf := range run {
		offset -= lengths[i]
		skip := int64(0)
		if bf.Skip != nil {
			n, ok := solve.Fold(bf.Skip, b.constants).(irp.Number)
			if !ok {
				return &irp.ValidationError{Message: "bit-field skip must fold to a constant"}
			}
			skip = n.Value
		}
		field := irp.BitField{
			Value:   irp.Ident{Name: bitsVar},
			Length:  irp.Number{Value: lengths[i]},
			Skip:    irp.Number{Value: offset},
			Reverse: bf.Reverse != b.irp.General.LSBFirst,
		}
		if err := b.storeField(bf.Value, field, skip); err != nil {
			return err
		}
	}
	return nil
}

// storeField resolves one field of a bit-field run: target is the field's
// declared value expression (usually an Ident, sometimes a constant or a
// more complex expression solved via the inverse solver); extracted is
// the BitField expression that reads the matching slice out of $bits, and
// skip (if non-zero) re-aligns it into the variable's own bit positions.
func (b *builder) storeField(target irp.Expression, extracted irp.BitField, skip int64) error {
	var extractedExpr irp.Expression = extracted
	if skip != 0 {
		extractedExpr = irp.BinaryExpr{Op: irp.ShiftLeft, Left: extracted, Right: irp.Number{Value: skip}}
	}
	if id, ok := target.(irp.Ident); ok {
		b.addAction(Action{Kind: ActionSet, Var: id.Name, Expr: extractedExpr})
		b.set(id.Name)
		return nil
	}
	if allKnown(target, b.known) {
		want := irp.BitField{Value: solve.Fold(target, b.constants), Length: extracted.Length, Skip: irp.Number{Value: skip}}
		b.addAction(Action{Kind: ActionAssertEq, Left: extracted, Right: want})
		return nil
	}
	varName, ok := soleUnknown(target, b.known)
	if !ok {
		return &irp.ValidationError{Message: "bit-field value references zero or more than one unknown variable"}
	}
	sol, err := solve.Invert(extractedExpr, target, varName)
	if err != nil {
		return err
	}
	b.addAction(Action{Kind: ActionSet, Var: varName, Expr: sol.Expr})
	b.set(varName)
	return nil
}

func allKnown(e irp.Expression, known map[string]bool) bool {
	ok := true
	irp.Visit(e, func(n irp.Expression) {
		if id, is := n.(irp.Ident); is && !known[id.Name] {
			ok = false
		}
	})
	return ok
}

func soleUnknown(e irp.Expression, known map[string]bool) (string, bool) {
	names := map[string]bool{}
	irp.Visit(e, func(n irp.Expression) {
		if id, is := n.(irp.Ident); is && !known[id.Name] {
			names[id.Name] = true
		}
	})
	if len(names) != 1 {
		return "", false
	}
	for name := range names {
		return name, true
	}
	return "", false
}

// decodeBits lowers n bit positions, one per bit-spec alternative chosen
// at decode time; each alternative's atoms fan out from the current head
// and converge on a single next vertex, with a Set action recording the
// alternative's index (its encoded bit value) shifted into $bits.
func (b *builder) decodeBits(n int64, bitSpec [][]irp.Expression) error {
	if len(bitSpec) == 0 {
		return &irp.ValidationError{Message: "bit-field present with no enclosing bit-spec"}
	}
	for i := int64(0); i < n; i++ {
		start := b.head
		converge := b.addVertex()
		for altIdx, alt := range bitSpec {
			b.head = start
			if err := b.lowerBody(alt, nil); err != nil {
				return err
			}
			b.addAction(Action{Kind: ActionSet, Var: bitsVar, Expr: irp.BinaryExpr{
				Op:   irp.BitOr,
				Left: irp.BinaryExpr{Op: irp.ShiftLeft, Left: irp.Ident{Name: bitsVar}, Right: irp.Number{Value: 1}},
				Right: irp.Number{Value: int64(altIdx)},
			}})
			b.addEdge(Edge{Kind: EdgeBranch, Dest: converge})
		}
		b.head = converge
	}
	return nil
}
