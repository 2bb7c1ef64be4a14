// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package encoder implements C8: rendering an Irp plus parameter values
// into a Message by walking the AST directly (the inverse direction of
// irp/nfa, which walks it to build a sample-matching graph instead).
package encoder

import (
	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/variant"
)

// Encode renders one full frame: Down once, Repeat repeatCount times
// (zero is legal — button tapped and released before a repeat fires),
// then Up once if the protocol declares one. params supplies every
// parameter not covered by its own default. When Down is empty (an IRP
// whose only repeating part is a '*'-marked sub-stream, such as RC-5),
// zero repeats produce no samples and Encode returns an error.
func Encode(def *irp.Irp, params map[string]int64, repeatCount int) (irp.Message, error) {
	if err := def.Validate(); err != nil {
		return irp.Message{}, err
	}
	split, err := variant.Compute(def)
	if err != nil {
		return irp.Message{}, err
	}
	vars := def.NewVartable()
	for name, v := range params {
		vars.Set(name, v)
	}

	s := &state{def: def, vars: vars}
	s.scopes = append(s.scopes, scope{}) // root: no enclosing bit-spec

	if err := s.emitStream(split.Down, nil, 1); err != nil {
		return irp.Message{}, err
	}
	if repeatCount > 0 {
		if err := s.emitStream(split.Repeat, nil, repeatCount); err != nil {
			return irp.Message{}, err
		}
	}
	if split.HasUp {
		if err := s.emitStream(split.Up, nil, 1); err != nil {
			return irp.Message{}, err
		}
	}

	msg := s.message()
	if err := msg.Validate(); err != nil {
		// §4.8's final invariant: pad with the default inter-frame gap
		// rather than fail, matching the reference encoder's behavior of
		// always producing a playable frame.
		if _, ok := err.(*irp.EncodeError); ok && len(msg.Raw)%2 != 0 {
			msg.Raw = append(msg.Raw, defaultInterFrameGapMicroseconds)
			err = msg.Validate()
		}
		if err != nil {
			return irp.Message{}, err
		}
	}
	return msg, nil
}

// defaultInterFrameGapMicroseconds is appended when a frame would
// otherwise end on a flash (§4.8).
const defaultInterFrameGapMicroseconds = 125_000

type scope struct {
	alts     [][]irp.Expression
	bits     uint64
	bitCount int
}

type state struct {
	def     *irp.Irp
	vars    *irp.Vartable
	raw     []int64
	lastGap bool
	hasAny  bool
	elapsed int64
	markers []int64
	scopes  []scope
}

func (s *state) message() irp.Message {
	carrier := s.def.General.CarrierHz
	duty := s.def.General.DutyCycle
	return irp.Message{CarrierHz: carrier, DutyCycle: duty, Raw: s.raw}
}

func toAlts(spec []irp.Expression) [][]irp.Expression {
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

// repeatsFor derives a sub-stream's iteration count from its repeat
// marker and the caller's requested outer repeat count, per §4.8.
func repeatsFor(r irp.RepeatMarker, requested int) int {
	switch r.Kind {
	case "*":
		return requested
	case "+":
		return requested + 1
	case "n":
		return r.Count
	case "n+":
		return r.Count + requested
	default:
		return 1
	}
}

func (s *state) appendTiming(us int64, gap bool) {
	if gap && !s.hasAny {
		// Leading gaps are dropped entirely (§4.8).
		return
	}
	if s.hasAny && gap == s.lastGap {
		s.raw[len(s.raw)-1] += us
		s.elapsed += us
		return
	}
	s.raw = append(s.raw, us)
	s.lastGap = gap
	s.hasAny = true
	s.elapsed += us
}

func (s *state) emitStream(stream irp.Stream, outerAlts [][]irp.Expression, requested int) error {
	alts := outerAlts
	if stream.BitSpec != nil {
		alts = toAlts(stream.BitSpec)
	}
	idx := len(s.scopes)
	s.scopes = append(s.scopes, scope{alts: alts})
	defer func() { s.scopes = s.scopes[:len(s.scopes)-1] }()

	n := repeatsFor(stream.Repeat, requested)
	for i := 0; i < n; i++ {
		s.markers = append(s.markers, s.elapsed)
		if err := s.emitBody(stream.Body, idx); err != nil {
			return err
		}
		s.markers = s.markers[:len(s.markers)-1]
		if err := s.flush(idx); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) emitBody(body []irp.Expression, scopeIdx int) error {
	for _, item := range body {
		if err := s.emitAtom(item, scopeIdx); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) emitAtom(e irp.Expression, scopeIdx int) error {
	switch n := e.(type) {
	case irp.Flash:
		if err := s.flush(scopeIdx); err != nil {
			return err
		}
		return s.emitTiming(n.Value, n.Unit, false)
	case irp.Gap:
		if err := s.flush(scopeIdx); err != nil {
			return err
		}
		return s.emitTiming(n.Value, n.Unit, true)
	case irp.Extent:
		if err := s.flush(scopeIdx); err != nil {
			return err
		}
		return s.emitExtent(n)
	case irp.Assignment:
		v, err := irp.Eval(n.Value, s.vars)
		if err != nil {
			return err
		}
		s.vars.Set(n.Name, v)
		return nil
	case irp.List:
		return s.emitBody(n.Items, scopeIdx)
	case irp.BitField:
		return s.emitBitField(n, scopeIdx)
	case irp.Stream:
		return s.emitStream(n, s.scopes[scopeIdx].alts, 1)
	default:
		return &irp.EncodeError{Message: "unsupported expression kind in stream body"}
	}
}

func (s *state) emitTiming(value irp.Expression, unit irp.Unit, gap bool) error {
	v, err := irp.Eval(value, s.vars)
	if err != nil {
		return err
	}
	us, err := s.def.General.ToMicroseconds(float64(v), unit)
	if err != nil {
		return err
	}
	s.appendTiming(int64(us), gap)
	return nil
}

func (s *state) emitExtent(n irp.Extent) error {
	v, err := irp.Eval(n.Value, s.vars)
	if err != nil {
		return err
	}
	us, err := s.def.General.ToMicroseconds(float64(v), n.Unit)
	if err != nil {
		return err
	}
	top := int64(0)
	if len(s.markers) > 0 {
		top = s.markers[len(s.markers)-1]
	}
	residue := int64(us) - (s.elapsed - top)
	if residue < 0 {
		return &irp.EncodeError{Message: "extent is shorter than the frame's elapsed duration"}
	}
	s.appendTiming(residue, true)
	return nil
}

func (s *state) emitBitField(bf irp.BitField, scopeIdx int) error {
	value, err := irp.Eval(bf.Value, s.vars)
	if err != nil {
		return err
	}
	if bf.Skip != nil {
		skip, err := irp.Eval(bf.Skip, s.vars)
		if err != nil {
			return err
		}
		value <<= uint(skip)
	}
	length := int64(64)
	if bf.Length != nil {
		l, err := irp.Eval(bf.Length, s.vars)
		if err != nil {
			return err
		}
		length = l
	}
	if bf.Reverse {
		value = irp.BitReverse(value, length, 0)
	}
	s.pushBits(scopeIdx, value, length)
	return nil
}

func (s *state) pushBits(scopeIdx int, value, length int64) {
	sc := &s.scopes[scopeIdx]
	lsb := s.def.General.LSBFirst
	for i := int64(0); i < length; i++ {
		var bitIdx int64
		if lsb {
			bitIdx = i
		} else {
			bitIdx = length - 1 - i
		}
		bit := (value >> uint(bitIdx)) & 1
		sc.bits = (sc.bits << 1) | uint64(bit)
		sc.bitCount++
	}
}

func (s *state) flush(scopeIdx int) error {
	sc := &s.scopes[scopeIdx]
	if sc.bitCount == 0 {
		return nil
	}
	if sc.alts == nil {
		return &irp.EncodeError{Message: "bit-field present with no enclosing bit-spec"}
	}
	width := log2Exact(len(sc.alts))
	if width == 0 {
		return &irp.EncodeError{Message: "bit-spec alternative count is not a power of two"}
	}
	if sc.bitCount%width != 0 {
		return &irp.EncodeError{Message: "bit-field run length is not a multiple of the bit-spec symbol width"}
	}
	remaining := sc.bitCount
	for remaining > 0 {
		remaining -= width
		symbol := int((sc.bits >> uint(remaining)) & ((1 << uint(width)) - 1))
		if err := s.emitBody(sc.alts[symbol], scopeIdx-1); err != nil {
			return err
		}
	}
	sc.bits = 0
	sc.bitCount = 0
	return nil
}

func log2Exact(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		return 0
	}
	w := 0
	for n > 1 {
		n >>= 1
		w++
	}
	return w
}
