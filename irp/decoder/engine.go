// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package decoder

import (
	"strconv"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/dfa"
	"cirkit.dev/cir/irp/nfa"
)

// Mode selects whether a Decoder steps an NFA (possibly several live
// positions at once) or an already-determinized DFA (always exactly one).
type Mode int

const (
	ModeNFA Mode = iota
	ModeDFA
)

// maxPartialHops bounds how many consecutive same-kind timing edges a
// single received sample may be split across (a long Flash covering
// several nominally-equal encoded flashes back to back); it exists only
// to guarantee termination, not because any real protocol needs more.
const maxPartialHops = 8

type position struct {
	state int
	vars  *irp.Vartable
}

// Decoder drives one compiled graph (one stream of a variant split)
// forward against a sample stream. It is not safe for concurrent use; the
// decode model is single-threaded and synchronous per §5.
type Decoder struct {
	def     *irp.Irp
	g       *graph
	cfg     nfa.Config
	mode    Mode
	started bool
	live    []position
}

// NewNFADecoder builds a Decoder that steps n directly, exploring every
// live position the graph's non-determinism produces.
func NewNFADecoder(def *irp.Irp, n *nfa.NFA, cfg nfa.Config) *Decoder {
	return &Decoder{def: def, g: compileNFA(n), cfg: cfg, mode: ModeNFA}
}

// NewDFADecoder builds a Decoder that steps the already-determinized d;
// exactly one position is ever live.
func NewDFADecoder(def *irp.Irp, d *dfa.DFA, cfg nfa.Config) *Decoder {
	return &Decoder{def: def, g: compileDFA(d), cfg: cfg, mode: ModeDFA}
}

// Reset discards every live position; the next Input call reseeds at the
// graph's entry vertex, as if freshly constructed.
func (d *Decoder) Reset() {
	d.started = false
	d.live = nil
}

// Input advances every live position by one sample, invoking emit once
// per position that reaches an accepting state (sample.Kind == Reset is
// equivalent to calling Reset directly and consumes nothing further).
// Input never returns an error for malformed input: a sample that matches
// no live position's edges simply prunes that position, per §4.7's "the
// decoder never raises" rule. A non-nil error indicates a programming
// defect in the compiled graph itself (an edge kind the decoder does not
// recognize), not bad input.
func (d *Decoder) Input(sample irp.InfraredData, emit func(map[string]int64)) error {
	if sample.Kind == irp.KindReset {
		d.Reset()
		return nil
	}
	if !d.started {
		d.seed()
	}
	var next []position
	for _, pos := range d.live {
		st := d.g.states[pos.state]
		for _, e := range st.edges {
			vars := pos.vars.Clone()
			ok, dest, err := d.tryEdge(e, sample, vars)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if d.g.states[dest].done {
				emit(d.maskParams(vars))
			}
			next = append(next, position{state: dest, vars: vars})
			if d.mode == ModeDFA {
				break
			}
		}
	}
	d.live = dedupe(next)
	return nil
}

func (d *Decoder) seed() {
	d.started = true
	vars := irp.NewVartable()
	runEntryActions(d.g.states[0], vars)
	d.live = []position{{state: 0, vars: vars}}
}

// runEntryActions executes every action of st against vars, returning
// false (without a Go error) the first time a Set fails to evaluate or an
// AssertEq does not hold — either way the path is invalid and should be
// pruned, not reported as a decode error.
func runEntryActions(st state, vars *irp.Vartable) bool {
	for _, a := range st.actions {
		switch a.Kind {
		case nfa.ActionSet:
			v, err := irp.Eval(a.Expr, vars)
			if err != nil {
				return false
			}
			vars.Set(a.Var, v)
		case nfa.ActionAssertEq:
			l, errL := irp.Eval(a.Left, vars)
			r, errR := irp.Eval(a.Right, vars)
			if errL != nil || errR != nil || l != r {
				return false
			}
		}
	}
	return true
}

func (d *Decoder) enter(dest int, vars *irp.Vartable) (bool, int, error) {
	if !runEntryActions(d.g.states[dest], vars) {
		return false, 0, nil
	}
	return true, dest, nil
}

func kindMatches(ek nfa.EdgeKind, sk irp.SampleKind) bool {
	switch ek {
	case nfa.EdgeFlash, nfa.EdgeFlashVar:
		return sk == irp.KindFlash
	case nfa.EdgeGap, nfa.EdgeGapVar:
		return sk == irp.KindGap
	default:
		return false
	}
}

func (d *Decoder) tryEdge(e edge, sample irp.InfraredData, vars *irp.Vartable) (bool, int, error) {
	switch e.kind {
	case nfa.EdgeFlash, nfa.EdgeGap:
		if !kindMatches(e.kind, sample.Kind) {
			return false, 0, nil
		}
		return d.matchTiming(e, sample.Microseconds, vars, 0)
	case nfa.EdgeFlashVar, nfa.EdgeGapVar:
		if !kindMatches(e.kind, sample.Kind) {
			return false, 0, nil
		}
		val, err := vars.Lookup(e.v)
		if err != nil {
			return false, 0, nil
		}
		if !d.cfg.Matches(sample.Microseconds, val*e.min) {
			return false, 0, nil
		}
		return d.enter(e.dest, vars)
	case nfa.EdgeTrailingGap:
		if sample.Kind != irp.KindGap || sample.Microseconds < d.cfg.MaxGapMicroseconds {
			return false, 0, nil
		}
		return d.enter(e.dest, vars)
	default:
		return false, 0, &irp.ValidationError{Message: "compiled graph contains an edge kind the decoder does not recognize"}
	}
}

// matchTiming matches a Flash/Gap edge against received, within
// tolerance, or by partial consumption: when received exceeds the edge's
// length and the destination state itself exposes a same-kind edge, the
// remainder is tried against that edge in turn (modeling one received
// sample that spans several nominally-equal consecutive encoded atoms).
// The remainder of a gap may also satisfy a trailing-gap edge, as when a
// frame's last bit gap and its closing gap arrive as one sample.
func (d *Decoder) matchTiming(e edge, received int64, vars *irp.Vartable, depth int) (bool, int, error) {
	if e.min == e.max {
		matched := received == e.min
		if d.mode == ModeNFA {
			matched = d.cfg.Matches(received, e.min)
		}
		if matched {
			return d.enter(e.dest, vars)
		}
	} else if received >= e.min && received <= e.max {
		return d.enter(e.dest, vars)
	}

	if depth >= maxPartialHops {
		return false, 0, nil
	}
	nominal := e.min
	if e.min != e.max {
		nominal = (e.min + e.max) / 2
	}
	residual := received - nominal
	if residual <= 0 {
		return false, 0, nil
	}
	ok, dest, err := d.enter(e.dest, vars)
	if err != nil || !ok {
		return false, 0, err
	}
	for _, ne := range d.g.states[dest].edges {
		if e.kind == nfa.EdgeGap && ne.kind == nfa.EdgeTrailingGap {
			if residual >= d.cfg.MaxGapMicroseconds {
				return d.enter(ne.dest, vars)
			}
			continue
		}
		if ne.kind != e.kind {
			continue
		}
		if match, nd, err2 := d.matchTiming(ne, residual, vars, depth+1); err2 != nil {
			return false, 0, err2
		} else if match {
			return true, nd, nil
		}
	}
	return false, 0, nil
}

func (d *Decoder) maskParams(vars *irp.Vartable) map[string]int64 {
	out := make(map[string]int64, len(d.def.Parameters))
	for _, p := range d.def.Parameters {
		v, err := vars.Lookup(p.Name)
		if err != nil {
			continue
		}
		out[p.Name] = v & p.Mask()
	}
	return out
}

// dedupe drops positions that are indistinguishable for future matching:
// same graph state and the same value for every parameter resolved so
// far. Keeping duplicates would make the live frontier grow without
// bound across repeat frames.
func dedupe(positions []position) []position {
	type key struct {
		state  int
		values string
	}
	seen := map[key]bool{}
	var out []position
	for _, p := range positions {
		k := key{state: p.state, values: fingerprint(p.vars)}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

func fingerprint(vars *irp.Vartable) string {
	names := vars.Names()
	// Names returns an arbitrary order; sort for a stable fingerprint.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	s := ""
	for _, n := range names {
		v, err := vars.Lookup(n)
		if err != nil {
			continue
		}
		s += n + "=" + strconv.FormatInt(v, 10) + ";"
	}
	return s
}
