// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nfa builds the non-deterministic decoder graph described by C5:
// a vertex/edge lowering of an IRP stream that a decoder (irp/decoder) can
// drive forward against a sample stream, or that irp/dfa can determinize.
package nfa

import "cirkit.dev/cir/irp"

// EdgeKind discriminates the outgoing-edge variants a Vertex can carry.
type EdgeKind int

const (
	// EdgeFlash consumes one Flash sample of exactly Length microseconds.
	EdgeFlash EdgeKind = iota
	// EdgeGap consumes one Gap sample of exactly Length microseconds.
	EdgeGap
	// EdgeFlashVar consumes one Flash sample whose length is Var's runtime
	// value (in the atom's own unit) times Length (that unit's microsecond
	// multiplier, folded in at build time).
	EdgeFlashVar
	// EdgeGapVar is EdgeFlashVar's Gap counterpart.
	EdgeGapVar
	// EdgeTrailingGap consumes one Gap sample at least as long as the
	// decoder's configured maximum gap; it marks the end of a frame.
	EdgeTrailingGap
	// EdgeBranchCond evaluates Expr; Yes is taken when non-zero, No
	// otherwise. Consumes no sample (epsilon edge).
	EdgeBranchCond
	// EdgeMayBranchCond evaluates Expr; Dest is taken when non-zero,
	// otherwise control falls through to the next edge in the vertex
	// (used for variable-length bit-field exit tests). Epsilon edge.
	EdgeMayBranchCond
	// EdgeBranch is an unconditional epsilon edge to Dest.
	EdgeBranch
	// EdgeDone emits a decoded frame; Params names which variables the
	// caller should read out of the Vartable.
	EdgeDone
)

// Edge is one outgoing transition of a Vertex. Dest is the destination
// vertex for every kind except EdgeBranchCond (which branches to Yes or
// No instead) and EdgeDone (which is terminal).
type Edge struct {
	Kind   EdgeKind
	Length int64          // EdgeFlash/EdgeGap: microseconds. EdgeFlashVar/EdgeGapVar: unit multiplier.
	Var    string         // EdgeFlashVar/EdgeGapVar: variable holding the runtime length.
	Expr   irp.Expression // EdgeBranchCond/EdgeMayBranchCond: guard.
	Dest   int            // target vertex, see above.
	Yes    int            // EdgeBranchCond only: target when Expr != 0.
	No     int            // EdgeBranchCond only: target when Expr == 0.
	Params []string       // EdgeDone only.
}

// ActionKind discriminates Action variants.
type ActionKind int

const (
	// ActionSet assigns Expr's value to Var.
	ActionSet ActionKind = iota
	// ActionAssertEq fails the current decode path unless Left == Right.
	ActionAssertEq
)

// Action is a side effect attached to a Vertex, run when the decoder
// passes through it (before its outgoing edges are tried).
type Action struct {
	Kind        ActionKind
	Var         string
	Expr        irp.Expression
	Left, Right irp.Expression
}

// Vertex is one node of the graph: a list of actions to run on arrival,
// then a list of edges to try, in order, against the next sample.
type Vertex struct {
	Actions []Action
	Edges   []Edge
}

// NFA is the compiled decoder graph for a Split's Down, Repeat, or Up
// stream (irp/variant builds one Split per Irp; callers typically compile
// one NFA per non-empty stream in the split).
type NFA struct {
	Verts []Vertex
}

// Config is the tolerance and frame-timeout configuration shared by NFA
// and DFA mode decoding (irp/decoder) and by DFA edge-range construction
// (irp/dfa), so it lives here where both packages already depend on it.
type Config struct {
	AepsMicroseconds   int64
	EpsPercent         int64
	MaxGapMicroseconds int64
}

// DefaultConfig matches the tolerances the reference decoder uses absent
// any protocol-specific override.
func DefaultConfig() Config {
	return Config{AepsMicroseconds: 100, EpsPercent: 30, MaxGapMicroseconds: 20000}
}

// Matches reports whether a received duration is within tolerance of an
// expected one: |received-expected| <= aeps, or 100*|diff| <= eps*expected.
func (c Config) Matches(received, expected int64) bool {
	diff := received - expected
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.AepsMicroseconds {
		return true
	}
	return 100*diff <= c.EpsPercent*expected
}
