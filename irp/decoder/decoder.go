// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package decoder implements C7: driving a compiled irp/nfa or irp/dfa
// graph forward against a stream of Flash/Gap/Reset samples, with
// tolerance matching, partial consumption, and the large-gap rule.
package decoder

import (
	"cirkit.dev/cir/irp/dfa"
	"cirkit.dev/cir/irp/nfa"
)

// edge is the mode-independent view a Decoder steps over; both an NFA's
// per-vertex Branch-closure and a DFA's already-determinized edges
// convert to this shape once, at construction time.
type edge struct {
	kind nfa.EdgeKind
	min  int64 // Flash/Gap: tolerance-widened low bound (NFA mode: exact length). FlashVar/GapVar/TrailingGap: see kind.
	max  int64 // Flash/Gap: high bound (NFA mode: equals min).
	v    string
	dest int
}

type state struct {
	actions []nfa.Action
	edges   []edge
	done    bool
	params  []string
}

type graph struct {
	states []state
}

// compileNFA converts n into one state per vertex, each already
// Branch-closed: an NFA vertex whose only outgoing edges are
// unconditional Branch edges is transparent to the decoder, which only
// ever needs to act on timing edges, actions and Done.
func compileNFA(n *nfa.NFA) *graph {
	g := &graph{states: make([]state, len(n.Verts))}
	for i := range n.Verts {
		g.states[i] = closeVertex(n, i)
	}
	return g
}

func closeVertex(n *nfa.NFA, start int) state {
	seen := map[int]bool{}
	stack := []int{start}
	var actions []nfa.Action
	var edges []edge
	done := false
	var params []string
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		actions = append(actions, n.Verts[v].Actions...)
		for _, e := range n.Verts[v].Edges {
			switch e.Kind {
			case nfa.EdgeBranch:
				stack = append(stack, e.Dest)
			case nfa.EdgeDone:
				done = true
				params = e.Params
			default:
				edges = append(edges, edge{kind: e.Kind, min: e.Length, max: e.Length, v: e.Var, dest: e.Dest})
			}
		}
	}
	return state{actions: actions, edges: edges, done: done, params: params}
}

func compileDFA(d *dfa.DFA) *graph {
	g := &graph{states: make([]state, len(d.States))}
	for i, s := range d.States {
		edges := make([]edge, len(s.Edges))
		for j, e := range s.Edges {
			edges[j] = edge{kind: e.Kind, min: e.Min, max: e.Max, v: e.Var, dest: e.Dest}
		}
		g.states[i] = state{actions: s.Actions, edges: edges, done: s.Done, params: s.Params}
	}
	return g
}
