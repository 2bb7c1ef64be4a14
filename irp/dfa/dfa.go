// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dfa implements C6: determinizing an irp/nfa graph into one whose
// states need no backtracking — every live decode position collapses to
// exactly one DFA state, and every ambiguous set of timing edges from a
// product-state's closure is rewritten into a single decision per
// distinct (kind, length, variable) combination, with Flash/Gap lengths
// widened into tolerance ranges at build time instead of at decode time.
package dfa

import (
	"sort"
	"strconv"
	"strings"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/nfa"
)

// Edge is one outgoing transition of a DFA State. Dest always denotes a
// State index (there is no unconditional/epsilon kind left post-closure).
type Edge struct {
	Kind nfa.EdgeKind
	// Min/Max bound a Flash/Gap edge's accepted microsecond range. For
	// FlashVar/GapVar they both hold the exact unit multiplier (no
	// tolerance applies; the runtime value supplies the length).
	// For TrailingGap, Min holds the configured minimum gap.
	Min, Max int64
	Var      string // FlashVar/GapVar only.
	Dest     int
}

// State is one DFA vertex: the merged actions of every NFA vertex in its
// epsilon-closure, the set of edges those vertices expose (deduplicated
// and range-widened), and whether this state is also an accepting state.
type State struct {
	Actions []nfa.Action
	Edges   []Edge
	Done    bool
	Params  []string
}

// DFA is the compiled, deterministic decoder graph; state 0 is the entry
// state.
type DFA struct {
	States []State
}

// Build determinizes n under the tolerance/timeout configuration cfg.
func Build(n *nfa.NFA, cfg nfa.Config) (*DFA, error) {
	d := &DFA{}
	index := map[string]int{}

	var resolve func(set []int) (int, error)
	resolve = func(set []int) (int, error) {
		cl := closure(n, set)
		key := keyOf(cl)
		if idx, ok := index[key]; ok {
			return idx, nil
		}
		idx := len(d.States)
		d.States = append(d.States, State{})
		index[key] = idx

		var actions []nfa.Action
		done := false
		var params []string

		type group struct {
			kind   nfa.EdgeKind
			length int64
			v      string
		}
		var order []group
		dests := map[group][]int{}

		for _, v := range cl {
			actions = append(actions, n.Verts[v].Actions...)
			for _, e := range n.Verts[v].Edges {
				switch e.Kind {
				case nfa.EdgeDone:
					done = true
					params = e.Params
				case nfa.EdgeBranch:
					// folded into the closure already.
				case nfa.EdgeFlash, nfa.EdgeGap, nfa.EdgeFlashVar, nfa.EdgeGapVar, nfa.EdgeTrailingGap:
					g := group{kind: e.Kind, length: e.Length, v: e.Var}
					if _, ok := dests[g]; !ok {
						order = append(order, g)
					}
					dests[g] = append(dests[g], e.Dest)
				default:
					return 0, &irp.ValidationError{Message: "nfa graph contains an edge kind the DFA builder cannot determinize"}
				}
			}
		}

		var edges []Edge
		for _, g := range order {
			destIdx, err := resolve(dests[g])
			if err != nil {
				return 0, err
			}
			edge := Edge{Kind: g.kind, Var: g.v, Dest: destIdx}
			switch g.kind {
			case nfa.EdgeFlash, nfa.EdgeGap:
				tol := tolerance(cfg, g.length)
				edge.Min = g.length - tol
				edge.Max = g.length + tol
			case nfa.EdgeFlashVar, nfa.EdgeGapVar:
				edge.Min = g.length
				edge.Max = g.length
			case nfa.EdgeTrailingGap:
				edge.Min = cfg.MaxGapMicroseconds
			}
			edges = append(edges, edge)
		}

		d.States[idx] = State{Actions: actions, Edges: edges, Done: done, Params: params}
		return idx, nil
	}

	if _, err := resolve([]int{0}); err != nil {
		return nil, err
	}
	return d, nil
}

// tolerance is aeps + eps% of length, per §4.6/§4.7's matching rule,
// folded into the edge's accepted range once at build time rather than
// recomputed on every sample.
func tolerance(cfg nfa.Config, length int64) int64 {
	return cfg.AepsMicroseconds + (cfg.EpsPercent*length)/100
}

// closure follows every unconditional Branch edge reachable from start,
// returning the deduplicated vertices reached (including start itself) in
// the order they were discovered, so actions merged from them keep the
// NFA's own order; keyOf sorts them for the state key.
func closure(n *nfa.NFA, start []int) []int {
	seen := map[int]bool{}
	var order []int
	stack := append([]int(nil), start...)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		order = append(order, v)
		for _, e := range n.Verts[v].Edges {
			if e.Kind == nfa.EdgeBranch && !seen[e.Dest] {
				stack = append(stack, e.Dest)
			}
		}
	}
	return order
}

func keyOf(set []int) string {
	set = append([]int(nil), set...)
	sort.Ints(set)
	parts := make([]string, len(set))
	for i, v := range set {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
