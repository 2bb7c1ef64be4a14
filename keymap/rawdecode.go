// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/dfa"
	"cirkit.dev/cir/irp/decoder"
	"cirkit.dev/cir/irp/nfa"
)

// rawNFA builds one disjoint decode path per raw timing vector, each
// tagged with its own constant CODE = index (set on the path's last
// vertex, so the entry closure the DFA merges carries no CODE),
// branching off a shared entry vertex and never rejoining — so every raw
// slot decodes
// independently of the others. Grounded on the reference KeymapDecoder's
// add_raw, which likewise gives each raw slot a unique decodable CODE
// value rather than reusing the real protocol's CODE space.
func rawNFA(timings [][]int64) *nfa.NFA {
	n := &nfa.NFA{Verts: []nfa.Vertex{{}}}
	for i, raw := range timings {
		start := len(n.Verts)
		n.Verts = append(n.Verts, nfa.Vertex{})
		n.Verts[0].Edges = append(n.Verts[0].Edges, nfa.Edge{Kind: nfa.EdgeBranch, Dest: start})

		head := start
		for j, us := range raw {
			kind := nfa.EdgeFlash
			if j%2 == 1 {
				kind = nfa.EdgeGap
			}
			next := len(n.Verts)
			n.Verts = append(n.Verts, nfa.Vertex{})
			n.Verts[head].Edges = append(n.Verts[head].Edges, nfa.Edge{Kind: kind, Length: us, Dest: next})
			head = next
		}
		n.Verts[head].Actions = []nfa.Action{{Kind: nfa.ActionSet, Var: "CODE", Expr: irp.Number{Value: int64(i)}}}
		n.Verts[head].Edges = append(n.Verts[head].Edges, nfa.Edge{Kind: nfa.EdgeDone, Params: []string{"CODE"}})
	}
	return n
}

// buildRawDecoder compiles timings (one vector per raw keymap entry) to a
// DFA and wraps it in a Decoder whose only declared parameter is CODE.
func buildRawDecoder(timings [][]int64, cfg nfa.Config) (*decoder.Decoder, error) {
	def := &irp.Irp{Parameters: []irp.ParameterSpec{{Name: "CODE", Max: int64(len(timings))}}}
	d, err := dfa.Build(rawNFA(timings), cfg)
	if err != nil {
		return nil, err
	}
	return decoder.NewDFADecoder(def, d, cfg), nil
}
