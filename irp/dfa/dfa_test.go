// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dfa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/dfa"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/irp/variant"
)

func TestBuildNECDownIsDeterministic(t *testing.T) {
	def, err := parser.Parse("{38.4k,564}<1,-1|1,-3>(16,-8,D:8,S:8,F:8,~F:8,1,^108m)* [D:0..255,S:0..255=255-D,F:0..255]")
	require.NoError(t, err)
	split, err := variant.Compute(def)
	require.NoError(t, err)

	n, err := nfa.Compile(def, split.Down)
	require.NoError(t, err)

	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3, MaxGapMicroseconds: 20000}
	d, err := dfa.Build(n, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, d.States)

	// Determinism: every state's edges must cover disjoint (kind, range)
	// combinations so at most one edge ever matches a given sample.
	for _, s := range d.States {
		for i := 0; i < len(s.Edges); i++ {
			for j := i + 1; j < len(s.Edges); j++ {
				a, b := s.Edges[i], s.Edges[j]
				if a.Kind != b.Kind {
					continue
				}
				overlap := a.Min <= b.Max && b.Min <= a.Max
				assert.Falsef(t, overlap, "overlapping edges %+v and %+v in a deterministic state", a, b)
			}
		}
	}

	var sawDone bool
	for _, s := range d.States {
		if s.Done {
			sawDone = true
			assert.Contains(t, s.Params, "D")
		}
	}
	assert.True(t, sawDone)
}
