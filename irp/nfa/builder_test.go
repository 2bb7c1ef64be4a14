// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nfa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/irp/variant"
)

func TestCompileNECDown(t *testing.T) {
	def, err := parser.Parse("{38.4k,564}<1,-1|1,-3>(16,-8,D:8,S:8,F:8,~F:8,1,^108m)* [D:0..255,S:0..255=255-D,F:0..255]")
	require.NoError(t, err)
	split, err := variant.Compute(def)
	require.NoError(t, err)

	n, err := nfa.Compile(def, split.Down)
	require.NoError(t, err)
	require.NotEmpty(t, n.Verts)

	var sawDone bool
	for _, v := range n.Verts {
		for _, e := range v.Edges {
			if e.Kind == nfa.EdgeDone {
				sawDone = true
				assert.Contains(t, e.Params, "D")
				assert.Contains(t, e.Params, "F")
			}
		}
	}
	assert.True(t, sawDone, "expected at least one EdgeDone edge")
}

func TestConfigMatchesTolerance(t *testing.T) {
	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3}
	assert.True(t, cfg.Matches(9024, 9050))
	assert.True(t, cfg.Matches(9024, 9000))
	assert.False(t, cfg.Matches(9024, 20000))
}

func TestDefaultConfig(t *testing.T) {
	cfg := nfa.DefaultConfig()
	assert.EqualValues(t, 100, cfg.AepsMicroseconds)
	assert.EqualValues(t, 30, cfg.EpsPercent)
	assert.EqualValues(t, 20000, cfg.MaxGapMicroseconds)
}
