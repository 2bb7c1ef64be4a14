// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package variant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/irp/variant"
)

func TestComputeNECWholeStreamRepeats(t *testing.T) {
	def, err := parser.Parse("{38.4k,564}<1,-1|1,-3>(16,-8,D:8,S:8,F:8,~F:8,1,^108m)* [D:0..255,S:0..255=255-D,F:0..255]")
	require.NoError(t, err)

	split, err := variant.Compute(def)
	require.NoError(t, err)
	assert.False(t, split.HasUp)
	assert.NotEmpty(t, split.Down.Body)
	assert.Equal(t, split.Down.Body, split.Repeat.Body)
}

func TestComputeRC5MarkedSubstream(t *testing.T) {
	def, err := parser.Parse("{36k,msb,889}<1,-1|-1,1>((1,~F:1:6,T:1,D:5,F:6,^114m)*,T=1-T)[D:0..31,F:0..127,T@:0..1=0]")
	require.NoError(t, err)

	split, err := variant.Compute(def)
	require.NoError(t, err)
	assert.True(t, split.HasUp)
	assert.Empty(t, split.Down.Body)
	assert.NotEmpty(t, split.Repeat.Body)
}

func TestComputeSony8NoRepeatMarker(t *testing.T) {
	def, err := parser.Parse("{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]")
	require.NoError(t, err)

	split, err := variant.Compute(def)
	require.NoError(t, err)
	assert.False(t, split.HasUp)
	assert.Equal(t, split.Down.Body, split.Repeat.Body)
}
