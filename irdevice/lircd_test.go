// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irdevice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
)

func TestParseSampleLinePulseAndSpace(t *testing.T) {
	sample, ok, err := parseSampleLine("pulse 9000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, irp.Flash2(9000), sample)

	sample, ok, err = parseSampleLine("space 4500")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, irp.Gap2(4500), sample)
}

func TestParseSampleLineTimeout(t *testing.T) {
	sample, ok, err := parseSampleLine("timeout 131000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, irp.Reset(), sample)
}

func TestParseSampleLineComment(t *testing.T) {
	_, ok, err := parseSampleLine("# a comment")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseSampleLineZeroLength(t *testing.T) {
	_, _, err := parseSampleLine("pulse 0")
	require.Error(t, err)
}

func TestParseSampleLineUnexpectedToken(t *testing.T) {
	_, _, err := parseSampleLine("bogus 1")
	require.Error(t, err)
}
