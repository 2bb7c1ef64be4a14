// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
)

func TestParameterSpecMask(t *testing.T) {
	assert.EqualValues(t, 0xff, irp.ParameterSpec{Max: 255}.Mask())
	assert.EqualValues(t, 0x1f, irp.ParameterSpec{Max: 31}.Mask())
	assert.EqualValues(t, 0, irp.ParameterSpec{Max: 0}.Mask())
}

func TestIrpParameterLookup(t *testing.T) {
	def := &irp.Irp{
		Parameters: []irp.ParameterSpec{{Name: "D", Min: 0, Max: 255}},
	}
	p, ok := def.Parameter("D")
	require.True(t, ok)
	assert.EqualValues(t, 255, p.Max)

	_, ok = def.Parameter("MISSING")
	assert.False(t, ok)
}

func TestNewVartableSeedsDefaultsAsDeferred(t *testing.T) {
	def := &irp.Irp{
		Definitions: []irp.Assignment{
			{Name: "K", Value: irp.Number{Value: 108}},
		},
		Parameters: []irp.ParameterSpec{
			{Name: "S", Min: 0, Max: 255, HasDefault: true, Default: irp.BinaryExpr{
				Op: irp.Sub, Left: irp.Number{Value: 255}, Right: irp.Ident{Name: "D"},
			}},
			{Name: "D", Min: 0, Max: 255},
		},
	}
	vars := def.NewVartable()
	vars.Set("D", 0xe9)

	v, err := vars.Lookup("S")
	require.NoError(t, err)
	assert.EqualValues(t, 0x16, v)

	v, err = vars.Lookup("K")
	require.NoError(t, err)
	assert.EqualValues(t, 108, v)
}
