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

func TestEvalArithmetic(t *testing.T) {
	vars := irp.NewVartable()
	vars.Set("X", 6)
	expr := irp.BinaryExpr{Op: irp.Add, Left: irp.Ident{Name: "X"}, Right: irp.Number{Value: 2}}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 8, v)
}

func TestEvalDivisionByZero(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.BinaryExpr{Op: irp.Div, Left: irp.Number{Value: 1}, Right: irp.Number{Value: 0}}
	_, err := irp.Eval(expr, vars)
	assert.Error(t, err)
}

func TestEvalShortCircuitLogicalAnd(t *testing.T) {
	vars := irp.NewVartable()
	// The right operand references an unbound variable; short-circuiting
	// on a false left operand must never evaluate it.
	expr := irp.BinaryExpr{
		Op:    irp.LogicalAnd,
		Left:  irp.Number{Value: 0},
		Right: irp.Ident{Name: "UNBOUND"},
	}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)
}

func TestEvalTernary(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.Ternary{
		Cond: irp.Number{Value: 1},
		Then: irp.Number{Value: 10},
		Else: irp.Number{Value: 20},
	}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 10, v)
}

func TestEvalBitField(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.BitField{
		Value:  irp.Number{Value: 0xe9},
		Length: irp.Number{Value: 4},
		Skip:   irp.Number{Value: 4},
	}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 0xe, v)
}

func TestEvalBitFieldReverse(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.BitField{
		Value:   irp.Number{Value: 0x1},
		Length:  irp.Number{Value: 4},
		Reverse: true,
	}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 0x8, v)
}

func TestEvalLog2OfNonPowerOfTwoFails(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.Log2Expr{Operand: irp.Number{Value: 6}}
	_, err := irp.Eval(expr, vars)
	assert.Error(t, err)
}

func TestEvalLog2(t *testing.T) {
	vars := irp.NewVartable()
	expr := irp.Log2Expr{Operand: irp.Number{Value: 8}}
	v, err := irp.Eval(expr, vars)
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)
}

func TestBitReverse(t *testing.T) {
	assert.EqualValues(t, 0x8, irp.BitReverse(0x1, 4, 0))
	assert.EqualValues(t, 0xf, irp.BitReverse(0xf, 4, 0))
}

func TestEvalUnknownIdentFails(t *testing.T) {
	vars := irp.NewVartable()
	_, err := irp.Eval(irp.Ident{Name: "MISSING"}, vars)
	assert.Error(t, err)
}

func TestVartableDeferredLookup(t *testing.T) {
	vars := irp.NewVartable()
	vars.Set("D", 5)
	vars.Defer("S", irp.BinaryExpr{Op: irp.Sub, Left: irp.Number{Value: 255}, Right: irp.Ident{Name: "D"}})

	assert.True(t, vars.Has("S"))
	assert.False(t, vars.Resolved("S"))

	v, err := vars.Lookup("S")
	require.NoError(t, err)
	assert.EqualValues(t, 250, v)
	assert.True(t, vars.Resolved("S"))
}

func TestVartableCloneIsIndependent(t *testing.T) {
	vars := irp.NewVartable()
	vars.Set("X", 1)
	clone := vars.Clone()
	clone.Set("X", 2)
	v, err := vars.Lookup("X")
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
}

func TestVartableConsts(t *testing.T) {
	vars := irp.NewVartable()
	vars.Set("X", 1)
	vars.Defer("Y", irp.Number{Value: 2})
	consts := vars.Consts()
	assert.Equal(t, map[string]int64{"X": 1}, consts)
}
