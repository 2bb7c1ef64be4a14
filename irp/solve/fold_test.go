// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package solve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/solve"
)

func TestFoldConstantArithmetic(t *testing.T) {
	expr := irp.BinaryExpr{Op: irp.Add, Left: irp.Number{Value: 2}, Right: irp.Number{Value: 3}}
	folded := solve.Fold(expr, nil)
	assert.Equal(t, irp.Number{Value: 5}, folded)
}

func TestFoldSubstitutesConsts(t *testing.T) {
	expr := irp.BinaryExpr{Op: irp.Sub, Left: irp.Number{Value: 255}, Right: irp.Ident{Name: "D"}}
	folded := solve.Fold(expr, map[string]int64{"D": 0xe9})
	assert.Equal(t, irp.Number{Value: 0x16}, folded)
}

func TestFoldStrengthReducesMulByPowerOfTwo(t *testing.T) {
	expr := irp.BinaryExpr{Op: irp.Mul, Left: irp.Ident{Name: "X"}, Right: irp.Number{Value: 4}}
	folded := solve.Fold(expr, nil)
	assert.Equal(t, irp.BinaryExpr{Op: irp.ShiftLeft, Left: irp.Ident{Name: "X"}, Right: irp.Number{Value: 2}}, folded)
}

func TestFoldIsIdempotent(t *testing.T) {
	exprs := []irp.Expression{
		irp.BinaryExpr{Op: irp.Add, Left: irp.Number{Value: 2}, Right: irp.Number{Value: 3}},
		irp.BinaryExpr{Op: irp.Sub, Left: irp.Number{Value: 255}, Right: irp.Ident{Name: "D"}},
		irp.BinaryExpr{Op: irp.Mul, Left: irp.Ident{Name: "X"}, Right: irp.Number{Value: 4}},
		irp.Ternary{Cond: irp.Ident{Name: "T"}, Then: irp.Number{Value: 1}, Else: irp.Number{Value: 2}},
		irp.BitField{Value: irp.Number{Value: 0xe9}, Length: irp.Number{Value: 4}, Skip: irp.Number{Value: 4}},
	}
	consts := map[string]int64{"D": 0xe9, "T": 0}
	for _, e := range exprs {
		once := solve.Fold(e, consts)
		twice := solve.Fold(once, consts)
		assert.Equal(t, once, twice)
	}
}

func TestFoldTernaryPicksBranch(t *testing.T) {
	expr := irp.Ternary{Cond: irp.Number{Value: 0}, Then: irp.Number{Value: 1}, Else: irp.Number{Value: 2}}
	assert.Equal(t, irp.Number{Value: 2}, solve.Fold(expr, nil))
}
