// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package solve_test

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/solve"
)

// genExpr builds a random, small arithmetic expression tree over a single
// constant "K", the way fold_test.go's hand-written cases do, but drawn
// from rapid so idempotence is checked across many shapes rather than the
// handful picked by hand.
func genExpr(t *rapid.T, depth int) irp.Expression {
	if depth <= 0 || rapid.Bool().Draw(t, "leaf") {
		if rapid.Bool().Draw(t, "isIdent") {
			return irp.Ident{Name: "K"}
		}
		return irp.Number{Value: rapid.Int64Range(-64, 64).Draw(t, "value")}
	}
	op := rapid.SampledFrom([]irp.BinOp{irp.Add, irp.Sub, irp.Mul, irp.BitXor}).Draw(t, "op")
	left := genExpr(t, depth-1)
	right := genExpr(t, depth-1)
	return irp.BinaryExpr{Op: op, Left: left, Right: right}
}

func TestFoldIsIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.Int64Range(-32, 32).Draw(t, "k")
		consts := map[string]int64{"K": k}
		e := genExpr(t, 3)

		once := solve.Fold(e, consts)
		twice := solve.Fold(once, consts)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("Fold not idempotent: once=%#v twice=%#v", once, twice)
		}
	})
}

func TestParameterSpecMaskCoversMaxProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		max := rapid.Int64Range(0, 1<<20).Draw(t, "max")
		p := irp.ParameterSpec{Max: max}
		mask := p.Mask()
		if max > 0 {
			if mask < max {
				t.Fatalf("mask %d smaller than max %d", mask, max)
			}
			if mask&(mask+1) != 0 {
				t.Fatalf("mask %d is not of the form 2^n-1", mask)
			}
		} else if mask != 0 {
			t.Fatalf("expected zero mask for max=%d, got %d", max, mask)
		}
	})
}
