// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package solve implements C4: constant folding and the inverse solver
// used by the NFA builder to recover a decoded variable's value from the
// bits that were matched against it.
package solve

import "cirkit.dev/cir/irp"

// Fold performs a bottom-up constant-folding rewrite of expr: identifier
// references present in consts are replaced by their value, and any
// subtree whose operands are now all Number literals is evaluated and
// replaced by its result. Division/modulo by zero and negative exponents
// are left unfolded (the error surfaces at actual evaluation time
// instead). Fold also strength-reduces multiplication/division by a power
// of two to a shift, mirroring the corresponding optimization on the
// reference compiler. Fold(Fold(e)) == Fold(e): folding is already a
// fixed point because children are folded before their parent.
func Fold(expr irp.Expression, consts map[string]int64) irp.Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case irp.Number:
		return e
	case irp.Ident:
		if v, ok := consts[e.Name]; ok {
			return irp.Number{Value: v}
		}
		return e
	case irp.UnaryExpr:
		operand := Fold(e.Operand, consts)
		folded := irp.UnaryExpr{Op: e.Op, Operand: operand}
		if n, ok := operand.(irp.Number); ok {
			if v, err := irp.Eval(irp.UnaryExpr{Op: e.Op, Operand: n}, irp.NewVartable()); err == nil {
				return irp.Number{Value: v}
			}
		}
		return folded
	case irp.BinaryExpr:
		left := Fold(e.Left, consts)
		right := Fold(e.Right, consts)
		if reduced, ok := strengthReduce(e.Op, left, right); ok {
			return reduced
		}
		ln, lok := left.(irp.Number)
		rn, rok := right.(irp.Number)
		if lok && rok {
			if v, err := irp.Eval(irp.BinaryExpr{Op: e.Op, Left: ln, Right: rn}, irp.NewVartable()); err == nil {
				return irp.Number{Value: v}
			}
		}
		return irp.BinaryExpr{Op: e.Op, Left: left, Right: right}
	case irp.BitField:
		bf := irp.BitField{
			Value:   Fold(e.Value, consts),
			Length:  Fold(e.Length, consts),
			Skip:    Fold(e.Skip, consts),
			Reverse: e.Reverse,
		}
		if v, ok := bf.Value.(irp.Number); ok {
			length, lok := constOrNil(bf.Length)
			skip, sok := constOrNil(bf.Skip)
			if bf.Length == nil || lok {
				if bf.Skip == nil || sok {
					if val, err := irp.Eval(irp.BitField{Value: v, Length: numOrNil(bf.Length, length), Skip: numOrNil(bf.Skip, skip), Reverse: bf.Reverse}, irp.NewVartable()); err == nil {
						return irp.Number{Value: val}
					}
				}
			}
		}
		return bf
	case irp.Assignment:
		return irp.Assignment{Name: e.Name, Value: Fold(e.Value, consts)}
	case irp.List:
		items := make([]irp.Expression, len(e.Items))
		for i, it := range e.Items {
			items[i] = Fold(it, consts)
		}
		return irp.List{Items: items}
	case irp.Ternary:
		cond := Fold(e.Cond, consts)
		if n, ok := cond.(irp.Number); ok {
			if n.Value != 0 {
				return Fold(e.Then, consts)
			}
			return Fold(e.Else, consts)
		}
		return irp.Ternary{Cond: cond, Then: Fold(e.Then, consts), Else: Fold(e.Else, consts)}
	case irp.Flash:
		return irp.Flash{Value: Fold(e.Value, consts), Unit: e.Unit}
	case irp.Gap:
		return irp.Gap{Value: Fold(e.Value, consts), Unit: e.Unit}
	case irp.Extent:
		return irp.Extent{Value: Fold(e.Value, consts), Unit: e.Unit}
	case irp.Log2Expr:
		operand := Fold(e.Operand, consts)
		folded := irp.Log2Expr{Operand: operand}
		if n, ok := operand.(irp.Number); ok {
			if v, err := irp.Eval(irp.Log2Expr{Operand: n}, irp.NewVartable()); err == nil {
				return irp.Number{Value: v}
			}
		}
		return folded
	case irp.BitReverseExpr:
		value := Fold(e.Value, consts)
		length := Fold(e.Length, consts)
		skip := Fold(e.Skip, consts)
		folded := irp.BitReverseExpr{Value: value, Length: length, Skip: skip}
		vn, vok := value.(irp.Number)
		ln, lok := constOrNil(length)
		sn, sok := constOrNil(skip)
		if vok && lok && (skip == nil || sok) {
			if v, err := irp.Eval(irp.BitReverseExpr{Value: vn, Length: irp.Number{Value: ln}, Skip: irp.Number{Value: sn}}, irp.NewVartable()); err == nil {
				return irp.Number{Value: v}
			}
		}
		return folded
	default:
		return expr
	}
}

func constOrNil(e irp.Expression) (int64, bool) {
	if e == nil {
		return 0, true
	}
	n, ok := e.(irp.Number)
	return n.Value, ok
}

func numOrNil(e irp.Expression, v int64) irp.Expression {
	if e == nil {
		return nil
	}
	return irp.Number{Value: v}
}

// strengthReduce rewrites `x * 2^k` and `x / 2^k` into shifts, when the
// power-of-two operand is a constant.
func strengthReduce(op irp.BinOp, left, right irp.Expression) (irp.Expression, bool) {
	if op != irp.Mul && op != irp.Div {
		return nil, false
	}
	rn, ok := right.(irp.Number)
	if !ok || rn.Value <= 0 {
		return nil, false
	}
	shift, isPow2 := log2(rn.Value)
	if !isPow2 {
		return nil, false
	}
	newOp := irp.ShiftLeft
	if op == irp.Div {
		newOp = irp.ShiftRight
	}
	return irp.BinaryExpr{Op: newOp, Left: left, Right: irp.Number{Value: shift}}, true
}

func log2(v int64) (int64, bool) {
	if v <= 0 || v&(v-1) != 0 {
		return 0, false
	}
	var n int64
	for v > 1 {
		v >>= 1
		n++
	}
	return n, true
}
