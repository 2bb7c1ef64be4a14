// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package solve

import "cirkit.dev/cir/irp"

// Solution is the result of inverting `left = right` for one variable
// appearing in right: Expr computes the variable's value given Left (the
// known, already-decoded side of the equation, referenced inside Expr as
// the sentinel identifier "$left"), and Mask reports which bits of the
// variable this solution defines (the rest are left at whatever the
// Vartable already holds, normally zero).
type Solution struct {
	Var  string
	Expr irp.Expression
	Mask int64
}

const leftSentinel = "$left"

// Invert solves `left = right` for varName, where right is assumed to
// mention varName exactly once along the path the algorithm follows
// (terms not containing varName must already be fully known so they can
// be evaluated once substituted into Expr at solve time). left is
// typically the identifier of a decoded-bits accumulator; right is the
// expression a parameter was declared equal to, e.g. the S in
// `S:0..255=255-D` being solved for from a captured bit-group, or a
// direct bitfield `D:8`.
func Invert(left irp.Expression, right irp.Expression, varName string) (Solution, error) {
	expr, mask, err := invert(left, right, varName)
	if err != nil {
		return Solution{}, err
	}
	return Solution{Var: varName, Expr: expr, Mask: mask}, nil
}

func invert(left irp.Expression, right irp.Expression, varName string) (irp.Expression, int64, error) {
	switch r := right.(type) {
	case irp.Ident:
		if r.Name == varName {
			return left, -1, nil
		}
		return nil, 0, &irp.ValidationError{Message: "cannot invert: identifier does not match target variable"}
	case irp.UnaryExpr:
		switch r.Op {
		case irp.Complement:
			return invert(irp.UnaryExpr{Op: irp.Complement, Operand: left}, r.Operand, varName)
		case irp.Negate:
			return invert(irp.UnaryExpr{Op: irp.Negate, Operand: left}, r.Operand, varName)
		default:
			return nil, 0, &irp.ValidationError{Message: "cannot invert through this unary operator"}
		}
	case irp.BinaryExpr:
		return invertBinary(left, r, varName)
	case irp.BitField:
		return invertBitField(left, r, varName)
	default:
		return nil, 0, &irp.ValidationError{Message: "cannot invert this expression kind"}
	}
}

func mentions(e irp.Expression, name string) bool {
	found := false
	irp.Visit(e, func(n irp.Expression) {
		if found {
			return
		}
		if id, ok := n.(irp.Ident); ok && id.Name == name {
			found = true
		}
	})
	return found
}

func invertBinary(left irp.Expression, r irp.BinaryExpr, varName string) (irp.Expression, int64, error) {
	leftHas := mentions(r.Left, varName)
	rightHas := mentions(r.Right, varName)
	if leftHas == rightHas {
		// Both or neither side mentions the variable: only the additive
		// disjoint-bitmask partition (handled by PartitionAdditive) can
		// resolve this; a bare Invert call cannot.
		return nil, 0, &irp.ValidationError{Message: "variable appears on both or neither side of the operator"}
	}
	switch r.Op {
	case irp.Add:
		if leftHas {
			return invert(irp.BinaryExpr{Op: irp.Sub, Left: left, Right: r.Right}, r.Left, varName)
		}
		return invert(irp.BinaryExpr{Op: irp.Sub, Left: left, Right: r.Left}, r.Right, varName)
	case irp.Sub:
		if leftHas {
			return invert(irp.BinaryExpr{Op: irp.Add, Left: left, Right: r.Right}, r.Left, varName)
		}
		return invert(irp.BinaryExpr{Op: irp.Sub, Left: r.Left, Right: left}, r.Right, varName)
	case irp.BitXor:
		if leftHas {
			return invert(irp.BinaryExpr{Op: irp.BitXor, Left: left, Right: r.Right}, r.Left, varName)
		}
		return invert(irp.BinaryExpr{Op: irp.BitXor, Left: left, Right: r.Left}, r.Right, varName)
	case irp.Mul:
		if leftHas {
			return invert(irp.BinaryExpr{Op: irp.Div, Left: left, Right: r.Right}, r.Left, varName)
		}
		return invert(irp.BinaryExpr{Op: irp.Div, Left: left, Right: r.Left}, r.Right, varName)
	case irp.Div:
		if !leftHas {
			return nil, 0, &irp.ValidationError{Message: "cannot invert division by the target variable"}
		}
		return invert(irp.BinaryExpr{Op: irp.Mul, Left: left, Right: r.Right}, r.Left, varName)
	case irp.ShiftLeft:
		if !leftHas {
			return nil, 0, &irp.ValidationError{Message: "cannot invert a shift by the target variable"}
		}
		expr, mask, err := invert(irp.BinaryExpr{Op: irp.ShiftRight, Left: left, Right: r.Right}, r.Left, varName)
		if err != nil {
			return nil, 0, err
		}
		if mask != -1 {
			if n, ok := r.Right.(irp.Number); ok {
				mask <<= uint(n.Value)
			}
		}
		return expr, mask, nil
	case irp.ShiftRight:
		if !leftHas {
			return nil, 0, &irp.ValidationError{Message: "cannot invert a shift by the target variable"}
		}
		return invert(irp.BinaryExpr{Op: irp.ShiftLeft, Left: left, Right: r.Right}, r.Left, varName)
	case irp.Pow:
		// 2 ** var: base must be the constant 2.
		if base, ok := r.Left.(irp.Number); ok && base.Value == 2 && rightHas {
			return irp.BuiltinLog2(left), -1, nil
		}
		return nil, 0, &irp.ValidationError{Message: "only 2**var is invertible for power expressions"}
	default:
		return nil, 0, &irp.ValidationError{Message: "operator is not invertible"}
	}
}

func invertBitField(left irp.Expression, bf irp.BitField, varName string) (irp.Expression, int64, error) {
	value := bf.Value
	complemented := false
	if u, ok := value.(irp.UnaryExpr); ok && u.Op == irp.Complement {
		value = u.Operand
		complemented = true
	}
	id, ok := value.(irp.Ident)
	if !ok || id.Name != varName {
		return nil, 0, &irp.ValidationError{Message: "bitfield value is not a bare (optionally complemented) target variable"}
	}
	length, lok := bf.Length.(irp.Number)
	if !lok {
		return nil, 0, &irp.ValidationError{Message: "bitfield length must be a compile-time constant to invert"}
	}
	var skip int64
	if bf.Skip != nil {
		s, ok := bf.Skip.(irp.Number)
		if !ok {
			return nil, 0, &irp.ValidationError{Message: "bitfield skip must be a compile-time constant to invert"}
		}
		skip = s.Value
	}
	field := left
	if bf.Reverse {
		field = irp.BuiltinBitReverse(left, length.Value, 0)
	}
	if complemented {
		field = irp.UnaryExpr{Op: irp.Complement, Operand: field}
	}
	expr := irp.BinaryExpr{Op: irp.ShiftLeft, Left: field, Right: irp.Number{Value: skip}}
	mask := fieldMask(length.Value) << uint(skip)
	return expr, mask, nil
}

func fieldMask(length int64) int64 {
	if length >= 64 {
		return -1
	}
	return (int64(1) << uint(length)) - 1
}
