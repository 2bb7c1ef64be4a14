// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

// Clone returns a structural copy of expr; mutating the copy (or any
// expression reachable from it) never affects expr. Nil is returned for a
// nil input so callers can clone optional fields (Skip, Length) directly.
func Clone(expr Expression) Expression {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case Number:
		return e
	case Ident:
		return e
	case Flash:
		return Flash{Value: Clone(e.Value), Unit: e.Unit}
	case Gap:
		return Gap{Value: Clone(e.Value), Unit: e.Unit}
	case Extent:
		return Extent{Value: Clone(e.Value), Unit: e.Unit}
	case BinaryExpr:
		return BinaryExpr{Op: e.Op, Left: Clone(e.Left), Right: Clone(e.Right)}
	case UnaryExpr:
		return UnaryExpr{Op: e.Op, Operand: Clone(e.Operand)}
	case BitField:
		return BitField{Value: Clone(e.Value), Length: Clone(e.Length), Skip: Clone(e.Skip), Reverse: e.Reverse}
	case Assignment:
		return Assignment{Name: e.Name, Value: Clone(e.Value)}
	case List:
		items := make([]Expression, len(e.Items))
		for i, it := range e.Items {
			items[i] = Clone(it)
		}
		return List{Items: items}
	case Ternary:
		return Ternary{Cond: Clone(e.Cond), Then: Clone(e.Then), Else: Clone(e.Else)}
	case Stream:
		return Stream{BitSpec: cloneSlice(e.BitSpec), Body: cloneSlice(e.Body), Repeat: e.Repeat}
	case Variation:
		variants := make([][]Expression, len(e.Variants))
		for i, v := range e.Variants {
			variants[i] = cloneSlice(v)
		}
		return Variation{Variants: variants}
	case Log2Expr:
		return Log2Expr{Operand: Clone(e.Operand)}
	case BitReverseExpr:
		return BitReverseExpr{Value: Clone(e.Value), Length: Clone(e.Length), Skip: Clone(e.Skip)}
	default:
		return expr
	}
}

func cloneSlice(in []Expression) []Expression {
	if in == nil {
		return nil
	}
	out := make([]Expression, len(in))
	for i, e := range in {
		out[i] = Clone(e)
	}
	return out
}

// Visit walks expr preorder, invoking fn on every node reached, including
// expr itself. Traversal order follows field declaration order above.
func Visit(expr Expression, fn func(Expression)) {
	if expr == nil {
		return
	}
	fn(expr)
	switch e := expr.(type) {
	case Flash:
		Visit(e.Value, fn)
	case Gap:
		Visit(e.Value, fn)
	case Extent:
		Visit(e.Value, fn)
	case BinaryExpr:
		Visit(e.Left, fn)
		Visit(e.Right, fn)
	case UnaryExpr:
		Visit(e.Operand, fn)
	case BitField:
		Visit(e.Value, fn)
		Visit(e.Length, fn)
		Visit(e.Skip, fn)
	case Assignment:
		Visit(e.Value, fn)
	case List:
		for _, it := range e.Items {
			Visit(it, fn)
		}
	case Ternary:
		Visit(e.Cond, fn)
		Visit(e.Then, fn)
		Visit(e.Else, fn)
	case Stream:
		for _, b := range e.BitSpec {
			Visit(b, fn)
		}
		for _, b := range e.Body {
			Visit(b, fn)
		}
	case Variation:
		for _, v := range e.Variants {
			for _, item := range v {
				Visit(item, fn)
			}
		}
	case Log2Expr:
		Visit(e.Operand, fn)
	case BitReverseExpr:
		Visit(e.Value, fn)
		Visit(e.Length, fn)
		Visit(e.Skip, fn)
	}
}

// CloneFilter returns a structural copy of expr, substituting the result
// of fn(node) for any node where fn returns a non-nil replacement (and
// ok==true); children of a replaced node are not visited. A nil, false
// result from fn at the root of expr drops expr entirely (callers must
// handle that when expr is required, e.g. the top-level Stream).
func CloneFilter(expr Expression, fn func(Expression) (Expression, bool)) Expression {
	if expr == nil {
		return nil
	}
	if repl, ok := fn(expr); ok {
		return repl
	}
	switch e := expr.(type) {
	case Flash:
		return Flash{Value: CloneFilter(e.Value, fn), Unit: e.Unit}
	case Gap:
		return Gap{Value: CloneFilter(e.Value, fn), Unit: e.Unit}
	case Extent:
		return Extent{Value: CloneFilter(e.Value, fn), Unit: e.Unit}
	case BinaryExpr:
		return BinaryExpr{Op: e.Op, Left: CloneFilter(e.Left, fn), Right: CloneFilter(e.Right, fn)}
	case UnaryExpr:
		return UnaryExpr{Op: e.Op, Operand: CloneFilter(e.Operand, fn)}
	case BitField:
		return BitField{
			Value:   CloneFilter(e.Value, fn),
			Length:  CloneFilter(e.Length, fn),
			Skip:    CloneFilter(e.Skip, fn),
			Reverse: e.Reverse,
		}
	case Assignment:
		return Assignment{Name: e.Name, Value: CloneFilter(e.Value, fn)}
	case List:
		items := make([]Expression, len(e.Items))
		for i, it := range e.Items {
			items[i] = CloneFilter(it, fn)
		}
		return List{Items: items}
	case Ternary:
		return Ternary{Cond: CloneFilter(e.Cond, fn), Then: CloneFilter(e.Then, fn), Else: CloneFilter(e.Else, fn)}
	case Stream:
		return Stream{BitSpec: cloneFilterSlice(e.BitSpec, fn), Body: cloneFilterSlice(e.Body, fn), Repeat: e.Repeat}
	case Variation:
		variants := make([][]Expression, len(e.Variants))
		for i, v := range e.Variants {
			variants[i] = cloneFilterSlice(v, fn)
		}
		return Variation{Variants: variants}
	case Log2Expr:
		return Log2Expr{Operand: CloneFilter(e.Operand, fn)}
	case BitReverseExpr:
		return BitReverseExpr{
			Value:  CloneFilter(e.Value, fn),
			Length: CloneFilter(e.Length, fn),
			Skip:   CloneFilter(e.Skip, fn),
		}
	default:
		return expr
	}
}

func cloneFilterSlice(in []Expression, fn func(Expression) (Expression, bool)) []Expression {
	if in == nil {
		return nil
	}
	out := make([]Expression, len(in))
	for i, e := range in {
		out[i] = CloneFilter(e, fn)
	}
	return out
}
