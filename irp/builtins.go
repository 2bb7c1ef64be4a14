// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

// BuiltinLog2 constructs the expression log2(operand), used by the
// inverse solver (irp/solve) when inverting `2 ** var`.
func BuiltinLog2(operand Expression) Expression {
	return Log2Expr{Operand: operand}
}

// BuiltinBitReverse constructs the expression bitreverse(value, length,
// skip), used by the inverse solver when inverting a reversed bitfield.
func BuiltinBitReverse(value Expression, length, skip int64) Expression {
	return BitReverseExpr{Value: value, Length: Number{Value: length}, Skip: Number{Value: skip}}
}
