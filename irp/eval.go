// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

import "math/bits"

// Eval evaluates expr against vars. Arithmetic is performed in 64-bit
// signed integers; overflow wraps, matching plain Go int64 semantics.
func Eval(expr Expression, vars *Vartable) (int64, error) {
	switch e := expr.(type) {
	case Number:
		return e.Value, nil
	case Ident:
		return vars.Lookup(e.Name)
	case Flash:
		return evalTiming(e.Value, vars)
	case Gap:
		return evalTiming(e.Value, vars)
	case Extent:
		return evalTiming(e.Value, vars)
	case BinaryExpr:
		return evalBinary(e, vars)
	case UnaryExpr:
		return evalUnary(e, vars)
	case BitField:
		return evalBitField(e, vars)
	case Assignment:
		val, err := Eval(e.Value, vars)
		if err != nil {
			return 0, err
		}
		vars.Set(e.Name, val)
		return val, nil
	case List:
		var val int64
		var err error
		for _, item := range e.Items {
			if val, err = Eval(item, vars); err != nil {
				return 0, err
			}
		}
		return val, nil
	case Log2Expr:
		v, err := Eval(e.Operand, vars)
		if err != nil {
			return 0, err
		}
		if v <= 0 || v&(v-1) != 0 {
			return 0, &ArithmeticError{Message: "log2 of a non-power-of-two value"}
		}
		return int64(bits.Len64(uint64(v)) - 1), nil
	case BitReverseExpr:
		value, err := Eval(e.Value, vars)
		if err != nil {
			return 0, err
		}
		length, err := Eval(e.Length, vars)
		if err != nil {
			return 0, err
		}
		var skip int64
		if e.Skip != nil {
			if skip, err = Eval(e.Skip, vars); err != nil {
				return 0, err
			}
		}
		return BitReverse(value, length, skip), nil
	case Ternary:
		cond, err := Eval(e.Cond, vars)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return Eval(e.Then, vars)
		}
		return Eval(e.Else, vars)
	default:
		return 0, &ArithmeticError{Message: "expression kind cannot be evaluated standalone"}
	}
}

// evalTiming evaluates the value carried by a Flash/Gap/Extent node; the
// unit conversion itself is applied by the caller (NFA/encoder), which
// needs the pre-conversion integer too (e.g. to look up a FlashVar length).
func evalTiming(value Expression, vars *Vartable) (int64, error) {
	return Eval(value, vars)
}

func evalBinary(e BinaryExpr, vars *Vartable) (int64, error) {
	l, err := Eval(e.Left, vars)
	if err != nil {
		return 0, err
	}
	// Short-circuit logical operators.
	if e.Op == LogicalAnd {
		if l == 0 {
			return 0, nil
		}
		r, err := Eval(e.Right, vars)
		if err != nil {
			return 0, err
		}
		return boolToInt(r != 0), nil
	}
	if e.Op == LogicalOr {
		if l != 0 {
			return 1, nil
		}
		r, err := Eval(e.Right, vars)
		if err != nil {
			return 0, err
		}
		return boolToInt(r != 0), nil
	}
	r, err := Eval(e.Right, vars)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		if r == 0 {
			return 0, &ArithmeticError{Message: "division by zero"}
		}
		return l / r, nil
	case Mod:
		if r == 0 {
			return 0, &ArithmeticError{Message: "modulo by zero"}
		}
		return l % r, nil
	case Pow:
		if r < 0 {
			return 0, &ArithmeticError{Message: "negative exponent"}
		}
		return intPow(l, r), nil
	case BitAnd:
		return l & r, nil
	case BitOr:
		return l | r, nil
	case BitXor:
		return l ^ r, nil
	case ShiftLeft:
		return l << uint(r), nil
	case ShiftRight:
		return l >> uint(r), nil
	case Eq:
		return boolToInt(l == r), nil
	case Ne:
		return boolToInt(l != r), nil
	case Lt:
		return boolToInt(l < r), nil
	case Le:
		return boolToInt(l <= r), nil
	case Gt:
		return boolToInt(l > r), nil
	case Ge:
		return boolToInt(l >= r), nil
	default:
		return 0, &ArithmeticError{Message: "unknown binary operator"}
	}
}

func evalUnary(e UnaryExpr, vars *Vartable) (int64, error) {
	v, err := Eval(e.Operand, vars)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case Negate:
		return -v, nil
	case Complement:
		return ^v, nil
	case LogicalNot:
		return boolToInt(v == 0), nil
	case BitCountOp:
		// BitCount masks to the logical bit-width of its operand before
		// counting: the width is the minimal number of bits that holds v
		// (or 64 if v is negative).
		return int64(bits.OnesCount64(uint64(v) & widthMask(v))), nil
	default:
		return 0, &ArithmeticError{Message: "unknown unary operator"}
	}
}

// widthMask returns a mask covering the minimal bit-width needed to
// represent v (treating v as unsigned), or all 64 bits for values that
// already use the sign bit.
func widthMask(v int64) uint64 {
	u := uint64(v)
	if u == 0 {
		return 0
	}
	width := bits.Len64(u)
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// BitReverse reverses the length-wide field of value starting at bit skip
// and returns just the reversed field, shifted down to bit 0, matching the
// IRP built-in function semantics (callers re-insert it where needed).
func BitReverse(value int64, length, skip int64) int64 {
	if length <= 0 {
		return 0
	}
	field := (value >> uint(skip)) & fieldMask(length)
	var out int64
	for i := int64(0); i < length; i++ {
		if field&(1<<uint(i)) != 0 {
			out |= 1 << uint(length-1-i)
		}
	}
	return out
}

func fieldMask(length int64) int64 {
	if length >= 64 {
		return -1
	}
	return (int64(1) << uint(length)) - 1
}

func evalBitField(e BitField, vars *Vartable) (int64, error) {
	value, err := Eval(e.Value, vars)
	if err != nil {
		return 0, err
	}
	var skip int64
	if e.Skip != nil {
		if skip, err = Eval(e.Skip, vars); err != nil {
			return 0, err
		}
	}
	if e.Length == nil {
		// Infinite bit-field: consume all remaining bits above skip.
		field := value >> uint(skip)
		if e.Reverse {
			return BitReverse(field, 64-skip, 0), nil
		}
		return field, nil
	}
	length, err := Eval(e.Length, vars)
	if err != nil {
		return 0, err
	}
	if length < 0 || length > 64 {
		return 0, &BitfieldOverflow{Message: "bit-field length out of 0..64 range"}
	}
	field := (value >> uint(skip)) & fieldMask(length)
	if e.Reverse {
		field = BitReverse(field, length, 0)
	}
	return field, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intPow(base, exp int64) int64 {
	var result int64 = 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}
