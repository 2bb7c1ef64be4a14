// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package irp implements the core data model of the IRP Notation: the
// expression AST (C1), the top-level Irp/GeneralSpec/ParameterSpec types
// (§3), and the pure evaluator that walks the AST against a Vartable.
//
// The AST follows the "value-typed tree with structural copy" option noted
// in the design notes: every node is a small struct implementing the
// Expression interface, and Clone produces an independent copy cheaply
// enough that rewriting passes (constant folding, inverse solving) never
// need pointer-identity tricks.
package irp

// BinOp identifies a binary operator node.
type BinOp int

// Binary operators. The order is just an enumeration; it does not follow
// operator precedence.
const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LogicalAnd
	LogicalOr
)

// UnOp identifies a unary (prefix) operator node.
type UnOp int

const (
	Negate UnOp = iota
	Complement
	LogicalNot
	BitCountOp
)

// Expression is the sum type at the heart of the AST. Every concrete node
// type below implements it; the implementation is closed (type-switches in
// eval.go, clone.go, render.go enumerate all of them).
type Expression interface {
	expr()
}

// Number is an integer literal.
type Number struct {
	Value int64
}

// Ident is a variable or parameter reference.
type Ident struct {
	Name string
}

// Flash is an IR-on period. Value is usually a Number or Ident but may be
// any expression; Unit scales it to microseconds.
type Flash struct {
	Value Expression
	Unit  Unit
}

// Gap is an IR-off period.
type Gap struct {
	Value Expression
	Unit  Unit
}

// Extent pads the frame so its total elapsed duration since the nearest
// enclosing repeat marker equals Value.
type Extent struct {
	Value Expression
	Unit  Unit
}

// BinaryExpr is a two-operand arithmetic, bitwise, shift, comparison, or
// logical expression.
type BinaryExpr struct {
	Op          BinOp
	Left, Right Expression
}

// UnaryExpr is a prefix operator applied to one operand.
type UnaryExpr struct {
	Op      UnOp
	Operand Expression
}

// BitField extracts or stores `length` bits of Value, skipping the
// low-order `skip` bits first. Length == nil denotes the infinite
// bit-field `value::skip` (consumes all remaining bits). Reverse reverses
// the extracted/stored bits within the field (source syntax `:-length`).
type BitField struct {
	Value         Expression
	Length        Expression // nil => infinite bit-field
	Skip          Expression // nil => 0
	Reverse       bool
}

// Assignment binds Value to Name, both as a definition (`{name=expr}`) and
// as an in-stream side effect (`name=expr` inside a body).
type Assignment struct {
	Name  string
	Value Expression
}

// List is a comma-separated sequence of expressions; as a standalone
// expression its value is that of its last element, evaluated left to
// right for side effects (assignments).
type List struct {
	Items []Expression
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond, Then, Else Expression
}

// RepeatMarker tags how many times a Stream's body repeats.
type RepeatMarker struct {
	// Kind is one of "", "*", "+", "n", "n+" (empty means "exactly once,
	// no marker present").
	Kind  string
	Count int // meaningful when Kind is "n" or "n+"
}

// None reports whether the marker is the trivial "no repeat" marker.
func (r RepeatMarker) None() bool { return r.Kind == "" }

// Stream is `<bit-spec>(body)repeat`. BitSpec holds one Expression per
// bit-spec alternative (each itself typically a List of flash/gap atoms);
// a nil BitSpec means the stream inherits its enclosing bit-spec. Body is
// the parenthesized sequence. A Stream may itself appear inside Body,
// which is how nested bit-specs and sub-streams with their own repeat
// marker are expressed.
type Stream struct {
	BitSpec []Expression // nil => inherit enclosing bit-spec
	Body    []Expression
	Repeat  RepeatMarker
}

// Variation is the ordered alternation `[down][repeat][up]`; it must only
// appear directly inside a Stream's Body, and expands during variant
// splitting (irp/variant) into between two and three separate streams.
type Variation struct {
	Variants [][]Expression // 2 or 3 variants: down, repeat, [up]
}

// Log2Expr computes the base-2 logarithm of Operand; it is produced only
// by the inverse solver (irp/solve) inverting a `2 ** var` equation, never
// by the parser.
type Log2Expr struct {
	Operand Expression
}

// BitReverseExpr reverses the Length-wide field of Value starting at bit
// Skip; it is produced by the inverse solver when inverting a reversed
// bitfield, and corresponds to the `BitReverse` builtin in §4.1.
type BitReverseExpr struct {
	Value, Length, Skip Expression
}

func (Number) expr()      {}
func (Ident) expr()       {}
func (Flash) expr()       {}
func (Gap) expr()         {}
func (Extent) expr()      {}
func (BinaryExpr) expr()  {}
func (UnaryExpr) expr()   {}
func (BitField) expr()    {}
func (Assignment) expr()  {}
func (List) expr()        {}
func (Ternary) expr()     {}
func (Stream) expr()         {}
func (Variation) expr()      {}
func (Log2Expr) expr()       {}
func (BitReverseExpr) expr() {}
