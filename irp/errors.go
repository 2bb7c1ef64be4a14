// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

import "fmt"

// Position locates an error inside an IRP notation string.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return fmt.Sprintf("offset %d", p.Offset)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError reports a grammar violation in IRP, lircd.conf, or a keymap
// file. It carries the position at which parsing failed.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}

// ValidationError reports a structural rule violation discovered after a
// successful parse (duplicate parameter, cyclic definition, oversized
// repeat count, and so on).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid IRP: " + e.Message
}

// UnknownVariable reports evaluation of an identifier with no bound value
// and no resolvable definition.
type UnknownVariable struct {
	Name string
}

func (e *UnknownVariable) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// ArithmeticError reports an illegal numeric operation: division or modulo
// by zero, a negative exponent, or a unit conversion that has no supporting
// GeneralSpec field (Pulses without a carrier, Units without a unit length).
type ArithmeticError struct {
	Message string
}

func (e *ArithmeticError) Error() string {
	return "arithmetic error: " + e.Message
}

// BitfieldOverflow reports a bit-field whose length falls outside 0..64, or
// a bit-spec with more than 16 alternatives.
type BitfieldOverflow struct {
	Message string
}

func (e *BitfieldOverflow) Error() string {
	return "bitfield overflow: " + e.Message
}

// EncodeError reports a failure while rendering an Irp to a raw timing
// Message: a trailing pulse, a bit symbol wider than the active bit-spec, an
// extent shorter than the elapsed time, a microsecond accumulator overflow,
// a missing parameter value, or a value outside its declared range.
type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return "encode error: " + e.Message
}

// LircdSynthesisError reports a malformed lircd remote definition that
// cannot be projected into an equivalent IRP string.
type LircdSynthesisError struct {
	Remote  string
	Message string
}

func (e *LircdSynthesisError) Error() string {
	if e.Remote == "" {
		return "lircd synthesis error: " + e.Message
	}
	return fmt.Sprintf("lircd synthesis error in remote %q: %s", e.Remote, e.Message)
}
