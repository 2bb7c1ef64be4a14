// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package parser

import (
	"fmt"

	"cirkit.dev/cir/irp"
)

// Parse parses a single IRP notation string into a validated irp.Irp. It
// is the only exported entry point of this package, matching the single
// `parse` operation C2 exposes in the design.
func Parse(source string) (*irp.Irp, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}
	result := &irp.Irp{}
	result.General, err = p.parseGeneralSpec()
	if err != nil {
		return nil, err
	}
	result.Stream, err = p.parseStream()
	if err != nil {
		return nil, err
	}
	for p.at("{") {
		defs, err := p.parseDefinitions()
		if err != nil {
			return nil, err
		}
		result.Definitions = append(result.Definitions, defs...)
	}
	if p.at("[") {
		result.Parameters, err = p.parseParameters()
		if err != nil {
			return nil, err
		}
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input")
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

type parser struct {
	toks []token
	pos  int
}

func newParser(source string) (*parser, error) {
	lx := newLexer(source)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &parser{toks: toks}, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) at(punct string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == punct
}

func (p *parser) atIdent(name string) bool {
	t := p.cur()
	return t.kind == tokIdent && t.text == name
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(punct string) error {
	if !p.at(punct) {
		return p.errorf("expected %q, got %q", punct, p.describeCur())
	}
	p.advance()
	return nil
}

func (p *parser) describeCur() string {
	t := p.cur()
	if t.kind == tokEOF {
		return "<eof>"
	}
	return t.text
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &irp.ParseError{Pos: p.cur().pos, Message: fmt.Sprintf(format, args...)}
}

// ---- General spec ----

func (p *parser) parseGeneralSpec() (irp.GeneralSpec, error) {
	g := irp.DefaultGeneralSpec()
	if !p.at("{") {
		return g, nil
	}
	p.advance()
	first := true
	for !p.at("}") {
		if !first {
			if err := p.expect(","); err != nil {
				return g, err
			}
		}
		first = false
		if p.atIdent("msb") {
			p.advance()
			g.LSBFirst = false
			continue
		}
		if p.atIdent("lsb") {
			p.advance()
			g.LSBFirst = true
			continue
		}
		// A signed/unsigned, possibly fractional number, followed by an
		// optional unit letter or a duty-cycle '%'.
		neg := false
		if p.at("-") {
			neg = true
			p.advance()
		}
		if p.cur().kind != tokNumber {
			return g, p.errorf("expected number in general spec, got %q", p.describeCur())
		}
		tok := p.advance()
		f := tok.fnum
		if !tok.isFloat {
			f = float64(tok.num)
		}
		if neg {
			f = -f
		}
		switch {
		case p.at("%"):
			p.advance()
			g.DutyCycle = int(f)
		case p.atIdent("k"):
			// Carrier frequency in kHz; IRP conventionally writes this
			// as e.g. "38.4k", so the field may be fractional even
			// though CarrierHz itself is an integer Hz count.
			p.advance()
			g.CarrierHz = int64(f * 1000)
		case p.atIdent("p"):
			p.advance()
			// Unit given in pulse-widths of the carrier period.
			if g.CarrierHz != 0 {
				g.UnitMicrosecs = f * 1_000_000 / float64(g.CarrierHz)
			}
		case p.atIdent("u"):
			p.advance()
			g.UnitMicrosecs = f
		default:
			// A bare number with no suffix letter is the unit length in
			// microseconds (e.g. the "564" in "{38.4k,564}"); IRP has no
			// bare-number meaning for frequency.
			g.UnitMicrosecs = f
		}
	}
	if err := p.expect("}"); err != nil {
		return g, err
	}
	return g, nil
}

// ---- Definitions / parameters ----

func (p *parser) parseDefinitions() ([]irp.Assignment, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var defs []irp.Assignment
	first := true
	for !p.at("}") {
		if !first {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		first = false
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected identifier in definition block")
		}
		name := p.advance().text
		if err := p.expect("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		defs = append(defs, irp.Assignment{Name: name, Value: val})
	}
	return defs, p.expect("}")
}

func (p *parser) parseParameters() ([]irp.ParameterSpec, error) {
	if err := p.expect("["); err != nil {
		return nil, err
	}
	var params []irp.ParameterSpec
	first := true
	for !p.at("]") {
		if !first {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		first = false
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected parameter name")
		}
		ps := irp.ParameterSpec{Name: p.advance().text}
		if p.at("@") {
			p.advance()
			ps.Memory = true
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		minExpr, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		min, err := constInt(minExpr)
		if err != nil {
			return nil, err
		}
		ps.Min = min
		if err := p.expect(".."); err != nil {
			return nil, err
		}
		maxExpr, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		max, err := constInt(maxExpr)
		if err != nil {
			return nil, err
		}
		ps.Max = max
		if p.at("=") {
			p.advance()
			def, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			ps.Default = def
			ps.HasDefault = true
		}
		params = append(params, ps)
	}
	return params, p.expect("]")
}

func constInt(e irp.Expression) (int64, error) {
	if n, ok := e.(irp.Number); ok {
		return n.Value, nil
	}
	// A signed number lexes as UnaryExpr{Negate, Number} via the generic
	// expression parser.
	if u, ok := e.(irp.UnaryExpr); ok && u.Op == irp.Negate {
		if n, ok := u.Operand.(irp.Number); ok {
			return -n.Value, nil
		}
	}
	return 0, &irp.ParseError{Message: "expected a constant integer"}
}

// ---- Streams ----

func (p *parser) parseStream() (irp.Stream, error) {
	return p.parseStreamImpl()
}

// parseStreamImpl implements `<bitspec>(body)repeat`, with an optional
// bit-spec. It is called both for the top-level stream and for any nested
// stream appearing inside a body.
func (p *parser) parseStreamImpl() (irp.Stream, error) {
	var s irp.Stream
	if p.at("<") {
		p.advance()
		for {
			alt, err := p.parseBitSpecAlt()
			if err != nil {
				return s, err
			}
			s.BitSpec = append(s.BitSpec, alt)
			if p.at("|") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expect(">"); err != nil {
			return s, err
		}
	}
	if err := p.expect("("); err != nil {
		return s, err
	}
	body, err := p.parseBodyItems(")")
	if err != nil {
		return s, err
	}
	s.Body = body
	if err := p.expect(")"); err != nil {
		return s, err
	}
	s.Repeat = p.parseRepeatMarker()
	return s, nil
}

func (p *parser) parseBitSpecAlt() (irp.Expression, error) {
	items, err := p.parseBodyItemsUntil(func() bool { return p.at("|") || p.at(">") })
	if err != nil {
		return nil, err
	}
	return irp.List{Items: items}, nil
}

func (p *parser) parseRepeatMarker() irp.RepeatMarker {
	if p.at("*") {
		p.advance()
		return irp.RepeatMarker{Kind: "*"}
	}
	if p.at("+") {
		p.advance()
		return irp.RepeatMarker{Kind: "+"}
	}
	if p.cur().kind == tokNumber {
		n := p.advance().num
		if p.at("+") {
			p.advance()
			return irp.RepeatMarker{Kind: "n+", Count: int(n)}
		}
		return irp.RepeatMarker{Kind: "n", Count: int(n)}
	}
	return irp.RepeatMarker{}
}

// parseBodyItems parses a comma-separated list of body items until the
// closing punctuation `closer` is the next token.
func (p *parser) parseBodyItems(closer string) ([]irp.Expression, error) {
	return p.parseBodyItemsUntil(func() bool { return p.at(closer) })
}

func (p *parser) parseBodyItemsUntil(done func() bool) ([]irp.Expression, error) {
	var items []irp.Expression
	if done() {
		return items, nil
	}
	for {
		item, err := p.parseBodyItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(",") {
			p.advance()
			continue
		}
		break
	}
	if !done() {
		return nil, p.errorf("expected ',' or closing bracket, got %q", p.describeCur())
	}
	return items, nil
}

// parseBodyItem parses one stream-body atom: a nested stream, a
// variation, an assignment, or a flash/gap/extent/bitfield expression.
func (p *parser) parseBodyItem() (irp.Expression, error) {
	if p.at("<") {
		return p.parseStreamImpl()
	}
	if p.at("(") {
		// A body item starting with '(' is always a nested sub-stream
		// that inherits the enclosing bit-spec; a parenthesized
		// arithmetic sub-expression only ever occurs as part of a
		// flash/gap/assignment value, handled by parseExpr's primary
		// parser, never as a bare top-level body item.
		return p.parseStreamImpl()
	}
	if p.at("[") {
		return p.parseVariation()
	}
	if p.at("-") {
		p.advance()
		val, u, err := p.parseTimingValue()
		if err != nil {
			return nil, err
		}
		return irp.Gap{Value: val, Unit: u}, nil
	}
	if p.at("^") {
		p.advance()
		val, u, err := p.parseTimingValue()
		if err != nil {
			return nil, err
		}
		return irp.Extent{Value: val, Unit: u}, nil
	}
	// Assignment: IDENT '=' (not '==').
	if p.cur().kind == tokIdent {
		save := p.pos
		name := p.advance().text
		if p.at("=") {
			p.advance()
			val, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			return irp.Assignment{Name: name, Value: val}, nil
		}
		p.pos = save
	}
	val, u, err := p.parseTimingValue()
	if err != nil {
		return nil, err
	}
	if bf, ok := val.(irp.BitField); ok && u == irp.UnitUnits {
		return bf, nil
	}
	return irp.Flash{Value: val, Unit: u}, nil
}

// parseTimingValue parses an expression that may carry a trailing unit
// letter (m, u, p) applying to a flash/gap/extent atom, and/or a bitfield
// postfix. Operators binding looser than shifts are not consumed, so the
// '|' and '>' that delimit a bit-spec end the value.
func (p *parser) parseTimingValue() (irp.Expression, irp.Unit, error) {
	val, err := p.parseExpr(precShift)
	if err != nil {
		return nil, irp.UnitUnits, err
	}
	// A flash/gap/extent value with no suffix letter is expressed in
	// GeneralSpec units (the protocol-defined unit length), not raw
	// microseconds; 'u' below selects raw microseconds instead, 'm'
	// milliseconds and 'p' carrier pulses.
	unit := irp.UnitUnits
	if p.atIdent("m") {
		p.advance()
		unit = irp.UnitMilliseconds
	} else if p.atIdent("u") {
		p.advance()
		unit = irp.UnitMicroseconds
	} else if p.atIdent("p") {
		p.advance()
		unit = irp.UnitPulses
	}
	return val, unit, nil
}

func (p *parser) parseVariation() (irp.Expression, error) {
	var v irp.Variation
	for p.at("[") {
		p.advance()
		items, err := p.parseBodyItems("]")
		if err != nil {
			return nil, err
		}
		v.Variants = append(v.Variants, items)
		if err := p.expect("]"); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ---- Expressions (Pratt parser) ----

const (
	precTernary = iota
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precPower
)

func (p *parser) parseExpr(minPrec int) (irp.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	left, err = p.parseBitFieldPostfix(left)
	if err != nil {
		return nil, err
	}
	for {
		op, prec, rightAssoc, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = irp.BinaryExpr{Op: op, Left: left, Right: right}
	}
	if minPrec <= precTernary && p.at("?") {
		p.advance()
		then, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		els, err := p.parseExpr(precTernary)
		if err != nil {
			return nil, err
		}
		left = irp.Ternary{Cond: left, Then: then, Else: els}
	}
	return left, nil
}

func (p *parser) peekBinOp() (irp.BinOp, int, bool, bool) {
	t := p.cur()
	if t.kind != tokPunct {
		return 0, 0, false, false
	}
	switch t.text {
	case "||":
		return irp.LogicalOr, precLogicalOr, false, true
	case "&&":
		return irp.LogicalAnd, precLogicalAnd, false, true
	case "|":
		return irp.BitOr, precBitOr, false, true
	case "^":
		return irp.BitXor, precBitXor, false, true
	case "&":
		return irp.BitAnd, precBitAnd, false, true
	case "==":
		return irp.Eq, precEquality, false, true
	case "!=":
		return irp.Ne, precEquality, false, true
	case "<=":
		return irp.Le, precRelational, false, true
	case ">=":
		return irp.Ge, precRelational, false, true
	case "<":
		return irp.Lt, precRelational, false, true
	case ">":
		return irp.Gt, precRelational, false, true
	case "<<":
		return irp.ShiftLeft, precShift, false, true
	case ">>":
		return irp.ShiftRight, precShift, false, true
	case "+":
		return irp.Add, precAdditive, false, true
	case "-":
		return irp.Sub, precAdditive, false, true
	case "*":
		return irp.Mul, precMultiplicative, false, true
	case "/":
		return irp.Div, precMultiplicative, false, true
	case "%":
		return irp.Mod, precMultiplicative, false, true
	case "**":
		return irp.Pow, precPower, true, true
	default:
		return 0, 0, false, false
	}
}

func (p *parser) parseUnary() (irp.Expression, error) {
	switch {
	case p.at("#"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return irp.UnaryExpr{Op: irp.BitCountOp, Operand: operand}, nil
	case p.at("!"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return irp.UnaryExpr{Op: irp.LogicalNot, Operand: operand}, nil
	case p.at("-"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return irp.UnaryExpr{Op: irp.Negate, Operand: operand}, nil
	case p.at("~"):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return irp.UnaryExpr{Op: irp.Complement, Operand: operand}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (irp.Expression, error) {
	t := p.cur()
	switch {
	case t.kind == tokNumber:
		p.advance()
		return irp.Number{Value: t.num}, nil
	case t.kind == tokIdent:
		p.advance()
		return irp.Ident{Name: t.text}, nil
	case p.at("("):
		p.advance()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("unexpected token %q in expression", p.describeCur())
	}
}

// parseBitFieldPostfix wraps base in a BitField node for every trailing
// `:length[:skip]` or `::skip` postfix, left-associatively (`a:8:0:4` is
// not legal IRP, but `(a:8:0)` used as the Value of a further bitfield is,
// and is expressed as nested BitField values).
func (p *parser) parseBitFieldPostfix(base irp.Expression) (irp.Expression, error) {
	if p.at("::") {
		p.advance()
		skip, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		return irp.BitField{Value: base, Length: nil, Skip: skip}, nil
	}
	if !p.at(":") {
		return base, nil
	}
	p.advance()
	reverse := false
	if p.at("-") {
		reverse = true
		p.advance()
	}
	length, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	bf := irp.BitField{Value: base, Length: length, Reverse: reverse}
	if p.at(":") {
		p.advance()
		skip, err := p.parseExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		bf.Skip = skip
	}
	return bf, nil
}
