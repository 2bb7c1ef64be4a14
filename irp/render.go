// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

import (
	"fmt"
	"strings"
)

// Render pretty-prints i back to IRP notation. The result re-parses to an
// AST that is equivalent to i modulo whitespace and redundant parentheses
// (§8's round-trip property); Render does not attempt to reproduce the
// exact source text a human wrote.
func (i *Irp) Render() string {
	var b strings.Builder
	renderGeneralSpec(&b, i.General)
	renderStream(&b, i.Stream)
	if len(i.Definitions) > 0 {
		b.WriteByte('{')
		for idx, d := range i.Definitions {
			if idx > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%s=%s", d.Name, renderExpr(d.Value))
		}
		b.WriteByte('}')
	}
	if len(i.Parameters) > 0 {
		b.WriteByte('[')
		for idx, p := range i.Parameters {
			if idx > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Name)
			if p.Memory {
				b.WriteByte('@')
			}
			fmt.Fprintf(&b, ":%d..%d", p.Min, p.Max)
			if p.HasDefault {
				fmt.Fprintf(&b, "=%s", renderExpr(p.Default))
			}
		}
		b.WriteByte(']')
	}
	return b.String()
}

func renderGeneralSpec(b *strings.Builder, g GeneralSpec) {
	b.WriteByte('{')
	fmt.Fprintf(b, "%gk", float64(g.CarrierHz)/1000)
	if g.DutyCycle > 0 {
		fmt.Fprintf(b, ",%d%%", g.DutyCycle)
	}
	if g.UnitMicrosecs != 1.0 {
		fmt.Fprintf(b, ",%g", g.UnitMicrosecs)
	}
	if !g.LSBFirst {
		b.WriteString(",msb")
	}
	b.WriteByte('}')
}

func renderStream(b *strings.Builder, s Stream) {
	if s.BitSpec != nil {
		b.WriteByte('<')
		for idx, alt := range s.BitSpec {
			if idx > 0 {
				b.WriteByte('|')
			}
			b.WriteString(renderExpr(alt))
		}
		b.WriteByte('>')
	}
	b.WriteByte('(')
	for idx, e := range s.Body {
		if idx > 0 {
			b.WriteByte(',')
		}
		b.WriteString(renderExpr(e))
	}
	b.WriteByte(')')
	renderRepeat(b, s.Repeat)
}

func renderRepeat(b *strings.Builder, r RepeatMarker) {
	switch r.Kind {
	case "*":
		b.WriteByte('*')
	case "+":
		b.WriteByte('+')
	case "n":
		fmt.Fprintf(b, "%d", r.Count)
	case "n+":
		fmt.Fprintf(b, "%d+", r.Count)
	}
}

func renderExpr(e Expression) string {
	switch n := e.(type) {
	case Number:
		return fmt.Sprintf("%d", n.Value)
	case Ident:
		return n.Name
	case Flash:
		return renderExpr(n.Value) + unitSuffix(n.Unit)
	case Gap:
		return "-" + renderExpr(n.Value) + unitSuffix(n.Unit)
	case Extent:
		return "^" + renderExpr(n.Value) + unitSuffix(n.Unit)
	case BinaryExpr:
		return "(" + renderExpr(n.Left) + binOpSymbol(n.Op) + renderExpr(n.Right) + ")"
	case UnaryExpr:
		return unOpSymbol(n.Op) + renderExpr(n.Operand)
	case BitField:
		var out strings.Builder
		out.WriteString(renderExpr(n.Value))
		if n.Length == nil {
			out.WriteString("::")
			out.WriteString(renderExpr(n.Skip))
			return out.String()
		}
		out.WriteByte(':')
		if n.Reverse {
			out.WriteByte('-')
		}
		out.WriteString(renderExpr(n.Length))
		if n.Skip != nil {
			out.WriteByte(':')
			out.WriteString(renderExpr(n.Skip))
		}
		return out.String()
	case Assignment:
		return n.Name + "=" + renderExpr(n.Value)
	case List:
		parts := make([]string, len(n.Items))
		for i, it := range n.Items {
			parts[i] = renderExpr(it)
		}
		return strings.Join(parts, ",")
	case Ternary:
		return renderExpr(n.Cond) + "?" + renderExpr(n.Then) + ":" + renderExpr(n.Else)
	case Stream:
		var out strings.Builder
		renderStream(&out, n)
		return out.String()
	case Variation:
		var out strings.Builder
		for _, v := range n.Variants {
			out.WriteByte('[')
			for idx, e := range v {
				if idx > 0 {
					out.WriteByte(',')
				}
				out.WriteString(renderExpr(e))
			}
			out.WriteByte(']')
		}
		return out.String()
	case Log2Expr:
		return "log2(" + renderExpr(n.Operand) + ")"
	case BitReverseExpr:
		if n.Skip != nil {
			return "bitreverse(" + renderExpr(n.Value) + "," + renderExpr(n.Length) + "," + renderExpr(n.Skip) + ")"
		}
		return "bitreverse(" + renderExpr(n.Value) + "," + renderExpr(n.Length) + ")"
	default:
		return "?"
	}
}

func unitSuffix(u Unit) string {
	switch u {
	case UnitMicroseconds:
		return "u"
	case UnitMilliseconds:
		return "m"
	case UnitPulses:
		return "p"
	default:
		return ""
	}
}

func binOpSymbol(op BinOp) string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Pow:
		return "**"
	case BitAnd:
		return "&"
	case BitOr:
		return "|"
	case BitXor:
		return "^"
	case ShiftLeft:
		return "<<"
	case ShiftRight:
		return ">>"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case LogicalAnd:
		return "&&"
	case LogicalOr:
		return "||"
	default:
		return "?"
	}
}

func unOpSymbol(op UnOp) string {
	switch op {
	case Negate:
		return "-"
	case Complement:
		return "~"
	case LogicalNot:
		return "!"
	case BitCountOp:
		return "#"
	default:
		return "?"
	}
}
