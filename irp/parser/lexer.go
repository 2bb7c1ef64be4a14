// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package parser implements the IRP Notation grammar (§4.2): a
// hand-written lexer and recursive-descent/Pratt parser that turns an IRP
// string into a validated irp.Irp.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"cirkit.dev/cir/irp"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPunct
)

type token struct {
	kind    tokenKind
	text    string
	num     int64
	fnum    float64
	isFloat bool
	pos     irp.Position
}

// lexer turns IRP notation source into a stream of tokens. Whitespace is
// insignificant and skipped; there are no comments in IRP notation.
type lexer struct {
	src    []rune
	offset int
	line   int
	col    int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) pos() irp.Position {
	return irp.Position{Offset: l.offset, Line: l.line, Column: l.col}
}

func (l *lexer) peekRune() (rune, bool) {
	if l.offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.offset], true
}

func (l *lexer) advance() (rune, bool) {
	r, ok := l.peekRune()
	if !ok {
		return 0, false
	}
	l.offset++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, true
}

func (l *lexer) skipSpace() {
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

// multiCharPuncts must be checked longest-first.
var multiCharPuncts = []string{"<<", ">>", "==", "!=", "<=", ">=", "&&", "||", "**", "::", ".."}

// next returns the next token in the stream.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	pos := l.pos()
	r, ok := l.peekRune()
	if !ok {
		return token{kind: tokEOF, pos: pos}, nil
	}
	if unicode.IsDigit(r) {
		return l.lexNumber(pos)
	}
	if unicode.IsLetter(r) || r == '_' || r == '$' {
		return l.lexIdent(pos)
	}
	rest := string(l.src[l.offset:])
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return token{kind: tokPunct, text: p, pos: pos}, nil
		}
	}
	l.advance()
	return token{kind: tokPunct, text: string(r), pos: pos}, nil
}

func (l *lexer) lexNumber(pos irp.Position) (token, error) {
	start := l.offset
	if r, ok := l.peekRune(); ok && r == '0' {
		if l.offset+1 < len(l.src) && (l.src[l.offset+1] == 'x' || l.src[l.offset+1] == 'X') {
			l.advance()
			l.advance()
			for {
				r, ok := l.peekRune()
				if !ok || !isHexDigit(r) {
					break
				}
				l.advance()
			}
			text := string(l.src[start:l.offset])
			v, err := strconv.ParseInt(text[2:], 16, 64)
			if err != nil {
				return token{}, &irp.ParseError{Pos: pos, Message: "invalid hex literal " + text}
			}
			return token{kind: tokNumber, text: text, num: v, pos: pos}, nil
		}
	}
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}
	isFloat := false
	if r, ok := l.peekRune(); ok && r == '.' && l.offset+1 < len(l.src) && unicode.IsDigit(l.src[l.offset+1]) {
		isFloat = true
		l.advance()
		for {
			r, ok := l.peekRune()
			if !ok || !unicode.IsDigit(r) {
				break
			}
			l.advance()
		}
	}
	text := string(l.src[start:l.offset])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, &irp.ParseError{Pos: pos, Message: "invalid numeric literal " + text}
		}
		return token{kind: tokNumber, text: text, fnum: f, isFloat: true, num: int64(f), pos: pos}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, &irp.ParseError{Pos: pos, Message: "invalid numeric literal " + text}
	}
	return token{kind: tokNumber, text: text, num: v, pos: pos}, nil
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *lexer) lexIdent(pos irp.Position) (token, error) {
	start := l.offset
	for {
		r, ok := l.peekRune()
		if !ok || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			break
		}
		l.advance()
	}
	text := string(l.src[start:l.offset])
	return token{kind: tokIdent, text: text, pos: pos}, nil
}
