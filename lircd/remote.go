// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lircd implements C9: parsing lircd.conf remote definitions and
// projecting them into an equivalent IRP string, so a legacy remote
// compiles and decodes through the same irp/variant, irp/nfa, irp/dfa,
// irp/decoder, irp/encoder pipeline as a hand-written IRP.
package lircd

import "github.com/pkg/errors"

// Flags is the bitwise-OR of a remote's "flags" line, selecting its bit
// encoding and repeat behavior.
type Flags uint32

const (
	FlagRawCodes Flags = 1 << iota
	FlagRC5
	FlagShiftEnc
	FlagRC6
	FlagRCMM
	FlagSpaceEnc
	FlagSpaceFirst
	FlagGrundig
	FlagBO
	FlagSerial
	FlagXMP
	FlagReverse
	FlagNoHeadRep
	FlagNoFootRep
	FlagConstLength
	FlagRepeatHeader
)

var flagNames = map[string]Flags{
	"RAW_CODES":     FlagRawCodes,
	"RC5":           FlagRC5,
	"SHIFT_ENC":     FlagShiftEnc,
	"RC6":           FlagRC6,
	"RCMM":          FlagRCMM,
	"SPACE_ENC":     FlagSpaceEnc,
	"SPACE_FIRST":   FlagSpaceFirst,
	"GRUNDIG":       FlagGrundig,
	"BO":            FlagBO,
	"SERIAL":        FlagSerial,
	"XMP":           FlagXMP,
	"REVERSE":       FlagReverse,
	"NO_HEAD_REP":   FlagNoHeadRep,
	"NO_FOOT_REP":   FlagNoFootRep,
	"CONST_LENGTH":  FlagConstLength,
	"REPEAT_HEADER": FlagRepeatHeader,
}

// Pair is a (pulse, gap) timing pair in microseconds, as lircd.conf
// expresses "header", "one", "zero", "foot" and similar two-argument keys.
type Pair struct {
	Pulse, Gap uint64
}

// Code is one named scancode entry inside a "begin codes" block.
type Code struct {
	Name string
	Code uint64
}

// RawCode is one named raw timing entry inside a "begin raw_codes" block.
type RawCode struct {
	Name string
	Raw  []uint32
}

// Remote is one "begin remote" / "end remote" block.
type Remote struct {
	Name, Driver string
	Flags        Flags

	Frequency uint64 // Hz, defaults to 38000
	DutyCycle uint64 // percent, 0 means unspecified

	Eps, Aeps uint64

	Bits                           uint64
	PreDataBits, PreData           uint64
	PostDataBits, PostData         uint64

	Plead, Ptrail uint64
	Header, Pre, Post, Foot Pair
	Repeat                   Pair
	RepeatGap                uint64

	// Zero/One/Two/Three are the bit-pair table; Two/Three are only
	// consulted by the GRUNDIG/BO/XMP multi-ary encodings.
	Zero, One, Two, Three Pair

	Gap, Gap2 uint64

	ToggleBitMask uint64
	RepeatMask    uint64
	MinRepeat     uint64

	Codes    []Code
	RawCodes []RawCode
}

// bit returns the n'th entry of the Zero/One/Two/Three table, the array
// shape irp.rs's encoder iterates over.
func (r *Remote) bit(n int) Pair {
	switch n {
	case 0:
		return r.Zero
	case 1:
		return r.One
	case 2:
		return r.Two
	case 3:
		return r.Three
	default:
		return Pair{}
	}
}

// Validate runs the sanity checks lircd itself applies before trusting a
// remote definition, per §4.9's "Sanity" rule.
func (r *Remote) Validate() error {
	if r.Name == "" {
		return errors.New("lircd remote: missing name")
	}
	if r.Flags&FlagRawCodes != 0 {
		if len(r.RawCodes) == 0 {
			return errors.Errorf("lircd remote %q: raw remote has no raw codes", r.Name)
		}
		return nil
	}
	if len(r.RawCodes) != 0 {
		return errors.Errorf("lircd remote %q: raw codes specified for non-raw remote", r.Name)
	}
	if len(r.Codes) == 0 {
		return errors.Errorf("lircd remote %q: missing codes", r.Name)
	}
	if (r.Zero == Pair{} && r.One == Pair{}) {
		return errors.Errorf("lircd remote %q: no bit encoding provided", r.Name)
	}
	if r.Gap == 0 {
		return errors.Errorf("lircd remote %q: missing gap", r.Name)
	}
	mask := genMask(r.Bits)
	for _, c := range r.Codes {
		if c.Code&^mask != 0 {
			return errors.Errorf("lircd remote %q: code %q (0x%x) wider than bits=%d", r.Name, c.Name, c.Code, r.Bits)
		}
	}
	return nil
}

func genMask(bits uint64) uint64 {
	if bits == 0 {
		return 0
	}
	return (uint64(1) << bits) - 1
}
