// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pronto implements C10: the Pronto Hex codec. A Pronto code is a
// sequence of 16-bit big-endian words written as four-hex-digit groups:
// [preamble, freq_word, intro_pairs, repeat_pairs, (intro+repeat)*2 data
// words], each data word a carrier-cycle count rather than a microsecond
// duration.
package pronto

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cirkit.dev/cir/irp"
)

const (
	preambleModulated   = 0x0000
	preambleUnmodulated = 0x0100

	// cyclesPerHzConstant is Pronto's fixed clock-divider ratio: freq_word
	// counts 1/0.241246 MHz ticks per carrier cycle.
	cyclesPerHzConstant = 0.241246
)

// Code is a decoded Pronto Hex signal: a carrier and two raw timing
// vectors (flash/gap microseconds, as irp.Message.Raw), one for the
// intro (sent once) and one for the repeat (sent while held).
type Code struct {
	CarrierHz int64
	Modulated bool
	Intro     []int64
	Repeat    []int64
}

// Decode parses a Pronto Hex string. Only the long-form (four-word
// header) layout is decoded; short-form codes (which encode a lookup
// into a fixed table of well-known remotes rather than a self-contained
// timing sequence) are rejected with a descriptive error rather than
// silently misinterpreted.
func Decode(hex string) (Code, error) {
	words, err := parseWords(hex)
	if err != nil {
		return Code{}, err
	}
	if len(words) < 4 {
		return Code{}, &irp.ValidationError{Message: "pronto code too short for a long-form header"}
	}
	preamble, freqWord := words[0], words[1]
	introPairs, repeatPairs := int(words[2]), int(words[3])

	var modulated bool
	switch preamble {
	case preambleModulated:
		modulated = true
	case preambleUnmodulated:
		modulated = false
	default:
		return Code{}, &irp.ValidationError{Message: fmt.Sprintf(
			"unsupported pronto preamble 0x%04x: short-form pronto codes are not decoded", preamble)}
	}
	if freqWord == 0 {
		return Code{}, &irp.ValidationError{Message: "pronto frequency word is zero"}
	}
	carrierHz := int64(math.Round(1_000_000 / (float64(freqWord) * cyclesPerHzConstant)))

	want := 4 + 2*(introPairs+repeatPairs)
	if len(words) != want {
		return Code{}, &irp.ValidationError{Message: fmt.Sprintf(
			"pronto word count %d does not match header (expected %d)", len(words), want)}
	}

	intro := cyclesToMicroseconds(words[4:4+2*introPairs], carrierHz)
	repeat := cyclesToMicroseconds(words[4+2*introPairs:], carrierHz)
	return Code{CarrierHz: carrierHz, Modulated: modulated, Intro: intro, Repeat: repeat}, nil
}

// Encode renders c as long-form Pronto Hex.
func (c Code) Encode() (string, error) {
	if c.CarrierHz <= 0 {
		return "", &irp.ValidationError{Message: "pronto encode requires a positive carrier frequency"}
	}
	if len(c.Intro)%2 != 0 || len(c.Repeat)%2 != 0 {
		return "", &irp.ValidationError{Message: "pronto intro/repeat vectors must alternate flash/gap in pairs"}
	}
	freqWord := uint16(math.Round(1_000_000 / (float64(c.CarrierHz) * cyclesPerHzConstant)))
	preamble := uint16(preambleUnmodulated)
	if c.Modulated {
		preamble = preambleModulated
	}

	words := make([]uint16, 0, 4+len(c.Intro)+len(c.Repeat))
	words = append(words, preamble, freqWord, uint16(len(c.Intro)/2), uint16(len(c.Repeat)/2))
	words = append(words, microsecondsToCycles(c.Intro, c.CarrierHz)...)
	words = append(words, microsecondsToCycles(c.Repeat, c.CarrierHz)...)

	return formatWords(words), nil
}

func cyclesToMicroseconds(words []uint16, carrierHz int64) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(math.Round(float64(w) * 1_000_000 / float64(carrierHz)))
	}
	return out
}

func microsecondsToCycles(us []int64, carrierHz int64) []uint16 {
	out := make([]uint16, len(us))
	for i, v := range us {
		out[i] = uint16(math.Round(float64(v) * float64(carrierHz) / 1_000_000))
	}
	return out
}

func parseWords(hex string) ([]uint16, error) {
	fields := strings.Fields(hex)
	words := make([]uint16, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return nil, &irp.ValidationError{Message: fmt.Sprintf("pronto word %q is not 16-bit hex", f)}
		}
		words[i] = uint16(v)
	}
	return words, nil
}

func formatWords(words []uint16) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%04x", w)
	}
	return strings.Join(parts, " ")
}
