// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package decoder

import (
	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/dfa"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/variant"
)

// EventKind tags which of a protocol's three sub-streams produced a
// decoded frame.
type EventKind int

const (
	EventDown EventKind = iota
	EventRepeat
	EventUp
)

func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventRepeat:
		return "repeat"
	case EventUp:
		return "up"
	default:
		return "unknown"
	}
}

// FrameDecoder composes the Down/Repeat/(optional) Up decoders a variant
// split produces, and is the decoder a caller normally constructs for a
// whole protocol rather than one sub-stream at a time.
type FrameDecoder struct {
	down, repeat, up *Decoder
	hasUp            bool
}

// NewFrameDecoder computes def's variant split and compiles one Decoder
// per non-empty stream, all in the same Mode and under the same cfg.
func NewFrameDecoder(def *irp.Irp, mode Mode, cfg nfa.Config) (*FrameDecoder, error) {
	split, err := variant.Compute(def)
	if err != nil {
		return nil, err
	}
	down, err := compileStream(def, split.Down, mode, cfg)
	if err != nil {
		return nil, err
	}
	repeat, err := compileStream(def, split.Repeat, mode, cfg)
	if err != nil {
		return nil, err
	}
	fd := &FrameDecoder{down: down, repeat: repeat}
	if split.HasUp {
		up, err := compileStream(def, split.Up, mode, cfg)
		if err != nil {
			return nil, err
		}
		fd.up = up
		fd.hasUp = true
	}
	return fd, nil
}

func compileStream(def *irp.Irp, stream irp.Stream, mode Mode, cfg nfa.Config) (*Decoder, error) {
	n, err := nfa.Compile(def, stream)
	if err != nil {
		return nil, err
	}
	if mode == ModeDFA {
		d, err := dfa.Build(n, cfg)
		if err != nil {
			return nil, err
		}
		return NewDFADecoder(def, d, cfg), nil
	}
	return NewNFADecoder(def, n, cfg), nil
}

// Input feeds sample to every live sub-decoder, invoking emit once per
// sub-stream that reaches an accepting state on this sample. When the
// down and repeat decoders accept on the same sample (the two streams are
// equal for a whole-stream repeat or an IRP with no repeat marker), only
// the Down event is emitted.
func (f *FrameDecoder) Input(sample irp.InfraredData, emit func(EventKind, map[string]int64)) error {
	downFired := false
	if err := f.down.Input(sample, func(vars map[string]int64) {
		downFired = true
		emit(EventDown, vars)
	}); err != nil {
		return err
	}
	if err := f.repeat.Input(sample, func(vars map[string]int64) {
		if !downFired {
			emit(EventRepeat, vars)
		}
	}); err != nil {
		return err
	}
	if f.hasUp {
		if err := f.up.Input(sample, func(vars map[string]int64) { emit(EventUp, vars) }); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every sub-decoder's live positions.
func (f *FrameDecoder) Reset() {
	f.down.Reset()
	f.repeat.Reset()
	if f.hasUp {
		f.up.Reset()
	}
}
