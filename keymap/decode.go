// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"github.com/pkg/errors"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/decoder"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
)

// Decoder drives a compiled Keymap against a sample stream, resolving
// each accepted CODE back to the key name it was registered under.
// Grounded on the reference KeymapDecoder's "one FrameDecoder per
// candidate IRP, first match wins" shape: a keymap with an explicit irp
// or variant compiles to exactly one FrameDecoder, but a bare protocol
// name with no variant may expand to every IRP sharing that kernel
// decoder (e.g. "nec" covers nec/necx/nec32 until a variant narrows it).
type Decoder struct {
	keymap *Keymap
	frames []*decoder.FrameDecoder
	raw    *decoder.Decoder // set instead of frames when keymap.Raw is non-empty
}

// NewDecoder resolves km's protocol/variant/irp/raw fields to one or
// more compiled decoders.
func NewDecoder(km *Keymap, cfg nfa.Config) (*Decoder, error) {
	if len(km.Raw) > 0 {
		timings := make([][]int64, len(km.Raw))
		for i, r := range km.Raw {
			switch {
			case r.Raw != nil:
				timings[i] = r.Raw
			case r.Pronto != nil:
				timings[i] = r.Pronto.Intro
			default:
				return nil, errors.Errorf("keymap %q: raw entry %q has no timing", km.Name, r.Keycode)
			}
		}
		d, err := buildRawDecoder(timings, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "keymap %q: building raw decoder", km.Name)
		}
		return &Decoder{keymap: km, raw: d}, nil
	}

	irps, err := candidateIRPs(km)
	if err != nil {
		return nil, err
	}

	frames := make([]*decoder.FrameDecoder, 0, len(irps))
	for _, irpText := range irps {
		def, err := parser.Parse(irpText)
		if err != nil {
			return nil, errors.Wrapf(err, "keymap %q: compiling candidate irp %q", km.Name, irpText)
		}
		fd, err := decoder.NewFrameDecoder(def, decoder.ModeDFA, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "keymap %q: building decoder for %q", km.Name, irpText)
		}
		frames = append(frames, fd)
	}
	return &Decoder{keymap: km, frames: frames}, nil
}

func candidateIRPs(km *Keymap) ([]string, error) {
	if km.IRP != "" {
		return []string{km.IRP}, nil
	}

	var irps []string
	if km.Variant == "" {
		if p, ok := FindLinuxProtocol(km.Protocol); ok {
			for _, candidate := range LinuxProtocols {
				if candidate.Decoder == p.Decoder && candidate.IRP != "" {
					irps = append(irps, candidate.IRP)
				}
			}
		}
	}

	if len(irps) == 0 {
		name := km.Protocol
		if km.Variant != "" {
			name = km.Variant
		}
		p, ok := FindLinuxProtocolLike(name)
		if !ok {
			return nil, errors.Errorf("keymap %q: unknown protocol %q", km.Name, name)
		}
		if p.IRP == "" {
			return nil, errors.Errorf("keymap %q: unable to decode protocol %q (no IRP equivalent)", km.Name, name)
		}
		irps = []string{p.IRP}
	}
	return irps, nil
}

// Input feeds one sample to every candidate decoder, invoking callback
// with the matching key name (and its raw scancode/index) for each
// accepted frame.
func (d *Decoder) Input(sample irp.InfraredData, callback func(keyName string, code uint64)) error {
	if d.raw != nil {
		return d.raw.Input(sample, func(vars map[string]int64) {
			idx := uint64(vars["CODE"])
			if int(idx) < len(d.keymap.Raw) {
				callback(d.keymap.Raw[idx].Keycode, idx)
			}
		})
	}
	for _, fd := range d.frames {
		err := fd.Input(sample, func(_ decoder.EventKind, vars map[string]int64) {
			code, ok := vars["CODE"]
			if !ok {
				return
			}
			if name, ok := d.keymap.Scancodes[uint64(code)]; ok {
				callback(name, uint64(code))
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every candidate decoder's live state.
func (d *Decoder) Reset() {
	if d.raw != nil {
		d.raw.Reset()
		return
	}
	for _, fd := range d.frames {
		fd.Reset()
	}
}
