// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
)

func TestDecoderInputResolvesScancodeToKeyName(t *testing.T) {
	// A CODE-named field is how a lircd-synthesized or Linux-kernel-style
	// keymap IRP exposes its scancode, as opposed to the D/S/F form a
	// hand-written protocol declares.
	const codeIRP = "{40k,600}<1,-1|2,-1>(4,-1,CODE:8,^45m)[CODE:0..255]"
	km := &Keymap{
		Name:      "minimal",
		IRP:       codeIRP,
		Scancodes: map[uint64]string{196: "KEY_POWER"},
	}
	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3, MaxGapMicroseconds: 20000}
	d, err := NewDecoder(km, cfg)
	require.NoError(t, err)

	def, err := parser.Parse(codeIRP)
	require.NoError(t, err)
	msg, err := encoder.Encode(def, map[string]int64{"CODE": 196}, 0)
	require.NoError(t, err)

	var gotKey string
	var gotCode uint64
	for i, us := range msg.Raw {
		sample := irp.Flash2(us)
		if i%2 == 1 {
			sample = irp.Gap2(us)
		}
		err := d.Input(sample, func(keyName string, code uint64) {
			gotKey, gotCode = keyName, code
		})
		require.NoError(t, err)
	}

	assert.Equal(t, "KEY_POWER", gotKey)
	assert.EqualValues(t, 196, gotCode)
}
