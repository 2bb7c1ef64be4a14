// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/decoder"
	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
)

func feed(t *testing.T, fd *decoder.FrameDecoder, raw []int64) []struct {
	kind decoder.EventKind
	vars map[string]int64
} {
	t.Helper()
	var events []struct {
		kind decoder.EventKind
		vars map[string]int64
	}
	for i, us := range raw {
		sample := irp.Flash2(us)
		if i%2 == 1 {
			sample = irp.Gap2(us)
		}
		err := fd.Input(sample, func(kind decoder.EventKind, vars map[string]int64) {
			events = append(events, struct {
				kind decoder.EventKind
				vars map[string]int64
			}{kind, vars})
		})
		require.NoError(t, err)
	}
	return events
}

func TestDecodeNEC(t *testing.T) {
	def, err := parser.Parse("{38.4k,564}<1,-1|1,-3>(16,-8,D:8,S:8,F:8,~F:8,1,^108m)* [D:0..255,S:0..255=255-D,F:0..255]")
	require.NoError(t, err)
	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3, MaxGapMicroseconds: 20000}
	fd, err := decoder.NewFrameDecoder(def, decoder.ModeDFA, cfg)
	require.NoError(t, err)

	msg, err := encoder.Encode(def, map[string]int64{"D": 0xe9, "F": 1, "S": 0xfe}, 0)
	require.NoError(t, err)

	events := feed(t, fd, msg.Raw)
	require.Len(t, events, 1)
	assert.Equal(t, decoder.EventDown, events[0].kind)
	assert.EqualValues(t, 0xe9, events[0].vars["D"])
	assert.EqualValues(t, 1, events[0].vars["F"])
	assert.EqualValues(t, 0xfe, events[0].vars["S"])

	repeat := feed(t, fd, []int64{9024, 2256, 564, 96156})
	require.Len(t, repeat, 1)
	assert.Equal(t, decoder.EventRepeat, repeat[0].kind)
	assert.EqualValues(t, 0xe9, repeat[0].vars["D"])
	assert.EqualValues(t, 1, repeat[0].vars["F"])
	assert.EqualValues(t, 0xfe, repeat[0].vars["S"])
}

func TestDecodeSony8(t *testing.T) {
	def, err := parser.Parse("{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]")
	require.NoError(t, err)
	fd, err := decoder.NewFrameDecoder(def, decoder.ModeDFA, nfa.DefaultConfig())
	require.NoError(t, err)

	raw := []int64{2400, 600, 600, 600, 600, 600, 1200, 600, 600, 600, 600, 600, 600, 600, 1200, 600, 1200, 31200}
	events := feed(t, fd, raw)
	require.Len(t, events, 1)
	assert.Equal(t, decoder.EventDown, events[0].kind)
	assert.EqualValues(t, 196, events[0].vars["F"])
}

func TestDecodeRC5WithToggle(t *testing.T) {
	def, err := parser.Parse("{36k,msb,889}<1,-1|-1,1>((1,~F:1:6,T:1,D:5,F:6,^114m)*,T=1-T)[D:0..31,F:0..127,T@:0..1=0]")
	require.NoError(t, err)
	fd, err := decoder.NewFrameDecoder(def, decoder.ModeDFA, nfa.DefaultConfig())
	require.NoError(t, err)

	msg, err := encoder.Encode(def, map[string]int64{"D": 30, "F": 1, "T": 0}, 1)
	require.NoError(t, err)

	events := feed(t, fd, msg.Raw)
	require.Len(t, events, 1)
	assert.Equal(t, decoder.EventRepeat, events[0].kind)
	assert.EqualValues(t, 30, events[0].vars["D"])
	assert.EqualValues(t, 1, events[0].vars["F"])
	assert.EqualValues(t, 0, events[0].vars["T"])
}
