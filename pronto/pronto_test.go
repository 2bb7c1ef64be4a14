// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pronto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/pronto"
)

func TestRoundTripRC5(t *testing.T) {
	def, err := parser.Parse("{36k,msb,889}<1,-1|-1,1>((1,~F:1:6,T:1,D:5,F:6,^114m)*,T=1-T)[D:0..31,F:0..127,T@:0..1=0]")
	require.NoError(t, err)

	msg, err := encoder.Encode(def, map[string]int64{"D": 5, "F": 10, "T": 0}, 1)
	require.NoError(t, err)

	code := pronto.Code{CarrierHz: msg.CarrierHz, Modulated: true, Intro: msg.Raw}
	hex, err := code.Encode()
	require.NoError(t, err)

	decoded, err := pronto.Decode(hex)
	require.NoError(t, err)

	assert.InDelta(t, 36000, decoded.CarrierHz, 1)
	require.Len(t, decoded.Intro, len(msg.Raw))
	for i, want := range msg.Raw {
		assert.InDelta(t, want, decoded.Intro[i], 2)
	}
}

func TestDecodeRejectsShortForm(t *testing.T) {
	_, err := pronto.Decode("0000 006d 0022")
	assert.Error(t, err)
}

func TestDecodeRejectsUnsupportedPreamble(t *testing.T) {
	_, err := pronto.Decode("0200 006d 0001 0000 0010 0010")
	assert.Error(t, err)
}

func TestEncodeRejectsNonPositiveCarrier(t *testing.T) {
	_, err := pronto.Code{CarrierHz: 0, Intro: []int64{100, 100}}.Encode()
	assert.Error(t, err)
}

func TestEncodeRejectsOddVector(t *testing.T) {
	_, err := pronto.Code{CarrierHz: 38000, Modulated: true, Intro: []int64{100, 100, 100}}.Encode()
	assert.Error(t, err)
}
