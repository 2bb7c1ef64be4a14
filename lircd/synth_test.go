// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lircd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/decoder"
	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/lircd"
)

func minimalSpaceEncRemote() *lircd.Remote {
	return &lircd.Remote{
		Name:        "minimal",
		Flags:       lircd.FlagSpaceEnc,
		Bits:        16,
		PreDataBits: 16,
		PreData:     0x1234,
		Header:      lircd.Pair{Pulse: 9000, Gap: 4500},
		One:         lircd.Pair{Pulse: 560, Gap: 1690},
		Zero:        lircd.Pair{Pulse: 560, Gap: 560},
		Ptrail:      560,
		Gap:         108000,
		Codes:       []lircd.Code{{Name: "KEY", Code: 0x5678}},
	}
}

func TestSynthesizeAndDecodeSpaceEnc(t *testing.T) {
	r := minimalSpaceEncRemote()

	encDef, err := lircd.SynthesizeIRP(r, true)
	require.NoError(t, err)
	decDef, err := lircd.SynthesizeIRP(r, false)
	require.NoError(t, err)

	msg, err := encoder.Encode(encDef, map[string]int64{"CODE": 0x5678}, 0)
	require.NoError(t, err)

	fd, err := decoder.NewFrameDecoder(decDef, decoder.ModeDFA, nfa.DefaultConfig())
	require.NoError(t, err)

	var got []struct {
		kind decoder.EventKind
		code int64
	}
	for i, us := range msg.Raw {
		sample := irp.Flash2(us)
		if i%2 == 1 {
			sample = irp.Gap2(us)
		}
		err := fd.Input(sample, func(kind decoder.EventKind, vars map[string]int64) {
			got = append(got, struct {
				kind decoder.EventKind
				code int64
			}{kind, vars["CODE"]})
		})
		require.NoError(t, err)
	}

	require.Len(t, got, 1)
	assert.Equal(t, decoder.EventDown, got[0].kind)
	assert.EqualValues(t, 0x5678, got[0].code)
}

func TestValidateRejectsMissingGap(t *testing.T) {
	r := minimalSpaceEncRemote()
	r.Gap = 0
	assert.Error(t, r.Validate())
}

func TestValidateRejectsOversizedCode(t *testing.T) {
	r := minimalSpaceEncRemote()
	r.Bits = 4
	assert.Error(t, r.Validate())
}
