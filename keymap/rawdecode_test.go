// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/nfa"
)

func feedRaw(t *testing.T, d *Decoder, raw []int64) (string, uint64, bool) {
	t.Helper()
	var gotKey string
	var gotCode uint64
	var matched bool
	for i, us := range raw {
		sample := irp.Flash2(us)
		if i%2 == 1 {
			sample = irp.Gap2(us)
		}
		err := d.Input(sample, func(keyName string, code uint64) {
			gotKey, gotCode, matched = keyName, code, true
		})
		require.NoError(t, err)
	}
	return gotKey, gotCode, matched
}

func TestRawKeymapDecodesEachSlotIndependently(t *testing.T) {
	km := &Keymap{
		Name: "raw-remote",
		Raw: []Raw{
			{Keycode: "KEY_POWER", Raw: []int64{9024, 4512, 564, 1692}},
			{Keycode: "KEY_VOLUMEUP", Raw: []int64{9024, 2256, 564, 564}},
		},
	}
	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3, MaxGapMicroseconds: 20000}
	d, err := NewDecoder(km, cfg)
	require.NoError(t, err)

	key, code, matched := feedRaw(t, d, km.Raw[0].Raw)
	require.True(t, matched)
	assert.Equal(t, "KEY_POWER", key)
	assert.EqualValues(t, 0, code)

	d.Reset()
	key, code, matched = feedRaw(t, d, km.Raw[1].Raw)
	require.True(t, matched)
	assert.Equal(t, "KEY_VOLUMEUP", key)
	assert.EqualValues(t, 1, code)
}

func TestRawKeymapMissingTimingFails(t *testing.T) {
	km := &Keymap{
		Name: "broken-raw",
		Raw:  []Raw{{Keycode: "KEY_POWER"}},
	}
	cfg := nfa.Config{AepsMicroseconds: 100, EpsPercent: 3, MaxGapMicroseconds: 20000}
	_, err := NewDecoder(km, cfg)
	assert.Error(t, err)
}
