// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/parser"
)

func TestParseTOMLNamedProtocol(t *testing.T) {
	const data = `
[[protocols]]
name = "minimal"
protocol = "nec"

[protocols.scancodes]
0x1234 = "KEY_POWER"
`
	kms, err := Parse([]byte(data), "minimal.toml")
	require.NoError(t, err)
	require.Len(t, kms, 1)
	assert.Equal(t, "minimal", kms[0].Name)
	assert.Equal(t, "nec", kms[0].Protocol)
	assert.Equal(t, "KEY_POWER", kms[0].Scancodes[0x1234])
}

func TestParseTOMLInlineIRP(t *testing.T) {
	const data = `
[[protocols]]
name = "custom"
protocol = "irp"
irp = "{38k}<1,-1|1,-3>(16,-8,CODE:8,1,^108m)*[CODE:0..255]"
`
	kms, err := Parse([]byte(data), "custom.toml")
	require.NoError(t, err)
	require.Len(t, kms, 1)
	assert.NotEmpty(t, kms[0].IRP)
	_, err = parser.Parse(kms[0].IRP)
	assert.NoError(t, err)
}

func TestParseTOMLRawEntries(t *testing.T) {
	const data = `
[[protocols]]
name = "rawkeys"
protocol = "raw"

[[protocols.raw]]
keycode = "KEY_POWER"
raw = "+9024 -4512 +564 -1692"
`
	kms, err := Parse([]byte(data), "raw.toml")
	require.NoError(t, err)
	require.Len(t, kms, 1)
	require.Len(t, kms[0].Raw, 1)
	assert.Equal(t, "KEY_POWER", kms[0].Raw[0].Keycode)
	assert.Equal(t, []int64{9024, 4512, 564, 1692}, kms[0].Raw[0].Raw)
}

func TestParseTOMLPulseDistanceBuiltsValidIRP(t *testing.T) {
	const data = `
[[protocols]]
name = "pd"
protocol = "pulse_distance"
bits = 8
`
	kms, err := Parse([]byte(data), "pd.toml")
	require.NoError(t, err)
	require.Len(t, kms, 1)
	require.NotEmpty(t, kms[0].IRP)
	_, err = parser.Parse(kms[0].IRP)
	assert.NoError(t, err)
}

func TestParseTOMLMissingProtocolsArrayFails(t *testing.T) {
	_, err := Parse([]byte("name = \"x\"\n"), "broken.toml")
	assert.Error(t, err)
}

func TestParseTOMLRawProtocolMissingRawEntriesFails(t *testing.T) {
	const data = `
[[protocols]]
name = "rawkeys"
protocol = "raw"
`
	_, err := Parse([]byte(data), "raw.toml")
	assert.Error(t, err)
}
