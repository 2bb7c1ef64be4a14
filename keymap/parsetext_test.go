// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textKeymap = `# table minimal, type: nec
0x1234 KEY_POWER
0x1235 KEY_VOLUMEUP
`

func TestParseTextKeymap(t *testing.T) {
	kms, err := Parse([]byte(textKeymap), "minimal.conf")
	require.NoError(t, err)
	require.Len(t, kms, 1)
	assert.Equal(t, "minimal", kms[0].Name)
	assert.Equal(t, "nec", kms[0].Protocol)
	assert.Equal(t, "KEY_POWER", kms[0].Scancodes[0x1234])
	assert.Equal(t, "KEY_VOLUMEUP", kms[0].Scancodes[0x1235])
}

func TestParseTextKeymapMultiProtocolHeader(t *testing.T) {
	const text = "# table dual, type: nec,rc5\n0x01 KEY_OK\n"
	kms, err := Parse([]byte(text), "dual.conf")
	require.NoError(t, err)
	require.Len(t, kms, 2)
	assert.Equal(t, "nec", kms[0].Protocol)
	assert.Equal(t, "rc5", kms[1].Protocol)
}

func TestParseTextKeymapRejectsMissingHeader(t *testing.T) {
	_, err := Parse([]byte("0x01 KEY_OK\n"), "broken.conf")
	assert.Error(t, err)
}

func TestParseTextKeymapRejectsBadScancode(t *testing.T) {
	const text = "# table minimal, type: nec\nZZZZ KEY_OK\n"
	_, err := Parse([]byte(text), "minimal.conf")
	assert.Error(t, err)
}
