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

func TestFindLinuxProtocolExact(t *testing.T) {
	p, ok := FindLinuxProtocol("nec")
	require.True(t, ok)
	assert.Equal(t, "nec", p.Decoder)
	assert.EqualValues(t, 9, p.ProtocolNo)
	assert.EqualValues(t, 0xffff, p.ScancodeMask)
}

func TestFindLinuxProtocolUnknown(t *testing.T) {
	_, ok := FindLinuxProtocol("not-a-protocol")
	assert.False(t, ok)
}

func TestFindLinuxProtocolLikeIgnoresPunctuationAndCase(t *testing.T) {
	p, ok := FindLinuxProtocolLike("RC_MM-12")
	require.True(t, ok)
	assert.Equal(t, "rc-mm-12", p.Name)

	p, ok = FindLinuxProtocolLike("rc5 sz")
	require.True(t, ok)
	assert.Equal(t, "rc5_sz", p.Name)
}

func TestFindLinuxProtocolLikeUnknown(t *testing.T) {
	_, ok := FindLinuxProtocolLike("totally-unknown-protocol")
	assert.False(t, ok)
}

func TestLinuxProtocolsIRPAllParse(t *testing.T) {
	for _, p := range LinuxProtocols {
		if p.IRP == "" {
			continue
		}
		_, err := parser.Parse(p.IRP)
		assert.NoErrorf(t, err, "protocol %s has invalid IRP: %s", p.Name, p.IRP)
	}
}
