// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lircd_test

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/lircd"
)

const minimalConf = `
begin remote

  name  minimal
  flags SPACE_ENC
  eps   30
  aeps  100

  header  9000 4500
  one     560  1690
  zero    560  560
  ptrail  560
  gap     108000
  bits    16
  pre_data_bits 16
  pre_data 0x1234

  begin codes
    KEY 0x5678
  end codes

end remote
`

func TestParseMinimalRemote(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	remotes, err := lircd.Parse(strings.NewReader(minimalConf), logger)
	require.NoError(t, err)
	require.Len(t, remotes, 1)

	r := remotes[0]
	assert.Equal(t, "minimal", r.Name)
	assert.Equal(t, lircd.FlagSpaceEnc, r.Flags)
	assert.EqualValues(t, 16, r.Bits)
	assert.EqualValues(t, 0x1234, r.PreData)
	assert.Equal(t, lircd.Pair{Pulse: 9000, Gap: 4500}, r.Header)
	require.Len(t, r.Codes, 1)
	assert.Equal(t, "KEY", r.Codes[0].Name)
	assert.EqualValues(t, 0x5678, r.Codes[0].Code)
}

func TestParseSkipsInvalidRemote(t *testing.T) {
	const conf = `
begin remote
  name broken
end remote
`
	logger := log.NewWithOptions(io.Discard, log.Options{})
	remotes, err := lircd.Parse(strings.NewReader(conf), logger)
	require.NoError(t, err)
	assert.Empty(t, remotes)
}

func TestParseRejectsGarbageInsideBlock(t *testing.T) {
	const conf = `
begin remote
  name broken
  end something
`
	logger := log.NewWithOptions(io.Discard, log.Options{})
	_, err := lircd.Parse(strings.NewReader(conf), logger)
	assert.Error(t, err)
}
