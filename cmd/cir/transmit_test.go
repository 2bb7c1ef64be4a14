// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmitMainDryRunPrintsRawAndPronto(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	out := captureStdout(t, func() {
		err := transmitMain([]string{
			"--irp", "{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]",
			"F=1",
		}, logger)
		require.NoError(t, err)
	})
	assert.Contains(t, out, "carrier: 40000Hz")
	assert.Contains(t, out, "rawir:")
	assert.Contains(t, out, "pronto:")
}

func TestTransmitMainRequiresIRP(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	err := transmitMain([]string{"F=1"}, logger)
	assert.Error(t, err)
}

func TestTransmitMainRejectsMalformedArgument(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	err := transmitMain([]string{
		"--irp", "{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]",
		"notkeyvalue",
	}, logger)
	assert.Error(t, err)
}

func TestParseFieldValueBases(t *testing.T) {
	v, err := parseFieldValue("0x1f")
	require.NoError(t, err)
	assert.EqualValues(t, 31, v)

	v, err = parseFieldValue("10")
	require.NoError(t, err)
	assert.EqualValues(t, 10, v)
}
