// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/rawir"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestDecodeMainWithIRPAndRaw(t *testing.T) {
	const irpText = "{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]"
	def, err := parser.Parse(irpText)
	require.NoError(t, err)
	msg, err := encoder.Encode(def, map[string]int64{"F": 1}, 0)
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	out := captureStdout(t, func() {
		err := decodeMain([]string{
			"--irp", irpText,
			"--raw", rawir.Format(msg.Raw),
		}, logger)
		require.NoError(t, err)
	})
	assert.Contains(t, out, "down")
	assert.Contains(t, out, "F=")
}

func TestDecodeMainRequiresIRPOrKeymap(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	err := decodeMain([]string{"--raw", "+100 -100"}, logger)
	assert.Error(t, err)
}

func TestDecodeMainRequiresSamples(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	err := decodeMain([]string{"--irp", "{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]"}, logger)
	assert.Error(t, err)
}

func TestToSamplesAlternatesFlashGap(t *testing.T) {
	samples := toSamples([]int64{100, 200, 300})
	require.Len(t, samples, 3)
	assert.Equal(t, irp.Flash2(100), samples[0])
	assert.Equal(t, irp.Gap2(200), samples[1])
	assert.Equal(t, irp.Flash2(300), samples[2])
}

func TestFormatVars(t *testing.T) {
	s := formatVars(map[string]int64{"F": 1})
	assert.Equal(t, "F=1", s)
}
