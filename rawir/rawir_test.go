// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rawir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/rawir"
)

func TestParseRoundTrip(t *testing.T) {
	raw, err := rawir.Parse("+9024 -4512 +564 -1692")
	require.NoError(t, err)
	assert.Equal(t, []int64{9024, 4512, 564, 1692}, raw)
	assert.Equal(t, "+9024 -4512 +564 -1692", rawir.Format(raw))
}

func TestParseDropsTrailingUnmatchedFlash(t *testing.T) {
	raw, err := rawir.Parse("+100 -200 +300")
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200}, raw)
}

func TestParseRejectsNonAlternating(t *testing.T) {
	_, err := rawir.Parse("+100 +200")
	assert.Error(t, err)
}

func TestParseRejectsMissingSign(t *testing.T) {
	_, err := rawir.Parse("100 -200")
	assert.Error(t, err)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := rawir.Parse("")
	assert.Error(t, err)
}

func TestParseMode2RoundTrip(t *testing.T) {
	raw, err := rawir.ParseMode2("pulse 9024\nspace 4512\npulse 564\nspace 1692\n")
	require.NoError(t, err)
	assert.Equal(t, []int64{9024, 4512, 564, 1692}, raw)
	assert.Equal(t, "pulse 9024\nspace 4512\npulse 564\nspace 1692", rawir.FormatMode2(raw))
}

func TestParseMode2IgnoresTimeoutAndComments(t *testing.T) {
	raw, err := rawir.ParseMode2("# header\npulse 9024\nspace 4512\ntimeout 100000\n")
	require.NoError(t, err)
	assert.Equal(t, []int64{9024, 4512}, raw)
}

func TestParseMode2RejectsZeroLength(t *testing.T) {
	_, err := rawir.ParseMode2("pulse 0\n")
	assert.Error(t, err)
}

func TestParseMode2RejectsOutOfOrder(t *testing.T) {
	_, err := rawir.ParseMode2("space 100\n")
	assert.Error(t, err)
}
