// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/parser"
)

func TestEncodeNEC(t *testing.T) {
	def, err := parser.Parse("{38.4k,564}<1,-1|1,-3>(16,-8,D:8,S:8,F:8,~F:8,1,^108m)* [D:0..255,S:0..255=255-D,F:0..255]")
	require.NoError(t, err)

	msg, err := encoder.Encode(def, map[string]int64{"D": 0xe9, "F": 1, "S": 0xfe}, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(38400), msg.CarrierHz)
	require.NotEmpty(t, msg.Raw)
	assert.Equal(t, []int64{9024, 4512, 564, 1692, 564, 564}, msg.Raw[:6])
	assert.Equal(t, int64(35244), msg.Raw[len(msg.Raw)-1])
	assert.Len(t, msg.Raw, 68)
}

func TestEncodeSony8(t *testing.T) {
	def, err := parser.Parse("{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]")
	require.NoError(t, err)

	msg, err := encoder.Encode(def, map[string]int64{"F": 196}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), msg.CarrierHz)
	require.NoError(t, msg.Validate())
}
