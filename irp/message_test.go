// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cirkit.dev/cir/irp"
)

func TestMessageValidateEmpty(t *testing.T) {
	assert.Error(t, irp.Message{}.Validate())
}

func TestMessageValidateOddLength(t *testing.T) {
	msg := irp.Message{Raw: []int64{100}}
	assert.Error(t, msg.Validate())
}

func TestMessageValidateEvenLength(t *testing.T) {
	msg := irp.Message{Raw: []int64{100, 200}}
	assert.NoError(t, msg.Validate())
}

func TestInfraredDataConstructors(t *testing.T) {
	assert.Equal(t, irp.InfraredData{Kind: irp.KindFlash, Microseconds: 564}, irp.Flash2(564))
	assert.Equal(t, irp.InfraredData{Kind: irp.KindGap, Microseconds: 564}, irp.Gap2(564))
	assert.Equal(t, irp.InfraredData{Kind: irp.KindReset}, irp.Reset())
	assert.Equal(t, "Flash", irp.Flash2(1).String())
	assert.Equal(t, "Gap", irp.Gap2(1).String())
	assert.Equal(t, "Reset", irp.Reset().String())
}
