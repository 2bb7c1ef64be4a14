// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownProtocols(t *testing.T) {
	for _, name := range []string{"nec", "rc5", "rc6", "rc6-6a-32", "sony8", "sony15", "sony20"} {
		p, ok := Lookup(name)
		require.Truef(t, ok, "protocol %q should be registered", name)
		assert.Equal(t, name, p.Name)
		require.NotNil(t, p.Def)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestProtocolsSortedByName(t *testing.T) {
	all := Protocols()
	require.True(t, len(all) >= 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	err := Register("nec", "{38.4k,564}<1,-1|1,-3>(16,-8,F:8,~F:8,1,^108m)[F:0..255]")
	require.Error(t, err)
}

func TestMustRegisterPanicsOnBadIRP(t *testing.T) {
	assert.Panics(t, func() {
		MustRegister("broken", "not an irp")
	})
}
