// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package keymap parses and decodes Linux rc_keymap tables: the
// ir-keytable toml format and the older "# table NAME, type: PROTO"
// text format, both mapping scancodes (or raw/Pronto timing) to Linux
// key names.
package keymap

import (
	"cirkit.dev/cir/pronto"
)

// Keymap is one protocol table: either a named Linux kernel decoder
// (Protocol/Variant, optionally with an explicit scancode mask carried
// by RCProtocol), an inline IRP definition, or a set of raw/Pronto
// per-key codes.
type Keymap struct {
	Name          string
	Protocol      string
	Variant       string
	IRP           string
	RCProtocol    uint16
	HasRCProtocol bool
	Raw           []Raw
	Scancodes     map[uint64]string
}

// Raw is one key's worth of raw timing, used when Protocol == "raw".
// Exactly one of Pronto or Raw is set; Repeat is optional in either case.
type Raw struct {
	Keycode string
	Raw     []int64
	Repeat  []int64
	Pronto  *pronto.Code
}
