// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import "strings"

// Parse reads a keymap file, dispatching on filename's extension: ".toml"
// for the ir-keytable toml format, anything else for the older text
// format. No validation of key codes or protocol names is performed.
func Parse(data []byte, filename string) ([]*Keymap, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".toml") {
		return parseTOML(data)
	}
	return parseText(data)
}
