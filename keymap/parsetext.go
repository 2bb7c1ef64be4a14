// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseText reads the older ir-keytable text format:
//
//	# table NAME, type: PROTO[,PROTO...]
//	0xHEX KEYNAME
//	...
//
// Only the first named protocol gets the scancode table; any further
// comma-separated protocol names become empty placeholder Keymaps, the
// same shape the toml format's multi-entry "protocols" array takes.
func parseText(data []byte) ([]*Keymap, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	lineNo := 0

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	line, ok := nextLine()
	if !ok {
		return nil, errors.New("keymap text: empty file")
	}
	name, protocols, err := parseTextHeader(line, lineNo)
	if err != nil {
		return nil, err
	}

	scancodes := make(map[uint64]string)
	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Errorf("keymap text: line %d: expected 'hex keyname', got %q", lineNo, line)
		}
		code, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X"), 16, 64)
		if err != nil {
			return nil, errors.Errorf("keymap text: line %d: invalid scancode %q", lineNo, fields[0])
		}
		scancodes[code] = fields[1]
	}

	out := []*Keymap{{Name: name, Protocol: protocols[0], Scancodes: scancodes}}
	for _, p := range protocols[1:] {
		out = append(out, &Keymap{Protocol: p})
	}
	return out, nil
}

// parseTextHeader parses "# table NAME[:|=] , type[:|=] PROTO[,PROTO...]".
func parseTextHeader(line string, lineNo int) (string, []string, error) {
	if !strings.HasPrefix(line, "#") {
		return "", nil, errors.Errorf("keymap text: line %d: expected '# table ...' header, got %q", lineNo, line)
	}
	rest := strings.TrimSpace(line[1:])
	rest = strings.TrimPrefix(rest, "table")
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))

	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return "", nil, errors.Errorf("keymap text: line %d: missing 'type:' in header", lineNo)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", nil, errors.Errorf("keymap text: line %d: missing table name", lineNo)
	}

	typePart := strings.TrimSpace(parts[1])
	typePart = strings.TrimPrefix(typePart, "type")
	typePart = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(typePart), ":"))
	typePart = strings.TrimSpace(strings.TrimPrefix(typePart, "="))

	var protocols []string
	for _, p := range strings.Split(typePart, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			break
		}
		protocols = append(protocols, p)
	}
	if len(protocols) == 0 {
		return "", nil, errors.Errorf("keymap text: line %d: missing protocol type", lineNo)
	}
	return name, protocols, nil
}
