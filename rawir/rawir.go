// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rawir parses and formats raw infrared timing text: the
// "+N -N +N -N ..." notation used by keymap raw entries and irp's own
// textual samples, and the "pulse N"/"space N" mode2 notation lircd's
// capture devices emit.
package rawir

import (
	"strconv"
	"strings"

	"cirkit.dev/cir/irp"
)

// Parse reads "+N -N ..." raw text into a flash/gap microsecond vector,
// magnitude only (irp.Message.Raw's own representation): a leading '+'
// marks a flash, '-' a gap, and signs must alternate starting with a
// flash. A trailing flash with no matching gap is dropped, so Parse
// always returns an even-length, Validate-clean vector.
func Parse(s string) ([]int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, &irp.ValidationError{Message: "raw ir text has no samples"}
	}
	raw := make([]int64, 0, len(fields))
	wantGap := false
	for _, f := range fields {
		if len(f) < 2 {
			return nil, &irp.ValidationError{Message: "raw ir token " + strconv.Quote(f) + " has no sign"}
		}
		gap := f[0] == '-'
		if !gap && f[0] != '+' {
			return nil, &irp.ValidationError{Message: "raw ir token " + strconv.Quote(f) + " must start with + or -"}
		}
		if gap != wantGap {
			return nil, &irp.ValidationError{Message: "raw ir text does not alternate flash/gap at " + strconv.Quote(f)}
		}
		v, err := strconv.ParseInt(f[1:], 10, 64)
		if err != nil || v <= 0 {
			return nil, &irp.ValidationError{Message: "raw ir token " + strconv.Quote(f) + " is not a positive duration"}
		}
		raw = append(raw, v)
		wantGap = !gap
	}
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	return raw, nil
}

// Format renders raw as "+N -N ..." text.
func Format(raw []int64) string {
	var b strings.Builder
	for i, v := range raw {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i%2 == 0 {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

// ParseMode2 reads "pulse N"/"space N" mode2 text, the format lircd's
// kernel drivers and ir-ctl capture tooling emit. "timeout N" lines are
// accepted and ignored, matching a trailing receiver idle-timeout
// marker rather than a sample. Grounded on the reference decoder's
// strict alternation and "nonsensical 0 length" rules.
func ParseMode2(s string) ([]int64, error) {
	var raw []int64
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "pulse":
			if len(raw)%2 != 0 {
				return nil, &irp.ValidationError{Message: "mode2: pulse encountered while expecting space"}
			}
		case "space":
			if len(raw)%2 == 0 {
				return nil, &irp.ValidationError{Message: "mode2: space encountered while expecting pulse"}
			}
		case "timeout":
			continue
		default:
			if !strings.HasPrefix(fields[0], "#") {
				return nil, &irp.ValidationError{Message: "mode2: unexpected token " + strconv.Quote(fields[0])}
			}
			continue
		}
		if len(fields) < 2 {
			return nil, &irp.ValidationError{Message: "mode2: missing duration after " + fields[0]}
		}
		v, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, &irp.ValidationError{Message: "mode2: invalid duration " + strconv.Quote(fields[1])}
		}
		if v == 0 {
			return nil, &irp.ValidationError{Message: "mode2: nonsensical zero-length " + fields[0]}
		}
		raw = append(raw, int64(v))
	}
	if len(raw) == 0 {
		return nil, &irp.ValidationError{Message: "mode2: missing pulse"}
	}
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	return raw, nil
}

// FormatMode2 renders raw as "pulse N"/"space N" mode2 text.
func FormatMode2(raw []int64) string {
	var b strings.Builder
	for i, v := range raw {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i%2 == 0 {
			b.WriteString("pulse ")
		} else {
			b.WriteString("space ")
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}
