// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"fmt"
	"strconv"
	"strings"

	"cirkit.dev/cir/pronto"
	"cirkit.dev/cir/rawir"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// parseTOML decodes an ir-keytable toml file: a top-level "protocols"
// array of tables, each either a named/variant protocol, an inline IRP
// definition, a BPF-style parameterized protocol (pulse_distance,
// pulse_length, manchester), or a raw table of per-key codes.
func parseTOML(data []byte) ([]*Keymap, error) {
	var top struct {
		Protocols []map[string]interface{} `toml:"protocols"`
	}
	if _, err := toml.Decode(string(data), &top); err != nil {
		return nil, errors.Wrap(err, "parsing keymap toml")
	}
	if top.Protocols == nil {
		return nil, errors.New("keymap toml: missing top level protocols array")
	}

	var out []*Keymap
	for _, entry := range top.Protocols {
		km, err := parseTOMLProtocol(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, km)
	}
	return out, nil
}

func tomlString(entry map[string]interface{}, key string) (string, bool) {
	v, ok := entry[key].(string)
	return v, ok
}

func tomlInt(entry map[string]interface{}, key string, def int64) int64 {
	if v, ok := entry[key].(int64); ok {
		return v
	}
	return def
}

func parseTOMLProtocol(entry map[string]interface{}) (*Keymap, error) {
	name, ok := tomlString(entry, "name")
	if !ok {
		return nil, errors.New("keymap toml: missing name")
	}
	protocol, ok := tomlString(entry, "protocol")
	if !ok {
		return nil, errors.Errorf("keymap toml %q: missing protocol", name)
	}

	km := &Keymap{Name: name, Protocol: protocol}
	if v, ok := tomlString(entry, "variant"); ok {
		km.Variant = v
	}
	if v, ok := entry["rc_protocol"].(int64); ok {
		if v < 0 || v > 0xffff {
			return nil, errors.Errorf("keymap toml %q: rc_protocol %d must be 16 bit", name, v)
		}
		km.RCProtocol = uint16(v)
		km.HasRCProtocol = true
	}

	if protocol == "raw" {
		raws, ok := entry["raw"].([]map[string]interface{})
		if !ok {
			raws = convertTableArray(entry["raw"])
		}
		if raws == nil {
			return nil, errors.Errorf("keymap toml %q: raw protocol is missing raw entries", name)
		}
		rawEntries, err := parseTOMLRaw(raws)
		if err != nil {
			return nil, err
		}
		km.Raw = rawEntries
		return km, nil
	}

	if _, ok := entry["raw"]; ok {
		return nil, errors.Errorf("keymap toml %q: raw entries for non-raw protocol", name)
	}

	if irp, ok := tomlString(entry, "irp"); ok {
		if protocol != "irp" {
			return nil, errors.Errorf("keymap toml %q: set the protocol to irp when using irp", name)
		}
		km.IRP = irp
	} else if irp, ok := bpfProtocolIRP(protocol, entry); ok {
		km.IRP = irp
	}

	if codes, ok := entry["scancodes"].(map[string]interface{}); ok {
		km.Scancodes = make(map[uint64]string, len(codes))
		for key, value := range codes {
			s, ok := value.(string)
			if !ok {
				return nil, errors.Errorf("keymap toml %q: scancode should be string", name)
			}
			code, err := parseHexKey(key)
			if err != nil {
				return nil, errors.Wrapf(err, "keymap toml %q", name)
			}
			km.Scancodes[code] = s
		}
	}

	return km, nil
}

// convertTableArray handles the shape BurntSushi/toml actually produces
// for an array of tables decoded into interface{}: []map[string]interface{}
// most of the time, but toml.Primitive-free decoding into interface{}
// already yields that slice type directly, so this is a defensive pass
// for the [] interface{} form some encodings use.
func convertTableArray(v interface{}) []map[string]interface{} {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil
		}
		out = append(out, m)
	}
	return out
}

func parseTOMLRaw(entries []map[string]interface{}) ([]Raw, error) {
	var out []Raw
	for _, e := range entries {
		keycode, ok := tomlString(e, "keycode")
		if !ok {
			return nil, errors.New("keymap toml: missing keycode")
		}
		rawText, hasRaw := tomlString(e, "raw")
		repeatText, hasRepeat := tomlString(e, "repeat")
		prontoText, hasPronto := tomlString(e, "pronto")

		if hasPronto {
			if hasRaw {
				return nil, errors.New("keymap toml: raw entry has both pronto hex code and raw")
			}
			if hasRepeat {
				return nil, errors.New("keymap toml: raw entry has both pronto hex code and repeat")
			}
			code, err := pronto.Decode(prontoText)
			if err != nil {
				return nil, errors.Wrapf(err, "keymap toml: raw entry %q", keycode)
			}
			out = append(out, Raw{Keycode: keycode, Pronto: &code})
			continue
		}
		if !hasRaw {
			return nil, errors.New("keymap toml: raw entry has neither pronto hex code nor raw")
		}

		raw, err := rawir.Parse(rawText)
		if err != nil {
			return nil, errors.Wrapf(err, "keymap toml: raw entry %q", keycode)
		}
		entryOut := Raw{Keycode: keycode, Raw: raw}
		if hasRepeat {
			repeat, err := rawir.Parse(repeatText)
			if err != nil {
				return nil, errors.Wrapf(err, "keymap toml: raw entry %q repeat", keycode)
			}
			entryOut.Repeat = repeat
		}
		out = append(out, entryOut)
	}
	return out, nil
}

func parseHexKey(key string) (uint64, error) {
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	v, err := strconv.ParseUint(key, 16, 64)
	if err != nil {
		return 0, errors.Errorf("invalid scancode key %q", key)
	}
	return v, nil
}

// bpfProtocolIRP renders the inline IRP definition for one of the BPF
// decoder's parameterized protocol shapes, so a keymap entry naming
// "pulse_distance", "pulse_length" or "manchester" with explicit timing
// parameters compiles through the same Irp pipeline as everything else
// rather than needing a bespoke decoder.
func bpfProtocolIRP(protocol string, entry map[string]interface{}) (string, bool) {
	switch protocol {
	case "pulse_distance":
		return pulseDistanceIRP(entry), true
	case "pulse_length":
		return pulseLengthIRP(entry), true
	case "manchester":
		return manchesterIRP(entry), true
	default:
		return "", false
	}
}

func pulseDistanceIRP(e map[string]interface{}) string {
	var b strings.Builder
	bitsWide := tomlInt(e, "bits", 4)

	b.WriteByte('{')
	if tomlInt(e, "reverse", 0) == 0 {
		b.WriteString("msb,")
	}
	if _, ok := e["carrier"]; ok {
		fmt.Fprintf(&b, "%dHz,", tomlInt(e, "carrier", 0))
	}
	trimTrailingComma(&b)

	fmt.Fprintf(&b, "}<%d,-%d|%d,-%d>(%d,-%d,CODE:%d,%d,-40m",
		tomlInt(e, "bit_pulse", 625), tomlInt(e, "bit_0_space", 375),
		tomlInt(e, "bit_pulse", 625), tomlInt(e, "bit_1_space", 1625),
		tomlInt(e, "header_pulse", 2125), tomlInt(e, "header_space", 1875),
		bitsWide, tomlInt(e, "trailer_pulse", 625))

	if tomlInt(e, "header_optional", 0) > 0 {
		fmt.Fprintf(&b, ",(CODE:%d,%d,-40m)*", bitsWide, tomlInt(e, "trailer_pulse", 625))
	} else if rp := tomlInt(e, "repeat_pulse", 0); rp > 0 {
		fmt.Fprintf(&b, ",(%d,-%d,%d,-40)*", rp, tomlInt(e, "repeat_space", 0), tomlInt(e, "trailer_pulse", 625))
	}
	fmt.Fprintf(&b, ") [CODE:0..%d]", bpfGenMask(bitsWide))
	return b.String()
}

func pulseLengthIRP(e map[string]interface{}) string {
	var b strings.Builder
	bitsWide := tomlInt(e, "bits", 4)

	b.WriteByte('{')
	if tomlInt(e, "reverse", 0) == 0 {
		b.WriteString("msb,")
	}
	if _, ok := e["carrier"]; ok {
		fmt.Fprintf(&b, "%dHz,", tomlInt(e, "carrier", 0))
	}
	trimTrailingComma(&b)

	fmt.Fprintf(&b, "}<%d,-%d|%d,-%d>(%d,-%d,CODE:%d,-40m",
		tomlInt(e, "bit_0_pulse", 375), tomlInt(e, "bit_space", 625),
		tomlInt(e, "bit_1_pulse", 1625), tomlInt(e, "bit_space", 625),
		tomlInt(e, "header_pulse", 2125), tomlInt(e, "header_space", 1875),
		bitsWide)

	if tomlInt(e, "header_optional", 0) > 0 {
		fmt.Fprintf(&b, ",(CODE:%d,-40m)*", bitsWide)
	} else if rp := tomlInt(e, "repeat_pulse", 0); rp > 0 {
		fmt.Fprintf(&b, ",(%d,-%d,%d,-40)*", rp, tomlInt(e, "repeat_space", 0), tomlInt(e, "trailer_pulse", 625))
	}
	fmt.Fprintf(&b, ") [CODE:0..%d]", bpfGenMask(bitsWide))
	return b.String()
}

func manchesterIRP(e map[string]interface{}) string {
	var b strings.Builder
	bitsWide := tomlInt(e, "bits", 14)
	toggleBit := tomlInt(e, "toggle_bit", 100)

	b.WriteString("{msb,")
	if _, ok := e["carrier"]; ok {
		fmt.Fprintf(&b, "%dHz,", tomlInt(e, "carrier", 0))
	}
	trimTrailingComma(&b)

	fmt.Fprintf(&b, "}<-%d,%d|%d,-%d>(",
		tomlInt(e, "zero_space", 888), tomlInt(e, "zero_pulse", 888),
		tomlInt(e, "one_pulse", 888), tomlInt(e, "one_space", 888))

	headerPulse, headerSpace := tomlInt(e, "header_pulse", 0), tomlInt(e, "header_space", 0)
	if headerPulse > 0 && headerSpace > 0 {
		fmt.Fprintf(&b, "%d,-%d,", headerPulse, headerSpace)
	}

	if toggleBit >= bitsWide {
		fmt.Fprintf(&b, "CODE:%d,-40m", bitsWide)
	} else {
		leading := bitsWide - toggleBit
		if leading > 1 {
			fmt.Fprintf(&b, "CODE:%d:%d,", leading-1, toggleBit+1)
		}
		b.WriteString("T:1,")
		if toggleBit > 0 {
			fmt.Fprintf(&b, "CODE:%d,", toggleBit)
		}
		trimTrailingComma(&b)
		b.WriteString(",-40m")
	}
	fmt.Fprintf(&b, ") [CODE:0..%d]", bpfGenMask(bitsWide))
	return b.String()
}

func trimTrailingComma(b *strings.Builder) {
	s := b.String()
	if strings.HasSuffix(s, ",") {
		b.Reset()
		b.WriteString(s[:len(s)-1])
	}
}

func bpfGenMask(n int64) uint64 {
	if n <= 0 {
		return 0
	}
	if n >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(n) - 1
}
