// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lircd

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Parse reads every "begin remote"/"end remote" block from r, warning
// (via logger) on unexpected lines the way lircd itself tolerates
// garbage outside a block, but erroring on a malformed block body.
func Parse(r io.Reader, logger *log.Logger) ([]*Remote, error) {
	p := &parser{scanner: bufio.NewScanner(r), logger: logger}
	var remotes []*Remote
	for {
		line, ok := p.nextLine()
		if !ok {
			return remotes, nil
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "begin" && fields[1] == "remote" {
			remote, err := p.readRemote()
			if err != nil {
				return nil, err
			}
			if err := remote.Validate(); err != nil {
				p.logger.Warn("skipping invalid remote", "err", err)
				continue
			}
			remotes = append(remotes, remote)
			continue
		}
		p.logger.Warn("expected 'begin remote'", "line", p.lineNo, "got", line)
	}
}

type parser struct {
	scanner *bufio.Scanner
	lineNo  int
	logger  *log.Logger
}

func (p *parser) nextLine() (string, bool) {
	for p.scanner.Scan() {
		p.lineNo++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

func (p *parser) errf(format string, args ...interface{}) error {
	return errors.Errorf("line %d: "+format, append([]interface{}{p.lineNo}, args...)...)
}

func (p *parser) readRemote() (*Remote, error) {
	remote := &Remote{Frequency: 38000}
	for {
		line, ok := p.nextLine()
		if !ok {
			return nil, p.errf("unexpected end of file inside 'begin remote'")
		}
		fields := strings.Fields(line)
		key := fields[0]
		switch key {
		case "end":
			if len(fields) >= 2 && fields[1] == "remote" {
				return remote, nil
			}
			return nil, p.errf("expected 'end remote', got %q", line)
		case "name":
			if len(fields) < 2 {
				return nil, p.errf("missing name argument")
			}
			remote.Name = fields[1]
		case "driver":
			if len(fields) < 2 {
				return nil, p.errf("missing driver argument")
			}
			remote.Driver = fields[1]
		case "flags":
			if len(fields) < 2 {
				return nil, p.errf("missing flags argument")
			}
			flags, err := parseFlags(fields[1])
			if err != nil {
				return nil, p.errf("%s", err)
			}
			remote.Flags = flags
		case "eps", "aeps", "bits", "plead", "ptrail", "pre_data_bits", "pre_data",
			"post_data_bits", "post_data", "gap", "gap2", "frequency", "duty_cycle",
			"toggle_bit_mask", "repeat_mask", "min_repeat":
			val, err := p.numberArg(key, fields)
			if err != nil {
				return nil, err
			}
			switch key {
			case "eps":
				remote.Eps = val
			case "aeps":
				remote.Aeps = val
			case "bits":
				remote.Bits = val
			case "plead":
				remote.Plead = val
			case "ptrail":
				remote.Ptrail = val
			case "pre_data_bits":
				remote.PreDataBits = val
			case "pre_data":
				remote.PreData = val
			case "post_data_bits":
				remote.PostDataBits = val
			case "post_data":
				remote.PostData = val
			case "gap":
				remote.Gap = val
			case "gap2":
				remote.Gap2 = val
			case "frequency":
				remote.Frequency = val
			case "duty_cycle":
				remote.DutyCycle = val
			case "toggle_bit_mask":
				remote.ToggleBitMask = val
			case "repeat_mask":
				remote.RepeatMask = val
			case "min_repeat":
				remote.MinRepeat = val
			}
		case "header", "pre", "post", "foot", "repeat", "zero", "one", "two", "three":
			pair, err := p.pairArg(key, fields)
			if err != nil {
				return nil, err
			}
			switch key {
			case "header":
				remote.Header = pair
			case "pre":
				remote.Pre = pair
			case "post":
				remote.Post = pair
			case "foot":
				remote.Foot = pair
			case "repeat":
				remote.Repeat = pair
			case "zero":
				remote.Zero = pair
			case "one":
				remote.One = pair
			case "two":
				remote.Two = pair
			case "three":
				remote.Three = pair
			}
		case "begin":
			if len(fields) < 2 {
				return nil, p.errf("expected 'begin codes' or 'begin raw_codes'")
			}
			switch fields[1] {
			case "codes":
				codes, err := p.readCodes()
				if err != nil {
					return nil, err
				}
				remote.Codes = codes
			case "raw_codes":
				raw, err := p.readRawCodes()
				if err != nil {
					return nil, err
				}
				remote.RawCodes = raw
			default:
				return nil, p.errf("expected 'begin codes' or 'begin raw_codes', got %q", line)
			}
		default:
			p.logger.Warn("unknown lircd.conf key", "line", p.lineNo, "key", key)
		}
	}
}

func (p *parser) numberArg(name string, fields []string) (uint64, error) {
	if len(fields) < 2 {
		return 0, p.errf("missing %s argument", name)
	}
	v, err := parseNumber(fields[1])
	if err != nil {
		return 0, p.errf("%s argument %q is not a number", name, fields[1])
	}
	return v, nil
}

func (p *parser) pairArg(name string, fields []string) (Pair, error) {
	if len(fields) < 3 {
		return Pair{}, p.errf("missing %s arguments", name)
	}
	pulse, err := parseNumber(fields[1])
	if err != nil {
		return Pair{}, p.errf("%s pulse %q is not a number", name, fields[1])
	}
	gap, err := parseNumber(fields[2])
	if err != nil {
		return Pair{}, p.errf("%s gap %q is not a number", name, fields[2])
	}
	return Pair{Pulse: pulse, Gap: gap}, nil
}

func (p *parser) readCodes() ([]Code, error) {
	var codes []Code
	for {
		line, ok := p.nextLine()
		if !ok {
			return nil, p.errf("unexpected end of file inside 'begin codes'")
		}
		fields := strings.Fields(line)
		if fields[0] == "end" {
			if len(fields) >= 2 && fields[1] == "codes" {
				return codes, nil
			}
			return nil, p.errf("expected 'end codes', got %q", line)
		}
		if len(fields) < 2 {
			return nil, p.errf("missing scancode for %q", fields[0])
		}
		val, err := parseNumber(fields[1])
		if err != nil {
			return nil, p.errf("scancode %q is not valid", fields[1])
		}
		codes = append(codes, Code{Name: fields[0], Code: val})
	}
}

func (p *parser) readRawCodes() ([]RawCode, error) {
	var codes []RawCode
	for {
		line, ok := p.nextLine()
		if !ok {
			return nil, p.errf("unexpected end of file inside 'begin raw_codes'")
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "end":
			if len(fields) >= 2 && fields[1] == "raw_codes" {
				return codes, nil
			}
			return nil, p.errf("expected 'end raw_codes', got %q", line)
		case "name":
			if len(fields) < 2 {
				return nil, p.errf("missing raw code name")
			}
			lengths, err := p.readLengths(fields[2:])
			if err != nil {
				return nil, err
			}
			codes = append(codes, RawCode{Name: fields[1], Raw: lengths})
		default:
			if len(codes) == 0 {
				return nil, p.errf("%q not expected", fields[0])
			}
			lengths, err := p.readLengths(fields)
			if err != nil {
				return nil, err
			}
			codes[len(codes)-1].Raw = append(codes[len(codes)-1].Raw, lengths...)
		}
	}
}

func (p *parser) readLengths(fields []string) ([]uint32, error) {
	lengths := make([]uint32, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f, "#") {
			break
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, p.errf("invalid duration %q", f)
		}
		lengths = append(lengths, uint32(v))
	}
	return lengths, nil
}

func parseNumber(s string) (uint64, error) {
	if v, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseUint(v, 16, 64)
	}
	if v, ok := strings.CutPrefix(s, "0X"); ok {
		return strconv.ParseUint(v, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

func parseFlags(s string) (Flags, error) {
	var out Flags
	for _, tok := range strings.Split(s, "|") {
		f, ok := flagNames[tok]
		if !ok {
			return 0, errors.Errorf("unknown flag %q", tok)
		}
		out |= f
	}
	return out, nil
}
