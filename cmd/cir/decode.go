// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/irp/decoder"
	"cirkit.dev/cir/irp/nfa"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/keymap"
	"cirkit.dev/cir/rawir"
)

func decodeMain(args []string, logger *log.Logger) error {
	fs := pflag.NewFlagSet("decode", pflag.ExitOnError)
	irpText := fs.StringP("irp", "i", "", "IRP notation to decode against")
	keymapPath := fs.StringP("keymap", "k", "", "rc_keymap or lircd.conf file to decode against")
	rawText := fs.StringArrayP("raw", "r", nil, "raw IR text (\"+N -N ...\")")
	files := fs.StringArrayP("file", "f", nil, "file of raw IR or mode2 text")
	aeps := fs.Int64("absolute-tolerance", 100, "absolute tolerance in microseconds")
	eps := fs.Int64("relative-tolerance", 30, "relative tolerance in percent")
	maxGap := fs.Int64("max-gap", 20000, "maximum gap in microseconds before a frame is considered done")
	verbose := fs.BoolP("verbose", "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if *irpText == "" && *keymapPath == "" {
		return errors.New("decode: one of --irp or --keymap is required")
	}

	var samples []irp.InfraredData
	for _, r := range *rawText {
		raw, err := rawir.Parse(r)
		if err != nil {
			return errors.Wrap(err, "decode: --raw")
		}
		samples = append(samples, toSamples(raw)...)
	}
	for _, path := range *files {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "decode: reading %q", path)
		}
		raw, err := rawir.ParseMode2(string(data))
		if err != nil {
			raw, err = rawir.Parse(string(data))
		}
		if err != nil {
			return errors.Wrapf(err, "decode: %q is neither raw nor mode2 text", path)
		}
		samples = append(samples, toSamples(raw)...)
	}
	if len(samples) == 0 {
		return errors.New("decode: no input samples (use --raw or --file)")
	}

	cfg := nfa.Config{AepsMicroseconds: *aeps, EpsPercent: *eps, MaxGapMicroseconds: *maxGap}

	if *irpText != "" {
		def, err := parser.Parse(*irpText)
		if err != nil {
			return errors.Wrap(err, "decode: parsing --irp")
		}
		fd, err := decoder.NewFrameDecoder(def, decoder.ModeDFA, cfg)
		if err != nil {
			return errors.Wrap(err, "decode: compiling --irp")
		}
		for _, s := range samples {
			err := fd.Input(s, func(kind decoder.EventKind, vars map[string]int64) {
				fmt.Printf("%s %s\n", kind, formatVars(vars))
			})
			if err != nil {
				return err
			}
		}
		return nil
	}

	data, err := os.ReadFile(*keymapPath)
	if err != nil {
		return errors.Wrapf(err, "decode: reading %q", *keymapPath)
	}
	keymaps, err := keymap.Parse(data, *keymapPath)
	if err != nil {
		return errors.Wrapf(err, "decode: parsing %q", *keymapPath)
	}
	var decoders []*keymap.Decoder
	for _, km := range keymaps {
		d, err := keymap.NewDecoder(km, cfg)
		if err != nil {
			logger.Warn("skipping keymap entry", "name", km.Name, "err", err)
			continue
		}
		decoders = append(decoders, d)
	}
	for _, s := range samples {
		for _, d := range decoders {
			if err := d.Input(s, func(keyName string, code uint64) {
				fmt.Printf("%s (0x%x)\n", keyName, code)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func toSamples(raw []int64) []irp.InfraredData {
	out := make([]irp.InfraredData, len(raw))
	for i, us := range raw {
		if i%2 == 0 {
			out[i] = irp.Flash2(us)
		} else {
			out[i] = irp.Gap2(us)
		}
	}
	return out
}

func formatVars(vars map[string]int64) string {
	s := ""
	for name, value := range vars {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%s=%d", name, value)
	}
	return s
}
