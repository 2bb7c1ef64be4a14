// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"cirkit.dev/cir/irdevice"
	"cirkit.dev/cir/irp/encoder"
	"cirkit.dev/cir/irp/parser"
	"cirkit.dev/cir/pronto"
	"cirkit.dev/cir/rawir"
)

func transmitMain(args []string, logger *log.Logger) error {
	fs := pflag.NewFlagSet("transmit", pflag.ExitOnError)
	irpText := fs.StringP("irp", "i", "", "IRP notation to encode")
	repeats := fs.Int("repeats", 0, "number of extra repeat frames to render")
	dryRun := fs.BoolP("dry-run", "n", true, "print the rendered frame instead of sending it")
	device := fs.String("device", "", "lircd socket to transmit through (implies --dry-run=false)")
	verbose := fs.BoolP("verbose", "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if *irpText == "" {
		return errors.New("transmit: --irp is required")
	}

	params := map[string]int64{}
	for _, arg := range fs.Args() {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.Errorf("transmit: argument %q must be NAME=VALUE", arg)
		}
		v, err := parseFieldValue(value)
		if err != nil {
			return errors.Wrapf(err, "transmit: argument %q", arg)
		}
		params[name] = v
	}

	def, err := parser.Parse(*irpText)
	if err != nil {
		return errors.Wrap(err, "transmit: parsing --irp")
	}
	msg, err := encoder.Encode(def, params, *repeats)
	if err != nil {
		return errors.Wrap(err, "transmit: encoding")
	}

	if msg.CarrierHz > 0 {
		fmt.Printf("carrier: %dHz\n", msg.CarrierHz)
	} else {
		fmt.Println("carrier: unmodulated")
	}
	fmt.Printf("rawir: %s\n", rawir.Format(msg.Raw))
	if hex, err := (pronto.Code{CarrierHz: msg.CarrierHz, Modulated: msg.CarrierHz > 0, Intro: msg.Raw}).Encode(); err == nil {
		fmt.Printf("pronto: %s\n", hex)
	}

	if *dryRun && *device == "" {
		return nil
	}
	conn, err := irdevice.Dial(*device, logger)
	if err != nil {
		return errors.Wrap(err, "transmit: dialing device")
	}
	defer conn.Close()
	return conn.Transmit(context.Background(), msg)
}

func parseFieldValue(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		return strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0o"):
		return strconv.ParseInt(s[2:], 8, 64)
	case strings.HasPrefix(s, "0b"):
		return strconv.ParseInt(s[2:], 2, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}
