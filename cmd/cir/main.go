// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// cir is a command-line front end to this module's IRP compiler,
// lircd.conf/rc_keymap loaders and Pronto Hex codec: decode a sample
// stream against an IRP/keymap definition, or render one to a raw
// timing vector for transmission.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

func mainImpl() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("expected a subcommand: decode, transmit")
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	switch os.Args[1] {
	case "decode":
		return decodeMain(os.Args[2:], logger)
	case "transmit":
		return transmitMain(os.Args[2:], logger)
	case "help", "-h", "--help":
		fmt.Fprintln(os.Stderr, "usage: cir <decode|transmit> [flags]")
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q, try decode or transmit", os.Args[1])
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "cir: %s.\n", err)
		os.Exit(1)
	}
}
