// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irdevice

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"cirkit.dev/cir/irp"
	"cirkit.dev/cir/rawir"
)

// DefaultSocket is the well-known path a running lircd daemon listens on.
const DefaultSocket = "/var/run/lirc/lircd"

// LircdConn is a Receiver and Transmitter backed by a running lircd
// daemon. Grounded on devices/lirc.Conn's unix-socket dial, but reads
// the socket directly inside Samples rather than through a reader
// goroutine and channel, and reinterprets the
// wire lines as mode2-style raw samples instead of lircd's own decoded
// "<code> <repeat> <key> <remote>" lines, so the caller's own decoder
// sees the same samples a raw capture device would produce.
type LircdConn struct {
	conn   net.Conn
	logger *log.Logger
	mu     sync.Mutex // serializes writes from concurrent Transmit calls
}

// Dial opens a connection to a running lircd daemon at socket ("" uses
// DefaultSocket). logger receives a Warn for each corrupted sample line
// the same way lircd.Parse warns on a malformed remote.
func Dial(socket string, logger *log.Logger) (*LircdConn, error) {
	if socket == "" {
		socket = DefaultSocket
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, errors.Wrap(err, "irdevice: dialing lircd")
	}
	return &LircdConn{conn: conn, logger: logger}, nil
}

// Close closes the underlying socket.
func (c *LircdConn) Close() error {
	return c.conn.Close()
}

// Samples implements Receiver. It reads mode2-style "pulse N"/"space N"/
// "timeout N" lines from lircd until ctx is cancelled or the socket
// closes.
func (c *LircdConn) Samples(ctx context.Context, fn func(irp.InfraredData)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	r := bufio.NewReader(c.conn)
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if sample, ok, perr := parseSampleLine(line); perr != nil {
				c.logger.Warn("corrupted sample line", "line", line, "err", perr)
			} else if ok {
				fn(sample)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Transmit implements Transmitter. It renders msg as mode2 text and
// sends it as a raw transmit request.
func (c *LircdConn) Transmit(ctx context.Context, msg irp.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.conn, "RAW_TRANSMIT\ncarrier %d\n%s\nend\n",
		msg.CarrierHz, rawir.FormatMode2(msg.Raw))
	return errors.Wrap(err, "irdevice: transmit")
}

func parseSampleLine(line string) (irp.InfraredData, bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "pulse", "space":
		if len(fields) != 2 {
			return irp.InfraredData{}, false, errors.Errorf("missing duration after %q", fields[0])
		}
		v, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return irp.InfraredData{}, false, errors.Wrapf(err, "invalid duration %q", fields[1])
		}
		if v == 0 {
			return irp.InfraredData{}, false, errors.Errorf("nonsensical zero-length %s", fields[0])
		}
		if fields[0] == "pulse" {
			return irp.Flash2(int64(v)), true, nil
		}
		return irp.Gap2(int64(v)), true, nil
	case "timeout":
		return irp.Reset(), true, nil
	default:
		if strings.HasPrefix(fields[0], "#") {
			return irp.InfraredData{}, false, nil
		}
		return irp.InfraredData{}, false, errors.Errorf("unexpected token %q", fields[0])
	}
}

var (
	_ Receiver    = (*LircdConn)(nil)
	_ Transmitter = (*LircdConn)(nil)
)
