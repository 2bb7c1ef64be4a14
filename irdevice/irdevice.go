// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package irdevice specifies the boundary interfaces a real Linux IR
// device layer would implement, and ships one adapted, non-hardware
// implementation, LircdConn, that talks to a running lircd daemon over
// its unix socket.
//
// Unlike devices/lirc in the teacher this package is modeled on, LircdConn
// does not trust lircd's own decoded (remote,key) protocol: it exposes raw
// samples and raw transmit requests instead, so callers decode/encode them
// with this module's own irp/decoder and irp/encoder.
package irdevice

import (
	"context"

	"cirkit.dev/cir/irp"
)

// Receiver is a source of raw IR samples.
type Receiver interface {
	// Samples delivers InfraredData to fn until ctx is cancelled or the
	// source closes. A source signals a discontinuity (e.g. a receiver
	// overflow or idle timeout) with irp.Reset() rather than closing.
	Samples(ctx context.Context, fn func(irp.InfraredData)) error
}

// Transmitter sends a rendered IR frame.
type Transmitter interface {
	Transmit(ctx context.Context, msg irp.Message) error
}
