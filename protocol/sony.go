// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package protocol

func init() {
	MustRegister("sony8", "{40k,600}<1,-1|2,-1>(4,-1,F:8,^45m)[F:0..255]")
	MustRegister("sony15", "{40k,600}<1,-1|2,-1>(4,-1,CODE:7,CODE:8:16,^45m) [CODE:0..0xffffff]")
	MustRegister("sony20", "{40k,600}<1,-1|2,-1>(4,-1,CODE:7,CODE:5:16,CODE:8:8,^45m) [CODE:0..0x1fffff]")
}
