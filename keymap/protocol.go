// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package keymap

import (
	"strings"
	"unicode"
)

// LinuxProtocol describes one protocol the Linux kernel's rc-core can
// decode in hardware/BPF, with the equivalent IRP definition where one
// exists (some kernel decoders, like cec or imon, have no IRP
// equivalent shipped here).
type LinuxProtocol struct {
	Name         string
	Decoder      string
	IRP          string
	ScancodeMask uint32
	ProtocolNo   uint32
}

// LinuxProtocols is the catalog rc_keymap's "protocol" field names index
// into, translated from the kernel's own rc-core protocol table.
var LinuxProtocols = []LinuxProtocol{
	{Name: "rc5", Decoder: "rc5",
		IRP:          "{36k,msb,889}<1,-1|-1,1>(1,~CODE:1:6,T:1,CODE:5:8,CODE:6,^114m) [CODE:0..0x1FFF,T:0..1=0]",
		ScancodeMask: 0x1f7f, ProtocolNo: 2},
	{Name: "rc5x_20", Decoder: "rc5",
		IRP:          "{36k,msb,889}<1,-1|-1,1>(1,~CODE:1:14,T:1,CODE:5:16,-4,CODE:6:8,CODE:6,^114m) [CODE:0..0x1fffff,T:0..1=0]",
		ScancodeMask: 0x1f7f3f, ProtocolNo: 3},
	{Name: "rc5_sz", Decoder: "rc5",
		IRP:          "{36k,msb,889}<1,-1|-1,1>(1,CODE:1:13,T:1,CODE:12,^114m) [CODE:0..0x2fff,T:0..1=0]",
		ScancodeMask: 0x2fff, ProtocolNo: 4},
	{Name: "jvc", Decoder: "jvc",
		IRP:          "{37.9k,527,33%}<1,-1|1,-3>(16,-8,CODE:8:8,CODE:8,1,^59.08m,(CODE:8:8,CODE:8,1,^46.42m)*) [CODE:0..0xffff]",
		ScancodeMask: 0xffff, ProtocolNo: 5},
	{Name: "sony12", Decoder: "sony",
		IRP:          "{40k,600}<1,-1|2,-1>(4,-1,CODE:7,CODE:5:16,^45m) [CODE:0..0x1fffff]",
		ScancodeMask: 0x1f007f, ProtocolNo: 6},
	{Name: "sony15", Decoder: "sony",
		IRP:          "{40k,600}<1,-1|2,-1>(4,-1,CODE:7,CODE:8:16,^45m) [CODE:0..0xffffff]",
		ScancodeMask: 0xff007f, ProtocolNo: 7},
	{Name: "sony20", Decoder: "sony",
		IRP:          "{40k,600}<1,-1|2,-1>(4,-1,CODE:7,CODE:5:16,CODE:8:8,^45m) [CODE:0..0x1fffff]",
		ScancodeMask: 0x1fff7f, ProtocolNo: 8},
	{Name: "nec", Decoder: "nec",
		IRP:          "{38.4k,564}<1,-1|1,-3>(16,-8,CODE:8:8,~CODE:8:8,CODE:8,~CODE:8,1,^108m,(16,-4,1,^108m)*) [CODE:0..0xffff]",
		ScancodeMask: 0xffff, ProtocolNo: 9},
	{Name: "necx", Decoder: "nec",
		IRP:          "{38.4k,564}<1,-1|1,-3>(16,-8,CODE:8:16,CODE:8:8,CODE:8,~CODE:8,1,^108m,(16,-4,1,^108m)*) [CODE:0..0xffffff]",
		ScancodeMask: 0xffffff, ProtocolNo: 10},
	{Name: "nec32", Decoder: "nec",
		IRP:          "{38.4k,564}<1,-1|1,-3>(16,-8,CODE:8:16,CODE:8:24,CODE:8,CODE:8:8,1,^108m,(16,-4,1,^108m)*) [CODE:0..0xffffffff]",
		ScancodeMask: 0xffffffff, ProtocolNo: 11},
	{Name: "sanyo", Decoder: "sanyo",
		IRP:          "{38k,562.5}<1,-1|1,-3>(16,-8,CODE:13:8,~CODE:13:8,CODE:8,~CODE:8,1,-42,(16,-8,1,-150)*) [CODE:0..0x1fffff]",
		ScancodeMask: 0x1fffff, ProtocolNo: 12},
	{Name: "mcir2-kbd", Decoder: "mce_kbd", ScancodeMask: 0xffffffff, ProtocolNo: 13},
	{Name: "mcir2-mse", Decoder: "mce_kbd", ScancodeMask: 0xffffffff, ProtocolNo: 14},
	{Name: "rc6_0", Decoder: "rc6",
		IRP:          "{36k,444,msb}<-1,1|1,-1>(6,-2,1:1,0:3,<-2,2|2,-2>(T:1),CODE:16,^107m) [CODE:0..0xffff,T@:0..1=0]",
		ScancodeMask: 0xffff, ProtocolNo: 15},
	{Name: "rc6_6a_20", Decoder: "rc6",
		IRP:          "{36k,444,msb}<-1,1|1,-1>(6,-2,1:1,6:3,<-2,2|2,-2>(T:1),CODE:20,-100m) [CODE:0..0xfffff,T@:0..1=0]",
		ScancodeMask: 0xfffff, ProtocolNo: 16},
	{Name: "rc6_6a_24", Decoder: "rc6",
		IRP:          "{36k,444,msb}<-1,1|1,-1>(6,-2,1:1,6:3,<-2,2|2,-2>(T:1),CODE:24,^105m) [CODE:0..0xffffff,T@:0..1=0]",
		ScancodeMask: 0xffffff, ProtocolNo: 17},
	{Name: "rc6_6a_32", Decoder: "rc6",
		IRP:          "{36k,444,msb}<-1,1|1,-1>(6,-2,1:1,6:3,<-2,2|2,-2>(T:1),CODE:32,MCE=(CODE>>16)==0x800f||(CODE>>16)==0x8034||(CODE>>16)==0x8046,^105m){MCE=0}[CODE:0..0xffffffff,T@:0..1=0]",
		ScancodeMask: 0xffffffff, ProtocolNo: 18},
	{Name: "rc6_mce", Decoder: "rc6",
		IRP:          "{36k,444,msb}<-1,1|1,-1>(6,-2,1:1,6:3,-2,2,CODE:16:16,T:1,CODE:15,MCE=(CODE>>16)==0x800f||(CODE>>16)==0x8034||(CODE>>16)==0x8046,^105m){MCE=1}[CODE:0..0xffffffff,T@:0..1=0]",
		ScancodeMask: 0xffff7fff, ProtocolNo: 19},
	{Name: "sharp", Decoder: "sharp",
		IRP:          "{38k,264}<1,-3|1,-7>(CODE:5:8,CODE:8,1:2,1,-165,CODE:5:8,~CODE:8,2:2,1,-165) [CODE:0..0x1fff]",
		ScancodeMask: 0x1fff, ProtocolNo: 20},
	{Name: "xmp", Decoder: "xmp", ScancodeMask: 0xffffffff, ProtocolNo: 21},
	{Name: "cec", Decoder: "cec", ScancodeMask: 0xffffffff, ProtocolNo: 22},
	{Name: "imon", Decoder: "imon", ScancodeMask: 0xffffffff, ProtocolNo: 23},
	{Name: "rc-mm-12", Decoder: "rc-mm",
		IRP:          "{36k,msb}<166.7,-277.8|166.7,-444.4|166.7,-611.1|166.7,-777.8>(416.7,-277.8,CODE:12,166.7,^27.778m) [CODE:0..0xfff]",
		ScancodeMask: 0xfff, ProtocolNo: 24},
	{Name: "rc-mm-24", Decoder: "rc-mm",
		IRP:          "{36k,msb}<166.7,-277.8|166.7,-444.4|166.7,-611.1|166.7,-777.8>(416.7,-277.8,CODE:24,166.7,^27.778m) [CODE:0..0xffffff]",
		ScancodeMask: 0xffffff, ProtocolNo: 25},
	{Name: "rc-mm-32", Decoder: "rc-mm",
		IRP:          "{36k,msb}<166.7,-277.8|166.7,-444.4|166.7,-611.1|166.7,-777.8>(416.7,-277.8,CODE:32,166.7,^27.778m) [CODE:0..0xffffffff]",
		ScancodeMask: 0xffffffff, ProtocolNo: 26},
	{Name: "xbox-dvd", Decoder: "xbox-dvd",
		IRP:          "{38k,msb}<550,-900|550,-1900>(4000,-3900,~CODE:12,CODE:12,550,^100m) [CODE:0..0xfff]",
		ScancodeMask: 0xfff, ProtocolNo: 27},
}

// FindLinuxProtocol looks up a protocol by exact name.
func FindLinuxProtocol(name string) (LinuxProtocol, bool) {
	for _, p := range LinuxProtocols {
		if p.Name == name {
			return p, true
		}
	}
	return LinuxProtocol{}, false
}

// FindLinuxProtocolLike matches name ignoring spaces, dashes, underscores
// and case, the same forgiving match ir-ctl's protocol_match() performs.
func FindLinuxProtocolLike(name string) (LinuxProtocol, bool) {
	target := protocolLikeKey(name)
	for _, p := range LinuxProtocols {
		if protocolLikeKey(p.Name) == target {
			return p, true
		}
	}
	return LinuxProtocol{}, false
}

func protocolLikeKey(name string) string {
	var b strings.Builder
	for _, ch := range name {
		switch ch {
		case ' ', '-', '_':
			continue
		}
		if ch > unicode.MaxASCII {
			continue
		}
		b.WriteRune(unicode.ToLower(ch))
	}
	return b.String()
}
