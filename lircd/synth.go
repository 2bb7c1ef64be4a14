// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lircd

import (
	"fmt"
	"math/bits"
	"strings"

	"cirkit.dev/cir/irp"
	irpparser "cirkit.dev/cir/irp/parser"
	"github.com/pkg/errors"
)

// Synthesize renders r as an IRP notation string, grounded on
// original_source/src/lircd_conf/irp.rs's Builder. encoding selects
// between the transmit-oriented rendering (intended for irp/encoder,
// pads repeat counts with Remote.MinRepeat) and the receive-oriented one
// (intended for irp/decoder, accepts any repeat count).
func Synthesize(r *Remote, encoding bool) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	b := &builder{remote: r, encoding: encoding}
	if encoding {
		b.minRepeat = r.MinRepeat
	}
	return b.build()
}

// SynthesizeIRP renders and parses r in one step, returning a compiled
// Irp ready for irp/variant, irp/nfa, irp/encoder and friends.
func SynthesizeIRP(r *Remote, encoding bool) (*irp.Irp, error) {
	text, err := Synthesize(r, encoding)
	if err != nil {
		return nil, err
	}
	def, err := irpparser.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "synthesized IRP %q did not parse", text)
	}
	return def, nil
}

type builder struct {
	remote    *Remote
	encoding  bool
	minRepeat uint64
	b         strings.Builder
}

func (b *builder) build() (string, error) {
	b.b.WriteByte('{')
	if b.remote.Frequency != 38000 && b.remote.Frequency != 0 {
		fmt.Fprintf(&b.b, "%gk,", float64(b.remote.Frequency)/1000)
	}
	if b.remote.DutyCycle != 0 {
		fmt.Fprintf(&b.b, "%d%%,", b.remote.DutyCycle)
	}
	b.b.WriteString("msb}<")
	b.writeBitSpec()
	b.b.WriteString(">(")

	b.addBody(false)

	switch {
	case b.remote.Repeat != (Pair{}):
		b.b.WriteByte('(')
		if b.remote.Flags&FlagRepeatHeader != 0 && b.remote.Header != (Pair{}) {
			fmt.Fprintf(&b.b, "%d,-%d,", b.remote.Header.Pulse, b.remote.Header.Gap)
		}
		if b.remote.Plead != 0 {
			fmt.Fprintf(&b.b, "%d,", b.remote.Plead)
		}
		fmt.Fprintf(&b.b, "%d,-%d,", b.remote.Repeat.Pulse, b.remote.Repeat.Gap)
		if b.remote.Ptrail != 0 {
			fmt.Fprintf(&b.b, "%d,", b.remote.Ptrail)
		}
		if b.remote.RepeatGap != 0 {
			b.gap(false, b.remote.RepeatGap)
		} else {
			b.addGap(true)
		}
		b.trimTrailingComma()
		b.closeRepeatGroup()
	case b.remote.Flags&(FlagNoHeadRep|FlagNoFootRep) != 0 || b.remote.RepeatMask != 0:
		b.b.WriteByte('(')
		b.addBody(true)
		b.trimTrailingComma()
		b.closeRepeatGroup()
	default:
		b.trimTrailingComma()
		if b.encoding {
			if b.minRepeat > 0 {
				fmt.Fprintf(&b.b, ")%d+", b.minRepeat+1)
			} else {
				b.b.WriteString(")+")
			}
		} else {
			b.b.WriteString(")*")
		}
	}

	fmt.Fprintf(&b.b, " [CODE:0..%d", codeMax(b.remote.Bits))
	if bits.OnesCount64(b.remote.ToggleBitMask) == 1 {
		b.b.WriteString(",T@:0..1=0")
	}
	b.b.WriteByte(']')

	return b.b.String(), nil
}

func (b *builder) closeRepeatGroup() {
	switch b.minRepeat {
	case 0:
		b.b.WriteString(")*)")
	case 1:
		b.b.WriteString(")+)")
	default:
		fmt.Fprintf(&b.b, ")%d+)", b.minRepeat)
	}
}

func (b *builder) trimTrailingComma() {
	s := b.b.String()
	if strings.HasSuffix(s, ",") {
		b.b.Reset()
		b.b.WriteString(s[:len(s)-1])
	}
}

// writeBitSpec renders the <...|...> alternatives, per remote.Flags'
// encoding family.
func (b *builder) writeBitSpec() {
	r := b.remote
	switch {
	case r.Flags&FlagBO != 0:
		fmt.Fprintf(&b.b, "%d,-zeroGap,zeroGap=%d,oneGap=%d|%d,-oneGap,zeroGap=%d,oneGap=%d",
			r.One.Pulse, r.Two.Gap, r.Three.Gap, r.Two.Pulse, r.One.Gap, r.Two.Gap)
	case r.Flags&FlagGrundig != 0:
		fmt.Fprintf(&b.b, "-%d,%d|-%d,%d,-%d,%d|-%d,%d,-%d,%d|-%d,%d,-%d,%d",
			r.Three.Gap, r.Three.Pulse,
			r.Two.Gap, r.Two.Pulse, r.Zero.Gap, r.Zero.Pulse,
			r.One.Gap, r.One.Pulse, r.One.Gap, r.One.Pulse,
			r.Zero.Gap, r.Zero.Pulse, r.Two.Gap, r.Two.Pulse)
	case r.Flags&FlagXMP != 0:
		alts := make([]string, 16)
		for i := range alts {
			alts[i] = fmt.Sprintf("%d,-%d", r.Zero.Pulse, r.Zero.Gap+uint64(i)*r.One.Gap)
		}
		b.b.WriteString(strings.Join(alts, "|"))
	default:
		var alts []string
		for n := 0; n < 4; n++ {
			pair := r.bit(n)
			if pair == (Pair{}) {
				break
			}
			var alt strings.Builder
			spaceFirst := (r.Flags&(FlagRC5|FlagRC6) != 0 && n == 1) || r.Flags&FlagSpaceFirst != 0
			if spaceFirst {
				if pair.Gap > 0 {
					fmt.Fprintf(&alt, "-%d,", pair.Gap)
				}
				if pair.Pulse > 0 {
					fmt.Fprintf(&alt, "%d,", pair.Pulse)
				}
			} else {
				if pair.Pulse > 0 {
					fmt.Fprintf(&alt, "%d,", pair.Pulse)
				}
				if pair.Gap > 0 {
					fmt.Fprintf(&alt, "-%d,", pair.Gap)
				}
			}
			alts = append(alts, strings.TrimSuffix(alt.String(), ","))
		}
		b.b.WriteString(strings.Join(alts, "|"))
	}
}

func (b *builder) addBody(repeat bool) {
	r := b.remote
	suppressHeader := repeat && r.Flags&FlagNoHeadRep != 0
	suppressFooter := repeat && r.Flags&FlagNoFootRep != 0

	if r.Flags&FlagBO != 0 {
		fmt.Fprintf(&b.b, "%d,-%d,%d,-%d,", r.One.Pulse, r.One.Gap, r.One.Pulse, r.One.Gap)
	}
	if !suppressHeader && r.Header != (Pair{}) {
		fmt.Fprintf(&b.b, "%d,-%d,", r.Header.Pulse, r.Header.Gap)
	}
	if r.Plead != 0 {
		fmt.Fprintf(&b.b, "%d,", r.Plead)
	}

	if r.PreDataBits != 0 {
		fmt.Fprintf(&b.b, "0x%x:%d,", r.PreData, r.PreDataBits)
		if r.Pre != (Pair{}) {
			fmt.Fprintf(&b.b, "%d,-%d,", r.Pre.Pulse, r.Pre.Gap)
		}
	}

	code := "CODE"
	if repeat && r.RepeatMask != 0 {
		code = fmt.Sprintf("(CODE^0x%x)", r.RepeatMask)
	}
	if r.Bits == 0 {
		if !b.encoding {
			b.b.WriteString("CODE=0,")
		}
	} else if bits.OnesCount64(r.ToggleBitMask) == 1 {
		b.addToggleBitStream(code, r.Bits, r.ToggleBitMask)
	} else {
		fmt.Fprintf(&b.b, "%s:%d,", code, r.Bits)
	}

	if r.PostDataBits != 0 {
		if r.Post != (Pair{}) {
			fmt.Fprintf(&b.b, "%d,-%d,", r.Post.Pulse, r.Post.Gap)
		}
		fmt.Fprintf(&b.b, "0x%x:%d,", r.PostData, r.PostDataBits)
	}

	if !suppressFooter && r.Foot != (Pair{}) {
		fmt.Fprintf(&b.b, "%d,-%d,", r.Foot.Pulse, r.Foot.Gap)
	}
	if r.Ptrail != 0 {
		fmt.Fprintf(&b.b, "%d,", r.Ptrail)
	}
	b.addGap(repeat)
}

// addToggleBitStream splits a bits-wide field into two sub-fields around
// the single bit toggle_bit_mask marks, rendering that bit as the
// parameter T instead of part of CODE — a scoped simplification of
// irp.rs's general mask_edges machinery, sufficient for the common
// single-toggle-bit case every known SPACE_ENC/shift-enc remote uses.
func (b *builder) addToggleBitStream(code string, width, mask uint64) {
	pos := uint64(bits.TrailingZeros64(mask))
	high := width - pos - 1
	low := pos
	if high > 0 {
		fmt.Fprintf(&b.b, "%s:%d:%d,", code, high, pos+1)
	}
	b.b.WriteString("T:1,")
	if low > 0 {
		fmt.Fprintf(&b.b, "%s:%d,", code, low)
	}
}

func (b *builder) addGap(repeat bool) {
	r := b.remote
	if r.Gap == 0 {
		return
	}
	gap := r.Gap
	if r.Gap2 != 0 && r.Gap2 < r.Gap {
		gap = r.Gap2
	}
	if !repeat && r.Flags&(FlagNoHeadRep|FlagConstLength) == FlagNoHeadRep|FlagConstLength {
		gap += r.Header.Pulse + r.Header.Gap
	}
	b.gap(r.Flags&FlagConstLength != 0, gap)
}

func (b *builder) gap(extent bool, gap uint64) {
	if extent {
		b.b.WriteByte('^')
	} else {
		b.b.WriteByte('-')
	}
	switch {
	case gap%1000 == 0:
		fmt.Fprintf(&b.b, "%dm,", gap/1000)
	case gap%100 == 0:
		fmt.Fprintf(&b.b, "%d.%dm,", gap/1000, (gap/100)%10)
	default:
		fmt.Fprintf(&b.b, "%d,", gap)
	}
}

func codeMax(bits uint64) uint64 {
	if bits == 0 {
		return 1
	}
	return genMask(bits)
}

