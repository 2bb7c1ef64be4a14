// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp

// Unit is the scale tag carried by a flash/gap/extent expression.
type Unit int

const (
	// UnitMicroseconds is the zero Unit, selected by the 'u' suffix: the
	// literal value is already in microseconds. (A flash/gap/extent with
	// no suffix is parsed as UnitUnits.)
	UnitMicroseconds Unit = iota
	// UnitMilliseconds multiplies the literal value by 1000.
	UnitMilliseconds
	// UnitUnits multiplies the literal value by GeneralSpec.UnitMicrosecs.
	UnitUnits
	// UnitPulses means "N cycles of the carrier"; it requires a non-zero
	// carrier frequency.
	UnitPulses
)

func (u Unit) String() string {
	switch u {
	case UnitMicroseconds:
		return "u(microseconds)"
	case UnitMilliseconds:
		return "m(milliseconds)"
	case UnitUnits:
		return "u(units)"
	case UnitPulses:
		return "p(pulses)"
	default:
		return "u(?)"
	}
}

// GeneralSpec is the `{...}` header of an IRP: carrier frequency, duty
// cycle, bit order, and the unit-length used by UnitUnits durations.
type GeneralSpec struct {
	CarrierHz      int64
	DutyCycle      int // 1..99, 0 means "not specified"
	LSBFirst       bool
	UnitMicrosecs  float64
}

// DefaultGeneralSpec returns the IRP notation defaults: 38kHz carrier, no
// duty cycle, LSB first, 1.0us unit.
func DefaultGeneralSpec() GeneralSpec {
	return GeneralSpec{CarrierHz: 38000, DutyCycle: 0, LSBFirst: true, UnitMicrosecs: 1.0}
}

// ToMicroseconds converts a literal value expressed in u according to the
// receiver's carrier/unit configuration.
func (g GeneralSpec) ToMicroseconds(value float64, u Unit) (float64, error) {
	switch u {
	case UnitMicroseconds:
		return value, nil
	case UnitMilliseconds:
		return value * 1000, nil
	case UnitUnits:
		if g.UnitMicrosecs == 0 {
			return 0, &ArithmeticError{Message: "unit 'u' used without a unit length in the general spec"}
		}
		return value * g.UnitMicrosecs, nil
	case UnitPulses:
		if g.CarrierHz == 0 {
			return 0, &ArithmeticError{Message: "unit 'p' used without a carrier frequency"}
		}
		return value * 1_000_000 / float64(g.CarrierHz), nil
	default:
		return 0, &ArithmeticError{Message: "unknown unit"}
	}
}
