// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package irp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cirkit.dev/cir/irp"
)

func TestValidateDuplicateParameter(t *testing.T) {
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Parameters: []irp.ParameterSpec{
			{Name: "D", Min: 0, Max: 255},
			{Name: "D", Min: 0, Max: 255},
		},
	}
	assert.Error(t, def.Validate())
}

func TestValidateMemoryParameterRequiresDefault(t *testing.T) {
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Parameters: []irp.ParameterSpec{
			{Name: "T", Memory: true, Min: 0, Max: 1},
		},
	}
	assert.Error(t, def.Validate())
}

func TestValidateCyclicDefinitionRejected(t *testing.T) {
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Definitions: []irp.Assignment{
			{Name: "A", Value: irp.Ident{Name: "B"}},
			{Name: "B", Value: irp.Ident{Name: "A"}},
		},
	}
	assert.Error(t, def.Validate())
}

func TestValidateTooManyBitSpecAlternatives(t *testing.T) {
	alts := make([]irp.Expression, irp.MaxBitSpecAlternatives+1)
	for i := range alts {
		alts[i] = irp.Number{Value: 1}
	}
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Stream:  irp.Stream{BitSpec: alts},
	}
	assert.Error(t, def.Validate())
}

func TestValidateMoreThanOneRepeatMarkerRejected(t *testing.T) {
	inner := irp.Stream{Body: []irp.Expression{irp.Flash{Value: irp.Number{Value: 1}}}, Repeat: irp.RepeatMarker{Kind: "*"}}
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Stream: irp.Stream{
			Body:   []irp.Expression{inner},
			Repeat: irp.RepeatMarker{Kind: "*"},
		},
	}
	assert.Error(t, def.Validate())
}

func TestValidateAcceptsWellFormedIrp(t *testing.T) {
	def := &irp.Irp{
		General: irp.DefaultGeneralSpec(),
		Stream: irp.Stream{
			BitSpec: []irp.Expression{
				irp.List{Items: []irp.Expression{irp.Flash{Value: irp.Number{Value: 1}}, irp.Gap{Value: irp.Number{Value: 1}}}},
				irp.List{Items: []irp.Expression{irp.Flash{Value: irp.Number{Value: 1}}, irp.Gap{Value: irp.Number{Value: 3}}}},
			},
			Body: []irp.Expression{
				irp.BitField{Value: irp.Ident{Name: "D"}, Length: irp.Number{Value: 8}},
			},
			Repeat: irp.RepeatMarker{Kind: "*"},
		},
		Parameters: []irp.ParameterSpec{
			{Name: "D", Min: 0, Max: 255},
		},
	}
	assert.NoError(t, def.Validate())
}
