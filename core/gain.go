/*
NAME
  gain.go

DESCRIPTION
  gain.go implements the Gain value type: a linear or decibel scalar with
  unit-aware equality, ordering, and conversion.

AUTHOR
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import "math"

// GainUnit distinguishes a Gain's value as linear or decibel.
type GainUnit int

const (
	Linear GainUnit = iota
	Decibels
)

// UnityLinear and UnityDecibels are the two representations of unity gain.
const (
	UnityLinear   = 1.0
	UnityDecibels = 0.0
)

// Gain is a scalar gain value tagged with its unit. The zero value is a
// linear factor of 0, not unity; UnityGain builds unity gain.
type Gain struct {
	Value float64
	Unit  GainUnit
}

// NewGain builds a Gain from a value and unit.
func NewGain(value float64, unit GainUnit) Gain {
	return Gain{Value: value, Unit: unit}
}

// UnityGain returns unity gain expressed in the given unit.
func UnityGain(unit GainUnit) Gain {
	if unit == Decibels {
		return Gain{Value: UnityDecibels, Unit: Decibels}
	}
	return Gain{Value: UnityLinear, Unit: Linear}
}

// LinearToDecibels converts a linear gain factor to decibels.
func LinearToDecibels(linear float64) float64 {
	return 20 * math.Log10(linear)
}

// DecibelsToLinear converts a decibel gain value to a linear factor.
func DecibelsToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// AsLinear returns g's value expressed in linear units.
func (g Gain) AsLinear() float64 {
	if g.Unit == Linear {
		return g.Value
	}
	return DecibelsToLinear(g.Value)
}

// AsDecibels returns g's value expressed in decibels.
func (g Gain) AsDecibels() float64 {
	if g.Unit == Decibels {
		return g.Value
	}
	return LinearToDecibels(g.Value)
}

// In returns g converted to unit.
func (g Gain) In(unit GainUnit) Gain {
	if g.Unit == unit {
		return g
	}
	if unit == Linear {
		return Gain{Value: g.AsLinear(), Unit: Linear}
	}
	return Gain{Value: g.AsDecibels(), Unit: Decibels}
}

// IsUnity reports whether g is exactly unity gain in its own unit.
func (g Gain) IsUnity() bool {
	if g.Unit == Linear {
		return g.Value == UnityLinear
	}
	return g.Value == UnityDecibels
}

// Equal reports whether g and x represent the same gain, comparing after
// conversion to a common (linear) unit.
func (g Gain) Equal(x Gain) bool {
	return g.AsLinear() == x.AsLinear()
}

// Less reports whether g is a smaller gain than x, comparing after
// conversion to a common (linear) unit.
func (g Gain) Less(x Gain) bool {
	return g.AsLinear() < x.AsLinear()
}
