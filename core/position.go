/*
NAME
  position.go

DESCRIPTION
  position.go implements the Position value type: a Cartesian or spherical
  coordinate, kept in whichever form the producer chose (no auto-conversion
  between the two).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

// PositionForm distinguishes the two coordinate systems a Position may be
// expressed in. The two forms are never auto-converted: whichever form the
// producer supplied is what readers see back.
type PositionForm int

const (
	Cartesian PositionForm = iota
	Spherical
)

// Position holds either a Cartesian (X, Y, Z) or spherical (Azimuth,
// Elevation, Distance) coordinate, tagged by Form.
type Position struct {
	Form PositionForm

	// Cartesian fields.
	X, Y, Z float64

	// Spherical fields.
	Azimuth, Elevation, Distance float64
}

// NewCartesianPosition builds a Cartesian Position.
func NewCartesianPosition(x, y, z float64) Position {
	return Position{Form: Cartesian, X: x, Y: y, Z: z}
}

// NewSphericalPosition builds a spherical Position.
func NewSphericalPosition(azimuth, elevation, distance float64) Position {
	return Position{Form: Spherical, Azimuth: azimuth, Elevation: elevation, Distance: distance}
}

// IsCartesian reports whether p is expressed in Cartesian coordinates.
func (p Position) IsCartesian() bool { return p.Form == Cartesian }

// IsSpherical reports whether p is expressed in spherical coordinates.
func (p Position) IsSpherical() bool { return p.Form == Spherical }
