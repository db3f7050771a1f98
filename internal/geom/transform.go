// gdscollapse - flatten GDSII layout hierarchies into polygons
// Copyright (C) 2024  Jan Willem Bos <janwillembos@yahoo.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package geom holds the affine-transform and polygon arithmetic shared by
// the database loader and the flattening engine: transform composition for
// SREF/AREF placement, PATH centerline expansion, and point-in-polygon
// testing.
package geom

import "math"

// Pair is an integer vertex in database units.
type Pair struct {
	X, Y int32
}

// Transform is the accumulated placement of a cell instance: translation,
// magnification, rotation (degrees), and an x-axis mirror flag. The zero
// value is the identity transform except for Mag, which must be 1.
type Transform struct {
	DX, DY float64
	Mag    float64
	Angle  float64 // degrees
	Mirror bool
}

// Identity is the neutral transform applied to a top cell.
var Identity = Transform{Mag: 1.0}

// Apply maps a point from the local frame into the frame one level up,
// using T's mirror, rotation, magnification, and translation, in that
// order: mirror first (about the x-axis), then rotate, then scale, then
// translate.
func (t Transform) Apply(p Pair) Pair {
	sign := 1.0
	if t.Mirror {
		sign = -1.0
	}
	rad := math.Pi * t.Angle / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	x := float64(p.X)
	y := float64(p.Y)
	outX := t.DX + t.Mag*(x*cos-sign*y*sin)
	outY := t.DY + t.Mag*(x*sin+sign*y*cos)
	return Pair{X: int32(outX), Y: int32(outY)}
}

// ApplyFloat is Apply for a point already expressed as floating-point
// local coordinates, used by AREF lattice-origin placement, which computes
// fractional reference-grid positions before the final truncation to
// database units.
func (t Transform) ApplyFloat(x, y float64) Pair {
	sign := 1.0
	if t.Mirror {
		sign = -1.0
	}
	rad := math.Pi * t.Angle / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	outX := t.DX + t.Mag*(x*cos-sign*y*sin)
	outY := t.DY + t.Mag*(x*sin+sign*y*cos)
	return Pair{X: int32(outX), Y: int32(outY)}
}

// ComposeSRef composes an SREF instance's local placement onto the
// accumulated parent transform t. The child's origin is added directly in
// the parent's coordinate units without being rotated or scaled by t: this
// asymmetry with ComposeAref's origin handling is preserved from the
// source this engine was ported from (see the design notes on SREF vs.
// AREF origin placement).
func (t Transform) ComposeSRef(ox, oy int32, mag, angle float64, mirror bool) Transform {
	return Transform{
		DX:     t.DX + float64(ox),
		DY:     t.DY + float64(oy),
		Mag:    t.Mag * mag,
		Angle:  t.Angle + angle,
		Mirror: t.Mirror != mirror,
	}
}

// ComposeAref composes one AREF grid reference onto the accumulated parent
// transform t, given the reference's origin already placed in the parent
// frame (via ApplyFloat on the lattice point) and the AREF's own local
// mag/angle/mirror.
func (t Transform) ComposeAref(placed Pair, mag, angle float64, mirror bool) Transform {
	return Transform{
		DX:     float64(placed.X),
		DY:     float64(placed.Y),
		Mag:    t.Mag * mag,
		Angle:  t.Angle + angle,
		Mirror: t.Mirror != mirror,
	}
}
