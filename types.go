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

package gds

import "github.com/jwb65/gdscollapse/internal/geom"

// Pair is a 2D integer vertex in database units.
type Pair = geom.Pair

// MaxStrNameLen is the GDSII limit on structure (cell) name length.
const MaxStrNameLen = 32

// MaxElementVerts is the per-element vertex count ceiling imposed by the
// GDSII format itself (spec §3 Invariants): boundaries and paths may carry
// at most this many vertices.
const MaxElementVerts = 8190

// Boundary is a closed polygon element on a single layer. By convention
// the first vertex is repeated as the last.
type Boundary struct {
	Layer    uint16
	Vertices []Pair
}

// Pathtype selects the end-cap treatment used by Path centerline
// expansion.
type Pathtype uint16

const (
	// PathFlush ends the expanded polygon flush with the centerline's
	// first and last vertices.
	PathFlush Pathtype = 0
	// PathExtended extends the centerline by half the path width past
	// each endpoint before expansion. Any pathtype value other than 0 or
	// 2 is treated as PathFlush, per spec §3.
	PathExtended Pathtype = 2
)

// Path is a polyline element with a width, expanded to a closed polygon
// at flatten time.
type Path struct {
	Layer    uint16
	Vertices []Pair
	Pathtype Pathtype
	Width    uint32
}

// SRef is a single placed instance of another cell.
type SRef struct {
	TargetName string
	Origin     Pair
	Mag        float64
	Angle      float64 // degrees
	Mirror     bool
}

// ARef is a regular 2D array of instances of another cell. P1 is the
// lattice origin; P2-P1 spans Cols columns and P3-P1 spans Rows rows.
type ARef struct {
	TargetName string
	P1, P2, P3 Pair
	Cols, Rows uint16
	Mag, Angle float64
	Mirror     bool
}

// Cell is a named container of geometric elements and references to other
// cells.
type Cell struct {
	Name       string
	Boundaries []Boundary
	Paths      []Path
	SRefs      []SRef
	ARefs      []ARef
}
