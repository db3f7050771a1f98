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

package geom

import "math"

// line is the standard form a*x + b*y + c = 0 of a 2D line.
type line struct {
	a, b, c float64
}

// ExpandPath expands an n-vertex polyline of the given integer width into
// a closed 2n+1 vertex polygon by offsetting each segment by half the
// width and mitring the offset lines at interior vertices. pathtype 2
// extends the centerline by half-width past each endpoint before
// projecting; any other pathtype uses flush ends.
//
// Parallel offset lines at an interior vertex (a degenerate mitre with
// zero determinant) fall back to projecting that vertex directly onto the
// offset line instead of computing an intersection, since two truly
// collinear consecutive segments have no unique mitre point; this is left
// undefined in the source this was ported from and is pinned down here.
func ExpandPath(verts []Pair, width uint32, pathtype uint16) []Pair {
	n := len(verts)
	if n < 2 {
		return nil
	}

	hwidth := float64(width) / 2.0
	plus := make([]line, n-1)
	minus := make([]line, n-1)
	for i := 0; i < n-1; i++ {
		x1, y1 := float64(verts[i].X), float64(verts[i].Y)
		x2, y2 := float64(verts[i+1].X), float64(verts[i+1].Y)

		a := y2 - y1
		b := -(x2 - x1)
		c := -b*y1 - a*x1

		offset := hwidth * math.Sqrt(a*a+b*b)
		plus[i] = line{a: a, b: b, c: c + offset}
		minus[i] = line{a: a, b: b, c: c - offset}
	}

	out := make([]Pair, 2*n+1)

	var head, tail Pair
	if pathtype == 2 {
		head = extend(verts[0], verts[1], hwidth)
		tail = extend(verts[n-1], verts[n-2], hwidth)
	} else {
		head = verts[0]
		tail = verts[n-1]
	}

	out[0] = project(head, plus[0])
	out[2*n-1] = project(head, minus[0])
	out[2*n] = out[0]

	for i := 1; i < n-1; i++ {
		out[i] = intersect(plus[i-1], plus[i], verts[i])
		out[2*n-1-i] = intersect(minus[i-1], minus[i], verts[i])
	}

	out[n-1] = project(tail, plus[n-2])
	out[n] = project(tail, minus[n-2])

	return out
}

// extend returns tail moved by length along the direction from head to
// tail, used to push path endpoints out for extended (pathtype 2) caps.
func extend(tail, head Pair, length float64) Pair {
	segX := float64(tail.X - head.X)
	segY := float64(tail.Y - head.Y)
	norm := math.Sqrt(segX*segX + segY*segY)
	if norm == 0 {
		return tail
	}
	scale := length / norm
	return Pair{
		X: tail.X + int32(scale*segX),
		Y: tail.Y + int32(scale*segY),
	}
}

// intersect computes the intersection of two lines in homogeneous
// coordinates: (x_h, y_h, w_h) = (b1*c2 - b2*c1, a2*c1 - a1*c2, a1*b2 -
// a2*b1). When the lines are parallel (w_h == 0) there is no unique
// intersection; fall back to projecting the shared vertex between the two
// segments that produced these offset lines onto the first line, rather
// than dividing by zero.
func intersect(one, two line, shared Pair) Pair {
	xh := one.b*two.c - two.b*one.c
	yh := two.a*one.c - one.a*two.c
	wh := one.a*two.b - two.a*one.b
	if wh == 0 {
		return project(shared, one)
	}
	return Pair{
		X: int32(math.Round(xh / wh)),
		Y: int32(math.Round(yh / wh)),
	}
}

// project returns the foot of the perpendicular from p onto l, computed
// directly from l's standard-form coefficients rather than through
// intersect, so it has no degenerate case of its own for any non-zero
// line.
func project(p Pair, l line) Pair {
	denom := l.a*l.a + l.b*l.b
	if denom == 0 {
		return p
	}
	d := l.a*float64(p.X) + l.b*float64(p.Y) + l.c
	return Pair{
		X: int32(math.Round(float64(p.X) - l.a*d/denom)),
		Y: int32(math.Round(float64(p.Y) - l.b*d/denom)),
	}
}
