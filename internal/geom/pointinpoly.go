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

// PointInPolygon reports whether p lies inside the closed polygon poly
// (first vertex repeated as last), using a downward vertical-ray crossing
// count: odd crossings means inside.
func PointInPolygon(poly []Pair, p Pair) bool {
	count := 0
	for i := 0; i < len(poly)-1; i++ {
		a, b := poly[i], poly[i+1]
		crosses := (a.X <= p.X && b.X > p.X) || (a.X > p.X && b.X <= p.X)
		if !crosses {
			continue
		}
		yAtX := float64(a.Y) + float64(p.X-a.X)*float64(b.Y-a.Y)/float64(b.X-a.X)
		if float64(p.Y) < yAtX {
			count++
		}
	}
	return count%2 == 1
}
