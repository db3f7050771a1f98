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

import (
	"io"

	"github.com/jwb65/gdscollapse/internal/geom"
	"github.com/jwb65/gdscollapse/internal/record"
)

// Rect is a clip rectangle in user units (spec §4.4).
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// Polygon is one flattened, absolutely-placed polygon: a layer and its
// vertex sequence in database units.
type Polygon struct {
	Layer    uint16
	Vertices []Pair
}

// PolygonSet is the in-memory sink Collapse appends accepted polygons to.
type PolygonSet struct {
	Polygons []Polygon
}

// CollapseOptions configures a single Collapse call: an optional clip
// rectangle, the cap on emitted polygons, and zero, one, or both output
// sinks.
type CollapseOptions struct {
	Clip     *Rect
	MaxPolys uint64
	Output   io.Writer
	Sink     *PolygonSet
}

// clipBox is Clip converted to database units, computed once per
// Collapse call (spec §4.4: "convert to database units by dividing by
// uu_per_dbunit, truncate to i32").
type clipBox struct {
	xMin, yMin, xMax, yMax int32
}

func (c *clipBox) overlaps(verts []Pair) bool {
	if c == nil {
		return true
	}
	if len(verts) == 0 {
		return false
	}
	// the closing (repeated first) vertex is excluded from the bbox test
	body := verts
	if len(body) > 1 && body[0] == body[len(body)-1] {
		body = body[:len(body)-1]
	}
	minX, minY := body[0].X, body[0].Y
	maxX, maxY := body[0].X, body[0].Y
	for _, v := range body[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return minY <= c.yMax && maxY >= c.yMin && minX <= c.xMax && maxX >= c.xMin
}

// collapseState is the traversal-wide bookkeeping threaded through
// recurse: accepted-polygon count, the cap, and the configured sinks.
type collapseState struct {
	db       *Database
	clip     *clipBox
	maxPolys uint64
	emitted  uint64
	stopped  bool
	err      error
	sink     *PolygonSet
	writer   *record.Writer
}

func (s *collapseState) emit(layer uint16, verts []Pair) {
	if s.stopped || s.emitted >= s.maxPolys {
		s.stopped = true
		return
	}
	if !s.clip.overlaps(verts) {
		return
	}

	s.emitted++
	if s.sink != nil {
		cp := make([]Pair, len(verts))
		copy(cp, verts)
		s.sink.Polygons = append(s.sink.Polygons, Polygon{Layer: layer, Vertices: cp})
	}
	if s.writer != nil {
		writePolygon(s.writer, layer, verts)
	}
	if s.emitted >= s.maxPolys {
		s.stopped = true
	}
}

func writePolygon(w *record.Writer, layer uint16, verts []Pair) {
	w.Empty(record.Boundary)
	w.Short(record.Layer, layer)
	w.Short(record.DataType, 0)
	pairs := make([][2]int32, len(verts))
	for i, v := range verts {
		pairs[i] = [2]int32{v.X, v.Y}
	}
	w.Pairs(record.XY, pairs)
	w.Empty(record.EndEl)
}

// Collapse flattens cellName's instance tree into absolute-coordinate
// polygons: depth-first, declaration order (boundaries, then paths, then
// SREFs, then AREFs column-major within each AREF), per spec §5. It stops
// once opt.MaxPolys polygons have been accepted, and writes a complete
// GDSII prolog/epilog to opt.Output whenever that sink is configured, even
// if the cap was hit partway through. An unresolved SREF/AREF target ends
// the call with a *ReferenceError, and then no epilog is written.
func (db *Database) Collapse(cellName string, opt CollapseOptions) error {
	if cellName == "" {
		return &ArgumentError{Msg: errNoCellName.Error()}
	}

	top, ok := db.cellByName(cellName)
	if !ok {
		return &ReferenceError{CellName: cellName}
	}

	var box *clipBox
	if opt.Clip != nil {
		c := opt.Clip
		if c.XMax <= c.XMin || c.YMax <= c.YMin {
			return &ArgumentError{Msg: "clip rectangle has xmax <= xmin or ymax <= ymin"}
		}
		box = &clipBox{
			xMin: int32(c.XMin / db.UUPerDBUnit),
			yMin: int32(c.YMin / db.UUPerDBUnit),
			xMax: int32(c.XMax / db.UUPerDBUnit),
			yMax: int32(c.YMax / db.UUPerDBUnit),
		}
	}

	state := &collapseState{
		db:       db,
		clip:     box,
		maxPolys: opt.MaxPolys,
		sink:     opt.Sink,
	}

	var rw *record.Writer
	if opt.Output != nil {
		rw = record.NewWriter(opt.Output)
		state.writer = rw
		writeProlog(rw, db)
	}

	db.recurse(top, geom.Identity, state)

	if state.err != nil {
		return state.err
	}

	if rw != nil {
		rw.Empty(record.EndStr)
		rw.Empty(record.EndLib)
		if err := rw.Err(); err != nil {
			return err
		}
	}

	return nil
}

func writeProlog(w *record.Writer, db *Database) {
	w.Short(record.Header, 600)
	var zero [24]byte
	w.Bytes(record.BgnLib, zero[:])
	w.ASCIIString(record.LibName, "")
	w.Bytes(record.Units, db.RawUnits[:])
	w.Bytes(record.BgnStr, zero[:])
	w.ASCIIString(record.StrName, "TOP")
}

// recurse walks cell's elements under the accumulated transform t,
// offering transformed polygons to state's sinks and recursing into
// SREF/AREF targets. It is the Go analogue of the source's Recurse
// function, restructured as a method with an explicit state object
// instead of a C-style out-parameter struct.
func (db *Database) recurse(cell *Cell, t geom.Transform, state *collapseState) {
	for _, b := range cell.Boundaries {
		if state.stopped {
			return
		}
		state.emit(b.Layer, transformAll(t, b.Vertices))
	}

	for _, p := range cell.Paths {
		if state.stopped {
			return
		}
		expanded := geom.ExpandPath(p.Vertices, p.Width, uint16(p.Pathtype))
		state.emit(p.Layer, transformAll(t, expanded))
	}

	for _, s := range cell.SRefs {
		if state.stopped {
			return
		}
		target, ok := db.cellByName(s.TargetName)
		if !ok {
			state.err = &ReferenceError{CellName: s.TargetName}
			state.stopped = true
			return
		}
		child := t.ComposeSRef(s.Origin.X, s.Origin.Y, s.Mag, s.Angle, s.Mirror)
		db.recurse(target, child, state)
	}

	for _, a := range cell.ARefs {
		if state.stopped {
			return
		}
		target, ok := db.cellByName(a.TargetName)
		if !ok {
			state.err = &ReferenceError{CellName: a.TargetName}
			state.stopped = true
			return
		}

		vColX := float64(a.P2.X-a.P1.X) / float64(a.Cols)
		vColY := float64(a.P2.Y-a.P1.Y) / float64(a.Cols)
		vRowX := float64(a.P3.X-a.P1.X) / float64(a.Rows)
		vRowY := float64(a.P3.Y-a.P1.Y) / float64(a.Rows)

		for c := 0; c < int(a.Cols); c++ {
			for r := 0; r < int(a.Rows); r++ {
				if state.stopped {
					return
				}
				localX := float64(a.P1.X) + float64(c)*vColX + float64(r)*vRowX
				localY := float64(a.P1.Y) + float64(c)*vColY + float64(r)*vRowY
				placed := t.ApplyFloat(localX, localY)
				child := t.ComposeAref(placed, a.Mag, a.Angle, a.Mirror)
				db.recurse(target, child, state)
			}
		}
	}
}

func transformAll(t geom.Transform, verts []Pair) []Pair {
	out := make([]Pair, len(verts))
	for i, v := range verts {
		out[i] = t.Apply(v)
	}
	return out
}
