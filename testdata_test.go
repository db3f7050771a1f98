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
	"bytes"

	"github.com/jwb65/gdscollapse/internal/record"
)

// streamBuilder assembles a well-formed GDSII byte stream for tests,
// using the same record.Writer the production writer uses.
type streamBuilder struct {
	buf bytes.Buffer
	w   *record.Writer
}

func newStreamBuilder() *streamBuilder {
	sb := &streamBuilder{}
	sb.w = record.NewWriter(&sb.buf)
	sb.w.Short(record.Header, 600)
	var zero [24]byte
	sb.w.Bytes(record.BgnLib, zero[:])
	sb.w.ASCIIString(record.LibName, "")
	units := append(record.EncodeFloat(0.001)[:], record.EncodeFloat(1e-9)[:]...)
	sb.w.Bytes(record.Units, units)
	return sb
}

func (sb *streamBuilder) beginCell(name string) {
	var zero [24]byte
	sb.w.Bytes(record.BgnStr, zero[:])
	sb.w.ASCIIString(record.StrName, name)
}

func (sb *streamBuilder) endCell() {
	sb.w.Empty(record.EndStr)
}

func (sb *streamBuilder) boundary(layer uint16, verts [][2]int32) {
	sb.w.Empty(record.Boundary)
	sb.w.Short(record.Layer, layer)
	sb.w.Short(record.DataType, 0)
	sb.w.Pairs(record.XY, verts)
	sb.w.Empty(record.EndEl)
}

func (sb *streamBuilder) path(layer uint16, pathtype uint16, width uint32, verts [][2]int32) {
	sb.w.Empty(record.Path)
	sb.w.Short(record.Layer, layer)
	sb.w.Short(record.DataType, 0)
	sb.w.Short(record.PathType, pathtype)
	sb.w.Long(record.Width, width)
	sb.w.Pairs(record.XY, verts)
	sb.w.Empty(record.EndEl)
}

func (sb *streamBuilder) sref(name string, origin [2]int32, mag, angle float64, mirror bool) {
	sb.w.Empty(record.SRef)
	sb.w.ASCIIString(record.SName, name)
	if mirror || mag != 1 || angle != 0 {
		flags := uint16(0)
		if mirror {
			flags = 0x8000
		}
		sb.w.Short(record.STrans, flags)
		sb.w.Bytes(record.Mag, record.EncodeFloat(mag)[:])
		sb.w.Bytes(record.Angle, record.EncodeFloat(angle)[:])
	}
	sb.w.Pairs(record.XY, [][2]int32{origin})
	sb.w.Empty(record.EndEl)
}

func (sb *streamBuilder) aref(name string, p1, p2, p3 [2]int32, cols, rows uint16) {
	sb.w.Empty(record.ARef)
	sb.w.ASCIIString(record.SName, name)
	colRow := []byte{byte(cols >> 8), byte(cols), byte(rows >> 8), byte(rows)}
	sb.w.Bytes(record.ColRow, colRow)
	sb.w.Pairs(record.XY, [][2]int32{p1, p2, p3})
	sb.w.Empty(record.EndEl)
}

func (sb *streamBuilder) bytes() []byte {
	sb.w.Empty(record.EndLib)
	return sb.buf.Bytes()
}
