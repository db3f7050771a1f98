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
	"testing"
)

// Testable property 5: flattening a single cell with one BOUNDARY and no
// references emits the vertices verbatim.
func TestCollapseIdentity(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	verts := square(3, 4, 10)
	sb.boundary(7, verts)
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var sink PolygonSet
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 100, Sink: &sink}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}

	if len(sink.Polygons) != 1 {
		t.Fatalf("len(Polygons) = %d, want 1", len(sink.Polygons))
	}
	got := sink.Polygons[0]
	if got.Layer != 7 {
		t.Errorf("Layer = %d, want 7", got.Layer)
	}
	if len(got.Vertices) != len(verts) {
		t.Fatalf("len(Vertices) = %d, want %d", len(got.Vertices), len(verts))
	}
	for i, v := range verts {
		if got.Vertices[i].X != v[0] || got.Vertices[i].Y != v[1] {
			t.Errorf("vertex %d = (%d,%d), want (%d,%d)", i, got.Vertices[i].X, got.Vertices[i].Y, v[0], v[1])
		}
	}
}

// S5 from the spec: a 3x2 AREF grid produces 6 translated copies of the
// referenced cell's single boundary.
func TestCollapseArefGrid(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("C")
	sb.boundary(1, square(0, 0, 2))
	sb.endCell()
	sb.beginCell("TOP")
	sb.aref("C", [2]int32{0, 0}, [2]int32{30, 0}, [2]int32{0, 20}, 3, 2)
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var sink PolygonSet
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 1000, Sink: &sink}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}

	if len(sink.Polygons) != 6 {
		t.Fatalf("len(Polygons) = %d, want 6", len(sink.Polygons))
	}

	wantOrigins := map[[2]int32]bool{
		{0, 0}: false, {10, 0}: false, {20, 0}: false,
		{0, 10}: false, {10, 10}: false, {20, 10}: false,
	}
	for _, p := range sink.Polygons {
		origin := [2]int32{p.Vertices[0].X, p.Vertices[0].Y}
		if _, ok := wantOrigins[origin]; !ok {
			t.Errorf("unexpected polygon origin %v", origin)
			continue
		}
		wantOrigins[origin] = true
	}
	for origin, seen := range wantOrigins {
		if !seen {
			t.Errorf("expected a polygon at origin %v, none seen", origin)
		}
	}
}

// S6 from the spec: a cap below the natural polygon count truncates the
// emitted set exactly at the cap.
func TestCollapseCap(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	for i := int32(0); i < 10; i++ {
		sb.boundary(1, square(i*10, 0, 5))
	}
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var sink PolygonSet
	var out bytes.Buffer
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 3, Sink: &sink, Output: &out}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(sink.Polygons) != 3 {
		t.Fatalf("len(Polygons) = %d, want 3", len(sink.Polygons))
	}
	got := out.Bytes()
	endlib := []byte{0x00, 0x04, 0x04, 0x00}
	if len(got) < len(endlib) || !bytes.Equal(got[len(got)-len(endlib):], endlib) {
		t.Error("output stream does not end with an ENDLIB record after the cap was hit")
	}
}

func TestCollapseCapZero(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.boundary(1, square(0, 0, 5))
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var sink PolygonSet
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 0, Sink: &sink}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(sink.Polygons) != 0 {
		t.Errorf("len(Polygons) = %d, want 0 with MaxPolys=0", len(sink.Polygons))
	}
}

// Testable property 6: the emitted set with a clip is a subset of the
// emitted set without a clip.
func TestClipMonotonicity(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.boundary(1, square(0, 0, 5))
	sb.boundary(1, square(1000, 1000, 5))
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var unclipped PolygonSet
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 100, Sink: &unclipped}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}

	var clipped PolygonSet
	clip := &Rect{XMin: 0, YMin: 0, XMax: 0.01, YMax: 0.01} // db units are 0.001 uu each
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 100, Sink: &clipped, Clip: clip}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}

	if len(clipped.Polygons) > len(unclipped.Polygons) {
		t.Fatalf("clipped set (%d) larger than unclipped set (%d)", len(clipped.Polygons), len(unclipped.Polygons))
	}
	if len(clipped.Polygons) == 0 {
		t.Error("expected the clip to still admit the polygon near the origin")
	}
}

func TestCollapseUnresolvedReferenceIsFatal(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.sref("MISSING", [2]int32{0, 0}, 1, 0, false)
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var sink PolygonSet
	err = db.Collapse("TOP", CollapseOptions{MaxPolys: 100, Sink: &sink})
	if err == nil {
		t.Fatal("expected an error for an unresolved SREF target")
	}
	if _, ok := err.(*ReferenceError); !ok {
		t.Errorf("error type = %T, want *ReferenceError", err)
	}
}

func TestCollapseRejectsEmptyCellName(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.boundary(1, square(0, 0, 5))
	sb.endCell()
	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = db.Collapse("", CollapseOptions{MaxPolys: 1})
	if _, ok := err.(*ArgumentError); !ok {
		t.Errorf("error type = %T, want *ArgumentError", err)
	}
}

func TestCollapseRejectsMalformedClip(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.boundary(1, square(0, 0, 5))
	sb.endCell()
	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = db.Collapse("TOP", CollapseOptions{MaxPolys: 1, Clip: &Rect{XMin: 5, YMin: 0, XMax: 5, YMax: 10}})
	if _, ok := err.(*ArgumentError); !ok {
		t.Errorf("error type = %T, want *ArgumentError", err)
	}
}

// Testable property 3 (at the database level): a PATH's expansion
// survives the full load-then-collapse round trip as a 2n+1 vertex
// polygon.
func TestCollapsePathExpansion(t *testing.T) {
	sb := newStreamBuilder()
	sb.beginCell("TOP")
	sb.path(1, 0, 20, [][2]int32{{0, 0}, {100, 0}})
	sb.endCell()

	db, err := Open(bytes.NewReader(sb.bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var sink PolygonSet
	if err := db.Collapse("TOP", CollapseOptions{MaxPolys: 10, Sink: &sink}); err != nil {
		t.Fatalf("Collapse: %v", err)
	}
	if len(sink.Polygons) != 1 {
		t.Fatalf("len(Polygons) = %d, want 1", len(sink.Polygons))
	}
	if len(sink.Polygons[0].Vertices) != 5 {
		t.Errorf("len(Vertices) = %d, want 5", len(sink.Polygons[0].Vertices))
	}
}
