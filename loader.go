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
	"errors"
	"fmt"
	"io"

	"github.com/jwb65/gdscollapse/internal/record"
)

// elemKind tracks which element, if any, is currently under construction.
type elemKind int

const (
	elemNone elemKind = iota
	elemBoundary
	elemPath
	elemSRef
	elemARef
	elemIgnored // TEXT, NODE, or BOX: accepted, contents discarded
)

// Open reads a GDSII stream from r and builds the in-memory cell table.
// The database is immutable once returned; load errors leave no partial
// state behind (the half-built Database is discarded).
func Open(r io.Reader) (*Database, error) {
	rr := record.NewReader(r)
	db := &Database{byName: make(map[string]int)}

	var (
		haveHeader bool
		endlib     bool
		curCell    Cell
		curKind    elemKind
		curBndry   Boundary
		curPath    Path
		curSRef    SRef
		curARef    ARef
	)

	fatal := func(msg string) error {
		return &FormatError{Err: errors.New(msg), Offset: rr.Offset()}
	}

	for !endlib {
		rec, err := rr.Next()
		if err != nil {
			if err == io.EOF {
				return nil, fatal("stream ended before ENDLIB")
			}
			if errors.Is(err, record.ErrShortRecord) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &FormatError{Err: err, Offset: rr.Offset()}
			}
			return nil, fmt.Errorf("gds: reading stream: %w", err)
		}

		if !haveHeader && rec.Tag != record.Header {
			return nil, &FormatError{Err: errHeaderFirst, Offset: rr.Offset()}
		}

		switch rec.Tag {
		case record.Header:
			if haveHeader {
				return nil, fatal("duplicate HEADER record")
			}
			if len(rec.Payload) != 2 {
				return nil, fatal("malformed HEADER payload")
			}
			v := record.Uint16(rec.Payload)
			if v != 6 && v != 600 {
				return nil, fatal(fmt.Sprintf("unsupported GDSII version %d", v))
			}
			db.Version = v
			haveHeader = true

		case record.BgnLib:
			// timestamp block, not retained

		case record.EndLib:
			endlib = true

		case record.LibName:
			db.LibNames = append(db.LibNames, record.ASCIIString(rec.Payload))

		case record.Units:
			if len(rec.Payload) != 16 {
				return nil, fatal("malformed UNITS payload")
			}
			db.UUPerDBUnit = record.Float(rec.Payload[0:8])
			db.MeterPerDBUnit = record.Float(rec.Payload[8:16])
			copy(db.RawUnits[:], rec.Payload)

		case record.BgnStr:
			curCell = Cell{}
			curKind = elemNone

		case record.StrName:
			name := record.ASCIIString(rec.Payload)
			if len(name) > MaxStrNameLen {
				name = name[:MaxStrNameLen]
			}
			curCell.Name = name

		case record.EndStr:
			db.byName[curCell.Name] = len(db.Cells)
			db.Cells = append(db.Cells, curCell)
			curCell = Cell{}

		case record.Boundary:
			curKind = elemBoundary
			curBndry = Boundary{}

		case record.Path:
			curKind = elemPath
			curPath = Path{}

		case record.SRef:
			curKind = elemSRef
			curSRef = SRef{Mag: 1}

		case record.ARef:
			curKind = elemARef
			curARef = ARef{Mag: 1}

		case record.Text, record.Node, record.Box:
			curKind = elemIgnored

		case record.EndEl:
			switch curKind {
			case elemBoundary:
				curCell.Boundaries = append(curCell.Boundaries, curBndry)
			case elemPath:
				curCell.Paths = append(curCell.Paths, curPath)
			case elemSRef:
				curCell.SRefs = append(curCell.SRefs, curSRef)
			case elemARef:
				curCell.ARefs = append(curCell.ARefs, curARef)
			}
			curKind = elemNone

		case record.Layer:
			switch curKind {
			case elemBoundary:
				curBndry.Layer = record.Uint16(rec.Payload)
			case elemPath:
				curPath.Layer = record.Uint16(rec.Payload)
			case elemSRef, elemARef:
				return nil, fatal("LAYER record illegal inside SREF/AREF")
			}

		case record.Width:
			if curKind == elemPath {
				curPath.Width = record.Uint32(rec.Payload)
			}

		case record.PathType:
			if curKind == elemPath {
				curPath.Pathtype = Pathtype(record.Uint16(rec.Payload))
			}

		case record.STrans:
			flags := record.Uint16(rec.Payload)
			mirror := flags&0x8000 != 0
			switch curKind {
			case elemSRef:
				curSRef.Mirror = mirror
			case elemARef:
				curARef.Mirror = mirror
			case elemBoundary, elemPath:
				return nil, fatal("STRANS record illegal inside BOUNDARY/PATH")
			}

		case record.Mag:
			v := record.Float(rec.Payload)
			switch curKind {
			case elemSRef:
				curSRef.Mag = v
			case elemARef:
				curARef.Mag = v
			case elemBoundary, elemPath:
				return nil, fatal("MAG record illegal inside BOUNDARY/PATH")
			}

		case record.Angle:
			v := record.Float(rec.Payload)
			switch curKind {
			case elemSRef:
				curSRef.Angle = v
			case elemARef:
				curARef.Angle = v
			case elemBoundary, elemPath:
				return nil, fatal("ANGLE record illegal inside BOUNDARY/PATH")
			}

		case record.SName:
			name := record.ASCIIString(rec.Payload)
			switch curKind {
			case elemSRef:
				curSRef.TargetName = name
			case elemARef:
				curARef.TargetName = name
			case elemBoundary, elemPath:
				return nil, fatal("SNAME record illegal inside BOUNDARY/PATH")
			}

		case record.ColRow:
			if curKind == elemARef {
				if len(rec.Payload) != 4 {
					return nil, fatal("malformed COLROW payload")
				}
				curARef.Cols = record.Uint16(rec.Payload[0:2])
				curARef.Rows = record.Uint16(rec.Payload[2:4])
			}

		case record.XY:
			pairs, err := record.Pairs(rec.Payload)
			if err != nil {
				return nil, &FormatError{Err: err, Offset: rr.Offset()}
			}
			switch curKind {
			case elemBoundary:
				if len(pairs) < 4 || len(pairs) > MaxElementVerts {
					return nil, fatal(fmt.Sprintf("BOUNDARY XY has %d vertices, want 4..%d", len(pairs), MaxElementVerts))
				}
				curBndry.Vertices = toGeomPairs(pairs)
			case elemPath:
				if len(pairs) < 2 || len(pairs) > MaxElementVerts {
					return nil, fatal(fmt.Sprintf("PATH XY has %d vertices, want 2..%d", len(pairs), MaxElementVerts))
				}
				curPath.Vertices = toGeomPairs(pairs)
			case elemSRef:
				if len(pairs) != 1 {
					return nil, fatal(fmt.Sprintf("SREF XY has %d pairs, want 1", len(pairs)))
				}
				curSRef.Origin = Pair{X: pairs[0][0], Y: pairs[0][1]}
			case elemARef:
				if len(pairs) != 3 {
					return nil, fatal(fmt.Sprintf("AREF XY has %d pairs, want 3", len(pairs)))
				}
				curARef.P1 = Pair{X: pairs[0][0], Y: pairs[0][1]}
				curARef.P2 = Pair{X: pairs[1][0], Y: pairs[1][1]}
				curARef.P3 = Pair{X: pairs[2][0], Y: pairs[2][1]}
			}

		case record.DataType, record.ElFlags, record.Plex, record.PropAttr,
			record.PropValue, record.RefLibs, record.Fonts, record.AttrTable,
			record.BgnExtn, record.EndExtn, record.Format, record.Generations,
			record.Presentation, record.String, record.TextNode, record.TextType,
			record.BoxType, record.NodeType:
			// accepted and skipped, no effect on the model

		default:
			return nil, fatal(fmt.Sprintf("unknown record tag 0x%04x", rec.Tag))
		}
	}

	return db, nil
}

func toGeomPairs(pairs [][2]int32) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{X: p[0], Y: p[1]}
	}
	return out
}
