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

// Database is an immutable, loaded GDSII library: its cell table plus the
// header metadata (version, units, library names) carried through from
// the stream it was built from.
type Database struct {
	Version        uint16
	UUPerDBUnit    float64
	MeterPerDBUnit float64
	RawUnits       [16]byte
	LibNames       []string
	Cells          []Cell

	// byName maps a cell's name to its index in Cells. When a name
	// appears more than once in the input, the last BGNSTR...ENDSTR
	// block with that name wins, matching the source this loader was
	// ported from; earlier cells with the same name remain in Cells but
	// are unreachable by name.
	byName map[string]int
}

// cellByName looks up a cell by name in O(1), replacing the teacher's
// (and the original source's) linear scan over Cells.
func (db *Database) cellByName(name string) (*Cell, bool) {
	idx, ok := db.byName[name]
	if !ok {
		return nil, false
	}
	return &db.Cells[idx], true
}

// AllCells returns the names of every cell in the database, in storage
// order.
func (db *Database) AllCells() []string {
	names := make([]string, len(db.Cells))
	for i, c := range db.Cells {
		names[i] = c.Name
	}
	return names
}

// TopCells returns the names of cells that are not referenced by any
// SREF or ARef in the database, in storage order.
func (db *Database) TopCells() []string {
	referenced := make(map[string]struct{})
	for _, c := range db.Cells {
		for _, s := range c.SRefs {
			referenced[s.TargetName] = struct{}{}
		}
		for _, a := range c.ARefs {
			referenced[a.TargetName] = struct{}{}
		}
	}

	var top []string
	for _, c := range db.Cells {
		if _, isTarget := referenced[c.Name]; !isTarget {
			top = append(top, c.Name)
		}
	}
	return top
}
