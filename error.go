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
)

var (
	errNoCellName  = errors.New("no cell name given to Collapse")
	errHeaderFirst = errors.New("HEADER must be the first record")
)

// FormatError indicates that the input stream is not a valid GDSII
// stream: a record shorter than 4 bytes, a missing or unsupported HEADER,
// an unknown record tag, a malformed XY payload, or a body record that is
// illegal for the element currently under construction.
type FormatError struct {
	Err    error
	Offset int64
}

func (err *FormatError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Offset > 0 {
		tail = fmt.Sprintf(" (at byte %d)", err.Offset)
	}
	return "malformed GDSII stream" + middle + tail
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// ReferenceError indicates that an SREF or AREF names a cell that does not
// exist in the database. This is only detected at flatten time, since the
// loader does not require forward references to resolve during load.
type ReferenceError struct {
	CellName string
}

func (err *ReferenceError) Error() string {
	return fmt.Sprintf("gds: referenced cell %q not found", err.CellName)
}

// ArgumentError indicates a caller-supplied argument to Collapse is
// invalid: an empty cell name, or a clip rectangle with xmax <= xmin or
// ymax <= ymin.
type ArgumentError struct {
	Msg string
}

func (err *ArgumentError) Error() string {
	return "gds: " + err.Msg
}
