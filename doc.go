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

// Package gds reads GDSII stream files into an in-memory cell table and
// flattens a chosen top cell into a flat list of absolute-coordinate
// polygons, optionally clipped to a bounding box and optionally written
// back out as a new GDSII stream.
//
// A Database is built once from a stream by Open and is immutable
// afterwards; Collapse may be called any number of times against it.
package gds
