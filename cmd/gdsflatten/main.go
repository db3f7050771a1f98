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

// Command gdsflatten is the thin CLI wrapper around the gds package: it
// opens a GDSII file, lists its cells, or flattens a chosen cell, optionally
// to an output GDSII stream, and reports how many polygons were emitted.
// All of the actual
// format parsing and flattening logic lives in the gds package; this
// binary only handles flag parsing, file I/O, and reporting.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/term"

	gds "github.com/jwb65/gdscollapse"
)

var (
	cellArg     = flag.String("cell", "", "name of the cell to flatten (required unless -list is given)")
	listArg     = flag.Bool("list", false, "list the top cells (and, on a terminal, all cells), then exit")
	outArg      = flag.String("o", "", "write the flattened result to this GDSII file")
	maxPolysArg = flag.Uint64("max-polys", 1<<32, "stop after this many polygons have been emitted")
	clipArg     = flag.String("clip", "", "clip rectangle \"xmin,ymin,xmax,ymax\" in user units")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options] <file.gds>\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, "gdsflatten:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := gds.Open(f)
	if err != nil {
		return err
	}

	if *listArg {
		printCellLists(db)
		return nil
	}

	if *cellArg == "" {
		return fmt.Errorf("-cell is required (or pass -list to see available cells)")
	}

	opt := gds.CollapseOptions{MaxPolys: *maxPolysArg}

	if *clipArg != "" {
		rect, err := parseClip(*clipArg)
		if err != nil {
			return err
		}
		opt.Clip = rect
	}

	var sink gds.PolygonSet
	opt.Sink = &sink

	var outFile *os.File
	if *outArg != "" {
		outFile, err = os.Create(*outArg)
		if err != nil {
			return err
		}
		defer outFile.Close()
		opt.Output = outFile
	}

	if err := db.Collapse(*cellArg, opt); err != nil {
		return err
	}

	fmt.Printf("%d polygons emitted from cell %q\n", len(sink.Polygons), *cellArg)
	return nil
}

func parseClip(s string) (*gds.Rect, error) {
	var r gds.Rect
	n, err := fmt.Sscanf(s, "%g,%g,%g,%g", &r.XMin, &r.YMin, &r.XMax, &r.YMax)
	if err != nil || n != 4 {
		return nil, fmt.Errorf("malformed -clip value %q, want \"xmin,ymin,xmax,ymax\"", s)
	}
	return &r, nil
}

// printCellLists prints the cell lists. On a terminal the top cells and
// then all cells are printed, each list under a header with its count and
// one indented name per line; piped output is only the top-cell names, one
// per line, so downstream tools can consume it without parsing whitespace.
func printCellLists(db *gds.Database) {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	all := sortedCopy(db.AllCells())
	top := sortedCopy(db.TopCells())

	if interactive {
		fmt.Printf("top cells (%d):\n", len(top))
	}
	for _, name := range top {
		if interactive {
			fmt.Println(" ", name)
		} else {
			fmt.Println(name)
		}
	}
	if interactive {
		fmt.Printf("\nall cells (%d):\n", len(all))
		for _, name := range all {
			fmt.Println(" ", name)
		}
	}
}

// sortedCopy deduplicates through a map and returns the names sorted, the
// way the teacher's CLI turns an unordered set into a stable printed list.
func sortedCopy(names []string) []string {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	out := maps.Keys(set)
	sort.Strings(out)
	return out
}
