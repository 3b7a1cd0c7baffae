package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/JonMunkholm/xlselect/internal/sheetio"
)

// emptyHeader names a header cell with no content.
const emptyHeader = "__EMPTY"

// Ingest decodes buf as a spreadsheet and converts its first sheet into a
// Document. fileName is only used for the extension check and is stored on
// the Document; the container type is taken from the content.
//
// Ingest has no side effects. On failure the returned error is a *Error of
// kind ErrUnsupportedFormat, ErrDecodeFailure or ErrEmptyDocument.
func Ingest(buf []byte, fileName string, opts Options) (*Document, error) {
	const op = "ingest"
	opts = opts.withDefaults()

	if err := CheckExtension(fileName, opts.AllowedExtensions); err != nil {
		return nil, err
	}

	sheet, err := sheetio.ReadFirstSheet(buf)
	if err != nil {
		return nil, newError(op, ErrDecodeFailure, err)
	}

	headers, rows := tabulate(sheet.Rows)
	if len(rows) == 0 {
		return nil, newError(op, ErrEmptyDocument, fmt.Errorf("sheet %q", sheet.Name))
	}

	return &Document{
		FileName:  fileName,
		SheetName: sheet.Name,
		Headers:   headers,
		Rows:      rows,
		LoadedAt:  time.Now(),
	}, nil
}

// CheckExtension returns an ErrUnsupportedFormat error unless fileName ends
// in one of allowed. An empty list means sheetio.DefaultExtensions.
func CheckExtension(fileName string, allowed []string) error {
	if len(allowed) == 0 {
		allowed = sheetio.DefaultExtensions
	}
	if !sheetio.HasExtension(fileName, allowed) {
		return newError("ingest", ErrUnsupportedFormat, fmt.Errorf("file %q has extension %q", fileName, filepath.Ext(fileName)))
	}
	return nil
}

// tabulate turns a cell grid into keyed rows. The first row with any value
// names the columns; every later row with at least one value becomes a Row.
// The returned header list is the first-seen union of the rows' keys.
func tabulate(grid [][]cell.Value) ([]string, []Row) {
	headerRow := -1
	for r, row := range grid {
		if !blankRow(row) {
			headerRow = r
			break
		}
	}
	if headerRow < 0 {
		return nil, nil
	}

	first, last := usedColumns(grid)
	names := columnNames(grid[headerRow], first, last)

	var (
		headers []string
		seen    = make(map[string]bool)
		rows    []Row
	)
	for _, src := range grid[headerRow+1:] {
		row := make(Row)
		for c := first; c <= last && c < len(src); c++ {
			v := src[c]
			if v.IsAbsent() {
				continue
			}
			name := names[c-first]
			row[name] = v
			if !seen[name] {
				seen[name] = true
				headers = append(headers, name)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return headers, rows
}

// usedColumns returns the leftmost and rightmost column holding a value.
// The grid must contain at least one value.
func usedColumns(grid [][]cell.Value) (first, last int) {
	first, last = -1, -1
	for _, row := range grid {
		for c, v := range row {
			if v.IsAbsent() {
				continue
			}
			if first < 0 || c < first {
				first = c
			}
			if c > last {
				last = c
			}
		}
	}
	return first, last
}

// columnNames names columns first..last from the header row. Blank header
// cells become __EMPTY and repeated names get a numeric suffix, so
// "Name", "Name", "" yields "Name", "Name_1", "__EMPTY".
func columnNames(header []cell.Value, first, last int) []string {
	names := make([]string, 0, last-first+1)
	counts := make(map[string]int)

	for c := first; c <= last; c++ {
		base := emptyHeader
		if c < len(header) && !header[c].IsAbsent() {
			base = header[c].Display()
		}

		name := base
		if n := counts[base]; n == 0 {
			counts[base] = 1
		} else {
			for {
				name = base + "_" + strconv.Itoa(n)
				n++
				if counts[name] == 0 {
					break
				}
			}
			counts[base] = n
			counts[name] = 1
		}
		names = append(names, name)
	}
	return names
}

func blankRow(row []cell.Value) bool {
	for _, v := range row {
		if !v.IsAbsent() {
			return false
		}
	}
	return true
}
