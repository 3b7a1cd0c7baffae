package sheetio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnknownContainer is returned when the buffer is neither an OOXML zip
// nor an OLE2 compound file.
var ErrUnknownContainer = errors.New("unrecognized spreadsheet container")

// ErrNoSheets is returned when a workbook decodes but holds no worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrDecoderPanic wraps a panic raised inside a third-party decoder.
var ErrDecoderPanic = errors.New("decoder panic")

// Sheet is a decoded worksheet. Rows[r][c] is the cell at zero-based row r
// and column c. Rows may be ragged; a missing trailing cell and an Absent
// cell mean the same thing.
type Sheet struct {
	Name   string
	Format Format
	Rows   [][]cell.Value
}

// ReadFirstSheet decodes buf and returns its first worksheet in workbook
// order. Decoder panics are recovered and reported as errors.
func ReadFirstSheet(buf []byte) (sheet *Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet = nil
			err = fmt.Errorf("%w: %v", ErrDecoderPanic, r)
		}
	}()

	switch Detect(buf) {
	case FormatOOXML:
		return readOOXML(buf)
	case FormatOLE2:
		return readOLE2(buf)
	default:
		return nil, ErrUnknownContainer
	}
}

// readOOXML decodes the first sheet of an xlsx workbook. Values are read
// raw (no number formatting) and classified with the stored cell type.
func readOOXML(buf []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	name := names[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	rows := make([][]cell.Value, len(raw))
	for r, rawRow := range raw {
		values := make([]cell.Value, len(rawRow))
		for c, s := range rawRow {
			if s == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, ref)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", ref, err)
			}
			values[c] = classifyOOXML(typ, s)
		}
		rows[r] = values
	}

	return &Sheet{Name: name, Format: FormatOOXML, Rows: rows}, nil
}

// classifyOOXML maps a raw xlsx cell to a Value using its stored type.
// Unset and number types are numeric, which covers date serials (t="n").
// CellTypeDate is an ISO 8601 string cell (t="d") and stays text. Booleans
// become TRUE/FALSE text, errors keep their error literal.
func classifyOOXML(typ excelize.CellType, raw string) cell.Value {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return cell.Text(raw)
	case excelize.CellTypeBool:
		if raw == "1" || raw == "TRUE" || raw == "true" {
			return cell.Text("TRUE")
		}
		return cell.Text("FALSE")
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return cell.Number(f)
		}
		return cell.Text(raw)
	}
}

// readOLE2 decodes the first sheet of a BIFF workbook. Cells are typed by
// the record they were stored in, never by their text.
func readOLE2(buf []byte) (*Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.GetNumberSheets() == 0 {
		return nil, ErrNoSheets
	}
	ws, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSheets, err)
	}

	n := ws.GetNumberRows()
	rows := make([][]cell.Value, n)
	for r := 0; r < n; r++ {
		row, err := ws.GetRow(r)
		if err != nil || row == nil {
			continue
		}
		cols := row.GetCols()
		values := make([]cell.Value, len(cols))
		for c, cd := range cols {
			values[c] = classifyBIFF(cd)
		}
		rows[r] = values
	}

	return &Sheet{Name: ws.GetName(), Format: FormatOLE2, Rows: rows}, nil
}

// biffCell is the part of a decoded BIFF cell record that classifyBIFF reads.
type biffCell interface {
	GetType() string
	GetString() string
	GetFloat64() float64
}

// classifyBIFF maps a BIFF cell record to a Value. NUMBER and RK records
// (and their MULRK expansion) are numeric; string records stay text even
// when they look like numbers.
func classifyBIFF(cd biffCell) cell.Value {
	typ := cd.GetType()
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	switch strings.ToLower(typ) {
	case "blank", "fakeblank":
		return cell.Absent()
	case "number", "rk":
		if f := cd.GetFloat64(); !math.IsNaN(f) && !math.IsInf(f, 0) {
			return cell.Number(f)
		}
	}
	if s := cd.GetString(); s != "" {
		return cell.Text(s)
	}
	return cell.Absent()
}
