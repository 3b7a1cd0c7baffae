package sheetio

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbooks produced by WriteSheet.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultSheet is the sheet excelize.NewFile creates.
const defaultSheet = "Sheet1"

var (
	// ErrNonFiniteNumber is returned for NaN and ±Inf, which xlsx cannot store.
	ErrNonFiniteNumber = errors.New("number is not finite")

	// ErrCellTooLong is returned for text longer than excelize.TotalCellChars.
	ErrCellTooLong = errors.New("text exceeds cell character limit")

	// ErrInvalidText is returned for text that is not valid UTF-8.
	ErrInvalidText = errors.New("text is not valid UTF-8")

	// ErrTooManyRows is returned when the grid exceeds excelize.TotalRows.
	ErrTooManyRows = errors.New("too many rows for one sheet")

	// ErrTooManyColumns is returned when a row exceeds excelize.MaxColumns.
	ErrTooManyColumns = errors.New("too many columns for one sheet")
)

// CellError reports which cell could not be written.
type CellError struct {
	Ref string
	Err error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %s: %v", e.Ref, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// WriteSheet builds a single-sheet xlsx workbook from rows and returns its
// bytes. Number cells are written as numeric cells at full precision, text
// as string cells escaped with escapeText, and Absent cells are left out of
// the sheet entirely.
//
// The whole grid is validated before the workbook is created so that a bad
// value never produces a half-written artifact.
func WriteSheet(sheetName string, rows [][]cell.Value) ([]byte, error) {
	if err := validateGrid(rows); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, fmt.Errorf("sheet name %q: %w", sheetName, err)
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v.IsAbsent() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := writeCell(f, sheetName, ref, v); err != nil {
				return nil, &CellError{Ref: ref, Err: err}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeCell stores a single non-absent value.
func writeCell(f *excelize.File, sheet, ref string, v cell.Value) error {
	if n, ok := v.Float(); ok {
		return f.SetCellFloat(sheet, ref, n, -1, 64)
	}
	s, _ := v.Str()
	return f.SetCellStr(sheet, ref, escapeText(s))
}

// escapeTail matches what follows the underscore of an _xHHHH_ escape.
var escapeTail = regexp.MustCompile(`^x[a-fA-F\d]{4}_`)

// escapeText encodes s so that excelize reads back exactly s. Runes XML 1.0
// cannot carry become _xHHHH_, and a literal underscore that would start
// such an escape is written as _x005F_.
func escapeText(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r == '_' || !xmlChar(r) }) {
		return s
	}

	var (
		b          strings.Builder
		underscore []int
	)
	for _, r := range s {
		switch {
		case r == '_':
			underscore = append(underscore, b.Len())
			b.WriteByte('_')
		case !xmlChar(r):
			fmt.Fprintf(&b, "_x%04X_", r)
		default:
			b.WriteRune(r)
		}
	}
	text := b.String()

	var out strings.Builder
	prev := 0
	for _, p := range underscore {
		if escapeTail.MatchString(text[p+1:]) {
			out.WriteString(text[prev:p])
			out.WriteString("_x005F_")
			prev = p + 1
		}
	}
	out.WriteString(text[prev:])
	return out.String()
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= 0x10FFFF
}

// utf16Len counts the UTF-16 code units excelize measures cell length in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r > 0xFFFF {
			n++
		}
	}
	return n
}

// validateGrid rejects values that xlsx cannot represent and text that
// excelize would truncate once escaped.
func validateGrid(rows [][]cell.Value) error {
	if len(rows) > excelize.TotalRows {
		return fmt.Errorf("%w: %d > %d", ErrTooManyRows, len(rows), excelize.TotalRows)
	}
	for r, row := range rows {
		if len(row) > excelize.MaxColumns {
			return fmt.Errorf("row %d: %w: %d > %d", r+1, ErrTooManyColumns, len(row), excelize.MaxColumns)
		}
		for c, v := range row {
			var err error
			switch v.Kind() {
			case cell.KindNumber:
				n, _ := v.Float()
				if math.IsNaN(n) || math.IsInf(n, 0) {
					err = ErrNonFiniteNumber
				}
			case cell.KindText:
				s, _ := v.Str()
				if !utf8.ValidString(s) {
					err = ErrInvalidText
				} else if utf16Len(escapeText(s)) > excelize.TotalCellChars {
					err = ErrCellTooLong
				}
			}
			if err != nil {
				ref, _ := excelize.CoordinatesToCellName(c+1, r+1)
				return &CellError{Ref: ref, Err: err}
			}
		}
	}
	return nil
}
