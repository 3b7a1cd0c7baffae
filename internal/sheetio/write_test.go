package sheetio

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/xuri/excelize/v2"
)

func TestWriteSheet_RoundTrip(t *testing.T) {
	grid := [][]cell.Value{
		{cell.Text("Name"), cell.Text("Price"), cell.Text("Code")},
		{cell.Text("Widget"), cell.Number(10), cell.Text("007")},
		{cell.Text("Gadget"), cell.Absent(), cell.Text("")},
		{cell.Absent(), cell.Number(0.1 + 0.2), cell.Text("=SUM(A1:A2)")},
	}

	data, err := WriteSheet("Selected Products", grid)
	if err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	sheet, err := ReadFirstSheet(data)
	if err != nil {
		t.Fatalf("ReadFirstSheet: %v", err)
	}
	if sheet.Name != "Selected Products" {
		t.Errorf("sheet name = %q", sheet.Name)
	}

	at := func(r, c int) cell.Value {
		if r >= len(sheet.Rows) || c >= len(sheet.Rows[r]) {
			return cell.Absent()
		}
		return sheet.Rows[r][c]
	}

	checks := []struct {
		r, c int
		want cell.Value
	}{
		{1, 1, cell.Number(10)},
		{1, 2, cell.Text("007")},
		{2, 1, cell.Absent()},
		{3, 0, cell.Absent()},
		{3, 1, cell.Number(0.1 + 0.2)},
		{3, 2, cell.Text("=SUM(A1:A2)")},
	}
	for _, ck := range checks {
		if got := at(ck.r, ck.c); !got.Equal(ck.want) {
			t.Errorf("cell (%d,%d) = %v, want %v", ck.r, ck.c, got, ck.want)
		}
	}
}

func TestWriteSheet_AbsentCellsAreNotWritten(t *testing.T) {
	grid := [][]cell.Value{
		{cell.Text("Name"), cell.Text("Price")},
		{cell.Text("Gadget"), cell.Absent()},
	}

	data, err := WriteSheet("Out", grid)
	if err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	typ, err := f.GetCellType("Out", "B2")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if typ != excelize.CellTypeUnset {
		t.Errorf("B2 type = %v, want unset", typ)
	}
	v, err := f.GetCellValue("Out", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "" {
		t.Errorf("B2 = %q, want no value", v)
	}
}

func TestWriteSheet_Errors(t *testing.T) {
	long := strings.Repeat("x", excelize.TotalCellChars+1)

	tests := []struct {
		name    string
		sheet   string
		grid    [][]cell.Value
		wantErr error
	}{
		{
			name:    "NaN",
			sheet:   "Out",
			grid:    [][]cell.Value{{cell.Text("n")}, {cell.Number(math.NaN())}},
			wantErr: ErrNonFiniteNumber,
		},
		{
			name:    "infinity",
			sheet:   "Out",
			grid:    [][]cell.Value{{cell.Text("n")}, {cell.Number(math.Inf(-1))}},
			wantErr: ErrNonFiniteNumber,
		},
		{
			name:    "text too long",
			sheet:   "Out",
			grid:    [][]cell.Value{{cell.Text("n")}, {cell.Text(long)}},
			wantErr: ErrCellTooLong,
		},
		{
			name:    "invalid utf-8",
			sheet:   "Out",
			grid:    [][]cell.Value{{cell.Text("n")}, {cell.Text("a\xc3(")}},
			wantErr: ErrInvalidText,
		},
		{
			name:    "escaping pushes text over the limit",
			sheet:   "Out",
			grid:    [][]cell.Value{{cell.Text("n")}, {cell.Text(strings.Repeat("\x01", excelize.TotalCellChars/7+1))}},
			wantErr: ErrCellTooLong,
		},
		{
			name:  "invalid sheet name",
			sheet: "bad/name",
			grid:  [][]cell.Value{{cell.Text("n")}},
		},
		{
			name:  "empty sheet name",
			sheet: "",
			grid:  [][]cell.Value{{cell.Text("n")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := WriteSheet(tt.sheet, tt.grid)
			if err == nil {
				t.Fatal("expected error")
			}
			if data != nil {
				t.Error("no bytes may be returned on error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteSheet_CellErrorReference(t *testing.T) {
	grid := [][]cell.Value{
		{cell.Text("a"), cell.Text("b")},
		{cell.Text("ok"), cell.Number(math.NaN())},
	}

	_, err := WriteSheet("Out", grid)
	var ce *CellError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CellError", err)
	}
	if ce.Ref != "B2" {
		t.Errorf("Ref = %q, want B2", ce.Ref)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"snake_case_x", "snake_case_x"},
		{"_x0041_", "_x005F_x0041_"},
		{"_x0041_x0042_", "_x005F_x0041_x005F_x0042_"},
		{"_x005F_", "_x005F_x005F_"},
		{"a\x01b", "a_x0001_b"},
		{"tab\tnewline\n", "tab\tnewline\n"},
		{"\uFFFE", "_xFFFE_"},
		{"_xABCD\x01", "_x005F_xABCD_x0001_"},
		{"_\x01", "__x0001_"},
	}

	for _, tt := range tests {
		if got := escapeText(tt.in); got != tt.want {
			t.Errorf("escapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSheet_TextSurvivesReadBack(t *testing.T) {
	texts := []string{
		"_x0041_",
		"_x005F_x0041_",
		"_x0041_x0042_",
		"_xABCD\x01",
		"a\x01b\x1fc",
		"\uFFFF",
		"__x__",
	}

	grid := make([][]cell.Value, len(texts))
	for i, s := range texts {
		grid[i] = []cell.Value{cell.Text(s)}
	}

	data, err := WriteSheet("Out", grid)
	if err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}
	sheet, err := ReadFirstSheet(data)
	if err != nil {
		t.Fatalf("ReadFirstSheet: %v", err)
	}

	for i, want := range texts {
		if got := sheet.Rows[i][0]; !got.Equal(cell.Text(want)) {
			t.Errorf("row %d = %q, want %q", i, got, want)
		}
	}
}
