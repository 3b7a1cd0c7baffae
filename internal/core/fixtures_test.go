package core

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// xlsxBytes builds a one-sheet workbook from rows. nil cells are left
// unwritten; other values go through excelize's SetCellValue.
func xlsxBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				t.Fatalf("SetCellValue(%s): %v", ref, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// productRows is the two-row Name/Price sheet; Gadget has no price.
var productRows = [][]any{
	{"Name", "Price"},
	{"Widget", 10},
	{"Gadget", nil},
}
