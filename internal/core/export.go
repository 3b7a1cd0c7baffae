package core

import (
	"fmt"

	"github.com/JonMunkholm/xlselect/internal/cell"
	"github.com/JonMunkholm/xlselect/internal/sheetio"
)

// Export writes the selected rows of doc to a new single-sheet xlsx
// workbook. The first row holds doc's full header list; selected rows
// follow in document order regardless of the order they were selected.
// Absent values leave their cell empty.
//
// Export has no side effects. Failures are a *Error of kind ErrNoDocument,
// ErrEmptySelection or ErrSerializationFailure, and no artifact is returned.
func Export(doc *Document, sel *Selection, opts Options) (*Artifact, error) {
	const op = "export"
	opts = opts.withDefaults()

	if doc == nil {
		return nil, newError(op, ErrNoDocument, nil)
	}
	if sel == nil || sel.Size() == 0 {
		return nil, newError(op, ErrEmptySelection, nil)
	}

	indices := sel.Indices()
	grid := make([][]cell.Value, 0, len(indices)+1)

	header := make([]cell.Value, len(doc.Headers))
	for c, h := range doc.Headers {
		header[c] = cell.Text(h)
	}
	grid = append(grid, header)

	for _, i := range indices {
		if i < 0 || i >= len(doc.Rows) {
			return nil, newError(op, ErrSerializationFailure, fmt.Errorf("row %d: %w", i, ErrRowNotFound))
		}
		row := doc.Rows[i]
		values := make([]cell.Value, len(doc.Headers))
		for c, h := range doc.Headers {
			values[c] = row.Get(h)
		}
		grid = append(grid, values)
	}

	data, err := sheetio.WriteSheet(opts.ExportSheetName, grid)
	if err != nil {
		return nil, newError(op, ErrSerializationFailure, err)
	}

	return &Artifact{
		FileName:    opts.ExportFileName,
		SheetName:   opts.ExportSheetName,
		ContentType: sheetio.ContentTypeXLSX,
		Data:        data,
		Rows:        len(indices),
	}, nil
}
