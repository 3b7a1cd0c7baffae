package core

import (
	"fmt"
	"io"
)

// Engine owns one loaded Document together with its Selection and display
// field. A failed operation leaves all three exactly as they were.
//
// Engine is not safe for concurrent use; Service serializes access per
// session.
type Engine struct {
	opts Options

	doc          *Document
	sel          *Selection
	displayField string
}

// NewEngine returns an engine with no document loaded.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts: opts.withDefaults(),
		sel:  NewSelection(0),
	}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Ingest decodes buf and, on success, replaces the current document. The
// selection is cleared and the display field reset to the first header.
func (e *Engine) Ingest(buf []byte, fileName string) (*Document, error) {
	doc, err := Ingest(buf, fileName, e.opts)
	if err != nil {
		return nil, err
	}
	e.load(doc)
	return doc, nil
}

// IngestReader reads r to the end and then ingests the bytes. A read error
// or a file larger than maxBytes fails before decoding starts. maxBytes <= 0
// disables the size check.
func (e *Engine) IngestReader(r io.Reader, fileName string, maxBytes int64) (*Document, error) {
	buf, err := readAll(r, maxBytes)
	if err != nil {
		return nil, err
	}
	return e.Ingest(buf, fileName)
}

func readAll(r io.Reader, maxBytes int64) ([]byte, error) {
	const op = "read"
	if maxBytes <= 0 {
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, newError(op, ErrReadFailure, err)
		}
		return buf, nil
	}

	buf, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, newError(op, ErrReadFailure, err)
	}
	if int64(len(buf)) > maxBytes {
		return nil, newError(op, ErrFileTooLarge, fmt.Errorf("exceeds %d bytes", maxBytes))
	}
	return buf, nil
}

func (e *Engine) load(doc *Document) {
	e.doc = doc
	e.sel = NewSelection(doc.Len())
	e.displayField = ""
	if len(doc.Headers) > 0 {
		e.displayField = doc.Headers[0]
	}
}

// Document returns the loaded document, or nil.
func (e *Engine) Document() *Document {
	return e.doc
}

// Row returns the row at index i.
func (e *Engine) Row(i int) (Row, error) {
	if e.doc == nil {
		return nil, newError("row", ErrNoDocument, nil)
	}
	if i < 0 || i >= e.doc.Len() {
		return nil, newError("row", ErrRowNotFound, fmt.Errorf("index %d of %d", i, e.doc.Len()))
	}
	return e.doc.Rows[i], nil
}

// Toggle flips selection of row i and reports whether it is now selected.
// Out-of-range indices, or no document, are a no-op.
func (e *Engine) Toggle(i int) bool {
	return e.sel.Toggle(i)
}

// Clear empties the selection.
func (e *Engine) Clear() {
	e.sel.Clear()
}

// Size returns the number of selected rows.
func (e *Engine) Size() int {
	return e.sel.Size()
}

// IsSelected reports whether row i is selected.
func (e *Engine) IsSelected(i int) bool {
	return e.sel.Contains(i)
}

// Selected returns the selected row indices in ascending order.
func (e *Engine) Selected() []int {
	return e.sel.Indices()
}

// DisplayField returns the header used for labels, or "" with no document.
func (e *Engine) DisplayField() string {
	return e.displayField
}

// SetDisplayField changes the header used for labels. The selection is
// not affected.
func (e *Engine) SetDisplayField(field string) error {
	const op = "set display field"
	if e.doc == nil {
		return newError(op, ErrNoDocument, nil)
	}
	if !e.doc.HasHeader(field) {
		return newError(op, ErrUnknownField, fmt.Errorf("%q", field))
	}
	e.displayField = field
	return nil
}

// Project labels every row with the current display field and marks the
// selected ones.
func (e *Engine) Project() []Choice {
	choices := Project(e.doc, e.displayField)
	for i := range choices {
		choices[i].Selected = e.sel.Contains(choices[i].Index)
	}
	return choices
}

// Export serializes the selected rows.
func (e *Engine) Export() (*Artifact, error) {
	return Export(e.doc, e.sel, e.opts)
}

// Reset drops the document, its selection and the display field.
func (e *Engine) Reset() {
	e.doc = nil
	e.sel = NewSelection(0)
	e.displayField = ""
}
