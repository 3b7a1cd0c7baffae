package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the engine matches exactly one of
// these with errors.Is.
var (
	// ErrUnsupportedFormat: the file name does not carry an allowed extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrDecodeFailure: the buffer is not a readable workbook, or it has no sheets.
	ErrDecodeFailure = errors.New("spreadsheet could not be decoded")

	// ErrEmptyDocument: the first sheet converted to zero data rows.
	ErrEmptyDocument = errors.New("empty document: no data rows")

	// ErrEmptySelection: export was requested with no rows selected.
	ErrEmptySelection = errors.New("empty selection: no rows selected")

	// ErrSerializationFailure: the selected rows could not be written as xlsx.
	ErrSerializationFailure = errors.New("export serialization failed")

	// ErrReadFailure: the file could not be read before decoding.
	ErrReadFailure = errors.New("file read failed")

	// ErrFileTooLarge: the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoDocument: the operation needs a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrUnknownField: the display field is not in the header list.
	ErrUnknownField = errors.New("unknown display field")

	// ErrRowNotFound: the row index is outside the loaded document.
	ErrRowNotFound = errors.New("row not found")

	// ErrSessionNotFound: no session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTooManySessions: the session cap has been reached.
	ErrTooManySessions = errors.New("too many sessions")
)

// kinds lists every error kind in match order for KindOf.
var kinds = []error{
	ErrUnsupportedFormat,
	ErrDecodeFailure,
	ErrEmptyDocument,
	ErrEmptySelection,
	ErrSerializationFailure,
	ErrReadFailure,
	ErrFileTooLarge,
	ErrNoDocument,
	ErrUnknownField,
	ErrRowNotFound,
	ErrSessionNotFound,
	ErrTooManySessions,
	ErrTooManyIngests,
}

// Error is the failure type returned by engine operations. Kind is one of
// the sentinel kinds above; Err is the underlying cause, if any.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the error kind err matches, or nil if it matches none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
