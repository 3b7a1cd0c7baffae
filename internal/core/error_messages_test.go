package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
			err:  nil,
		},
		{
			name:        "unsupported format",
			err:         newError("ingest", ErrUnsupportedFormat, errors.New(`file "a.csv"`)),
			wantCode:    "FILE002",
			wantMessage: "Only .xlsx and .xls files are accepted",
		},
		{
			name:        "decode failure",
			err:         newError("ingest", ErrDecodeFailure, errors.New("zip: not a valid zip file")),
			wantCode:    "FILE003",
			wantMessage: "The file could not be opened as a spreadsheet",
		},
		{
			name:        "empty document",
			err:         newError("ingest", ErrEmptyDocument, nil),
			wantCode:    "FILE005",
			wantMessage: "The first sheet has no data rows",
		},
		{
			name:        "empty selection",
			err:         newError("export", ErrEmptySelection, nil),
			wantCode:    "SEL001",
			wantMessage: "No rows are selected",
		},
		{
			name:        "serialization failure",
			err:         newError("export", ErrSerializationFailure, errors.New("cell B2: number is not finite")),
			wantCode:    "EXP001",
			wantMessage: "The selected rows could not be written",
		},
		{
			name:        "kind wins over pattern text",
			err:         newError("read", ErrReadFailure, context.Canceled),
			wantCode:    "FILE006",
			wantMessage: "The file could not be read",
		},
		{
			name:        "wrapped kind",
			err:         fmt.Errorf("session abc: %w", ErrSessionNotFound),
			wantCode:    "SES001",
			wantMessage: "Session not found",
		},
		{
			name:        "too many ingests",
			err:         ErrTooManyIngests,
			wantCode:    "UPL002",
			wantMessage: "Too many files are being processed",
		},
		{
			name:        "request body too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("RATE LIMIT exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_EveryKindHasCode(t *testing.T) {
	for _, k := range kinds {
		if got := MapError(k); got.Code == defaultMessage.Code {
			t.Errorf("kind %q falls back to %s", k, got.Code)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(newError("export", ErrEmptySelection, nil))
	want := "No rows are selected (Code: SEL001). Select at least one row before exporting"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known kind is user facing", ErrEmptyDocument, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	tech := newError("ingest", ErrDecodeFailure, errors.New("bad zip"))
	ue := NewUserError(tech)
	if ue.Error() != "The file could not be opened as a spreadsheet" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrDecodeFailure) {
		t.Error("UserError should unwrap to the technical error's kind")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("bad zip")
	err := newError("ingest", ErrDecodeFailure, cause)

	if !errors.Is(err, ErrDecodeFailure) {
		t.Error("errors.Is(kind) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(cause) = false")
	}
	if got := KindOf(err); got != ErrDecodeFailure {
		t.Errorf("KindOf = %v", got)
	}
	if got := KindOf(errors.New("other")); got != nil {
		t.Errorf("KindOf(other) = %v, want nil", got)
	}
	if got := err.Error(); got != "ingest: spreadsheet could not be decoded: bad zip" {
		t.Errorf("Error() = %q", got)
	}
	if got := newError("export", ErrEmptySelection, nil).Error(); got != "export: empty selection: no rows selected" {
		t.Errorf("Error() = %q", got)
	}
}
