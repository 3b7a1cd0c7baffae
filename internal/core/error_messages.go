package core

// # Error Codes Reference
//
// User-facing messages with codes for support reference. A user quoting a
// code lets support find the failure without the technical error text.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Remove unneeded rows or sheets and try again
//	          Kind: ErrFileTooLarge; Patterns: "request body too large"
//
//	FILE002 - Unsupported format: Only .xlsx and .xls files are accepted
//	          Action: Save the file as an Excel workbook and upload it again
//	          Kind: ErrUnsupportedFormat
//
//	FILE003 - Unreadable file: The file could not be opened as a spreadsheet
//	          Action: Check that the file is not corrupt or password protected
//	          Kind: ErrDecodeFailure
//
//	FILE004 - No file: No file was selected
//	          Action: Choose a spreadsheet to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty document: The first sheet has no data rows
//	          Action: Add at least one row below the header row
//	          Kind: ErrEmptyDocument
//
//	FILE006 - Read failed: The file could not be read
//	          Action: Please try the upload again
//	          Kind: ErrReadFailure
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Empty selection: No rows are selected
//	         Action: Select at least one row before exporting
//	         Kind: ErrEmptySelection
//
//	SEL002 - Unknown field: The display field is not a column of this document
//	         Action: Choose one of the document's columns
//	         Kind: ErrUnknownField
//
//	SEL003 - Row not found: The row does not exist in this document
//	         Action: Reload the rows and try again
//	         Kind: ErrRowNotFound
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export failed: The selected rows could not be written
//	         Action: Check the selected rows for values Excel cannot store
//	         Kind: ErrSerializationFailure
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: Session not found
//	         Action: Start a new session and upload the file again
//	         Kind: ErrSessionNotFound
//
//	SES002 - Server busy: Too many open sessions
//	         Action: Please try again later
//	         Kind: ErrTooManySessions
//
//	SES003 - No document: No document is loaded
//	         Action: Upload a spreadsheet first
//	         Kind: ErrNoDocument
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many files are being processed
//	         Action: Please wait a moment and try again
//	         Kind: ErrTooManyIngests
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try a smaller file or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Error kinds are matched first with errors.Is, in table order. Errors that
// carry no kind fall back to case-insensitive substring patterns; the first
// matching pattern wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type kindMessage struct {
	kind error
	msg  UserMessage
}

// kindMessages maps engine error kinds to user messages.
var kindMessages = []kindMessage{
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Remove unneeded rows or sheets and try again",
		Code:    "FILE001",
	}},
	{ErrUnsupportedFormat, UserMessage{
		Message: "Only .xlsx and .xls files are accepted",
		Action:  "Save the file as an Excel workbook and upload it again",
		Code:    "FILE002",
	}},
	{ErrDecodeFailure, UserMessage{
		Message: "The file could not be opened as a spreadsheet",
		Action:  "Check that the file is not corrupt or password protected",
		Code:    "FILE003",
	}},
	{ErrEmptyDocument, UserMessage{
		Message: "The first sheet has no data rows",
		Action:  "Add at least one row below the header row",
		Code:    "FILE005",
	}},
	{ErrReadFailure, UserMessage{
		Message: "The file could not be read",
		Action:  "Please try the upload again",
		Code:    "FILE006",
	}},
	{ErrEmptySelection, UserMessage{
		Message: "No rows are selected",
		Action:  "Select at least one row before exporting",
		Code:    "SEL001",
	}},
	{ErrUnknownField, UserMessage{
		Message: "The display field is not a column of this document",
		Action:  "Choose one of the document's columns",
		Code:    "SEL002",
	}},
	{ErrSerializationFailure, UserMessage{
		Message: "The selected rows could not be written",
		Action:  "Check the selected rows for values Excel cannot store",
		Code:    "EXP001",
	}},
	{ErrRowNotFound, UserMessage{
		Message: "The row does not exist in this document",
		Action:  "Reload the rows and try again",
		Code:    "SEL003",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "Session not found",
		Action:  "Start a new session and upload the file again",
		Code:    "SES001",
	}},
	{ErrTooManySessions, UserMessage{
		Message: "Too many open sessions",
		Action:  "Please try again later",
		Code:    "SES002",
	}},
	{ErrNoDocument, UserMessage{
		Message: "No document is loaded",
		Action:  "Upload a spreadsheet first",
		Code:    "SES003",
	}},
	{ErrTooManyIngests, UserMessage{
		Message: "Too many files are being processed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lowercase) to user messages for
// errors that do not carry a kind, such as transport and context errors.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unneeded rows or sheets and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a spreadsheet to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no kind or pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
//
//	msg := MapError(err)
//	// msg.Code == "SEL001" for an export with nothing selected
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, km := range kindMessages {
		if errors.Is(err, km.kind) {
			return km.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
