package web

// errors.go maps failures to HTTP responses.
//
// Every error is logged with its technical detail and request ID, then
// returned to the client as a core.UserMessage with a support code. The
// status code comes from the error's kind (see statusFor) unless the
// caller already knows it, as the rate limiter does.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/core"
	"github.com/JonMunkholm/xlselect/internal/logging"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errBadIndex    = errors.New("row index must be a non-negative integer")
	errBadBody     = errors.New("request body is not valid JSON")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError writes err with the status its kind maps to.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusFor(err), err)
}

// writeError logs err and writes it as an ErrorResponse with status.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	ue := core.NewUserError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   ue.Error(),
		Message: ue.User.Message,
		Action:  ue.User.Action,
		Code:    ue.User.Code,
	})
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}

	switch core.KindOf(err) {
	case core.ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case core.ErrDecodeFailure, core.ErrEmptyDocument:
		return http.StatusUnprocessableEntity
	case core.ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case core.ErrEmptySelection, core.ErrNoDocument:
		return http.StatusConflict
	case core.ErrUnknownField:
		return http.StatusBadRequest
	case core.ErrSessionNotFound, core.ErrRowNotFound:
		return http.StatusNotFound
	case core.ErrTooManySessions, core.ErrTooManyIngests:
		return http.StatusServiceUnavailable
	case core.ErrReadFailure:
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, errNoFile), errors.Is(err, errBadIndex), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
