package web

// handlers_common.go holds shared request parsing, response writing and
// the JSON shapes returned by the handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/xlselect/internal/core"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead is allowed on top of the file size limit for form
// boundaries and part headers.
const multipartOverhead = 1 << 20

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status   string             `json:"status"`
	Sessions int                `json:"sessions"`
	Ingests  core.LimiterStatus `json:"ingests"`
}

// DocumentResponse describes the loaded document of a session.
type DocumentResponse struct {
	FileName     string    `json:"file_name"`
	SheetName    string    `json:"sheet_name"`
	Headers      []string  `json:"headers"`
	RowCount     int       `json:"row_count"`
	LoadedAt     time.Time `json:"loaded_at"`
	DisplayField string    `json:"display_field"`
	Selected     []int     `json:"selected"`
}

// RowsResponse is the projection of every row onto the display field.
type RowsResponse struct {
	DisplayField string        `json:"display_field"`
	Rows         []core.Choice `json:"rows"`
	Selected     int           `json:"selected"`
}

// RowResponse is a single row with all of its cells.
type RowResponse struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	Selected bool     `json:"selected"`
	Cells    core.Row `json:"cells"`
}

// SelectionResponse lists the selected row indices in ascending order.
type SelectionResponse struct {
	Selected []int `json:"selected"`
	Count    int   `json:"count"`
}

// ToggleResponse reports the state of a row after a toggle.
type ToggleResponse struct {
	Index    int  `json:"index"`
	Selected bool `json:"selected"`
	Count    int  `json:"count"`
}

type displayFieldRequest struct {
	Field string `json:"field"`
}

// documentResponse must be called with the session lock held.
func documentResponse(e *core.Engine) DocumentResponse {
	doc := e.Document()
	return DocumentResponse{
		FileName:     doc.FileName,
		SheetName:    doc.SheetName,
		Headers:      doc.Headers,
		RowCount:     doc.Len(),
		LoadedAt:     doc.LoadedAt,
		DisplayField: e.DisplayField(),
		Selected:     nonNil(e.Selected()),
	}
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

// writeJSON writes v as a JSON response with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

// sessionID returns the {sessionID} URL parameter.
func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// parseIndex parses the {index} URL parameter as a row index.
func parseIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		return 0, errBadIndex
	}
	return i, nil
}
