package web

import (
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/core"
)

// handleListRows returns one labelled choice per row. A session without a
// document has no rows.
func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	var resp RowsResponse
	err := s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		resp = RowsResponse{
			DisplayField: e.DisplayField(),
			Rows:         e.Project(),
			Selected:     e.Size(),
		}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if resp.Rows == nil {
		resp.Rows = []core.Choice{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRow(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var resp RowResponse
	err = s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		row, err := e.Row(i)
		if err != nil {
			return err
		}
		resp = RowResponse{
			Index:    i,
			Label:    core.Label(row, e.DisplayField()),
			Selected: e.IsSelected(i),
			Cells:    row,
		}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.respondSelection(w, r, func(*core.Engine) {})
}

// handleClearSelection empties the selection and keeps the document.
func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.respondSelection(w, r, (*core.Engine).Clear)
}

// handleToggleRow flips the selection state of one row. Unlike the engine,
// which ignores out of range indices, the API reports them as not found.
func (s *Server) handleToggleRow(w http.ResponseWriter, r *http.Request) {
	i, err := parseIndex(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var resp ToggleResponse
	err = s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		if _, err := e.Row(i); err != nil {
			return err
		}
		resp = ToggleResponse{Index: i, Selected: e.Toggle(i), Count: e.Size()}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) respondSelection(w http.ResponseWriter, r *http.Request, fn func(*core.Engine)) {
	var resp SelectionResponse
	err := s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		fn(e)
		resp = SelectionResponse{Selected: nonNil(e.Selected()), Count: e.Size()}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
