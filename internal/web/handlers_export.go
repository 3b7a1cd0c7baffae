package web

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/xlselect/internal/logging"
)

// handleExport downloads the selected rows as an xlsx workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	art, err := s.service.Export(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("X-Row-Count", strconv.Itoa(art.Rows))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}
