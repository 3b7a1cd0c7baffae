package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/xlselect/internal/core"
)

// handleUploadDocument streams the "file" part of a multipart upload into
// the session's engine. A rejected file leaves the previous document and
// selection in place.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	ctx := withRequestMetadata(r.Context(), r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errNoFile, err))
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			respondError(w, r, errNoFile)
			return
		}
		if err != nil {
			respondError(w, r, err)
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}
		if part.FileName() == "" {
			part.Close()
			respondError(w, r, errNoFile)
			return
		}
		if err := core.CheckExtension(part.FileName(), s.cfg.Upload.AllowedExtensions); err != nil {
			part.Close()
			respondError(w, r, err)
			return
		}

		_, err = s.service.Ingest(ctx, id, part.FileName(), part)
		part.Close()
		if err != nil {
			respondError(w, r, err)
			return
		}
		break
	}

	s.respondDocument(w, r, http.StatusCreated)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.respondDocument(w, r, http.StatusOK)
}

// handleResetDocument drops the document and its selection.
func (s *Server) handleResetDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reset(r.Context(), sessionID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetDisplayField changes the header used to label rows.
func (s *Server) handleSetDisplayField(w http.ResponseWriter, r *http.Request) {
	var req displayFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	err := s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		return e.SetDisplayField(req.Field)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.respondDocument(w, r, http.StatusOK)
}

func (s *Server) respondDocument(w http.ResponseWriter, r *http.Request, status int) {
	var resp DocumentResponse
	err := s.service.Do(r.Context(), sessionID(r), func(e *core.Engine) error {
		if err := requireDocument(e); err != nil {
			return err
		}
		resp = documentResponse(e)
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, status, resp)
}
