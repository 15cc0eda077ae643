package api

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/dgallion1/teigest/internal/metadata"
	"github.com/dgallion1/teigest/internal/tei"
	"github.com/go-chi/chi/v5"
)

// handleGetDocument serves the curated TEI file of a document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	document := sanitizeFilename(chi.URLParam(r, "document"))
	meta, err := metadata.Infer(document)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	path, err := s.output.Path(meta)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("read document", "path", path, "error", err)
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(data)
}

// handleMetadata returns what a filename says about its document.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := metadata.Infer(chi.URLParam(r, "filename"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	collection, _ := meta.Collection()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"metadata":   meta,
		"collection": collection,
	})
}

// handleVerify checks that a TEI document in the request body is in
// canonical form: parsing and re-serializing it reproduces it exactly.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	err = tei.Verify(data)
	var mismatch *tei.RoundTripMismatchError
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"valid": true})
	case errors.As(err, &mismatch):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"valid":  false,
			"offset": mismatch.Offset,
			"want":   mismatch.Want,
			"got":    mismatch.Got,
		})
	default:
		jsonError(w, err.Error(), http.StatusBadRequest)
	}
}
