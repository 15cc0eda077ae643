package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/teigest/internal/corpus"
	"github.com/dgallion1/teigest/internal/metadata"
	"github.com/dgallion1/teigest/internal/parser"
	"github.com/dgallion1/teigest/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleCurate accepts the OCR output of one document as multipart "files",
// in page order, and queues it. The document name defaults to the name the
// first file belongs to.
func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var (
		sources []parser.Source
		total   int64
	)
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		total += int64(len(data))
		if total > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		sources = append(sources, parser.Source{Name: filename, Data: data})
	}

	document := r.FormValue("document")
	if document == "" {
		document = corpus.DocumentName(sources[0].Name)
	} else {
		document = sanitizeFilename(document)
	}
	if _, err := metadata.Infer(document); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(document, sources)
	if err := s.orchestrator.Submit(job); err != nil {
		code := http.StatusServiceUnavailable
		if !errors.Is(err, pipeline.ErrQueueFull) && !errors.Is(err, pipeline.ErrClosed) {
			code = http.StatusInternalServerError
		}
		jsonError(w, err.Error(), code)
		return
	}

	s.log.Info("curation queued", "job_id", job.ID, "document", document, "sources", len(sources))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"document": job.Document,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/curate/%s/status", job.ID),
	})
}

func (s *Server) handleCurateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
