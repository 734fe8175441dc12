package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vandana/paligest/internal/pali"
	"github.com/vandana/paligest/internal/pipeline"
	"github.com/vandana/paligest/internal/source"
)

// handleImport accepts a source document upload and queues an import job.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	workID := r.FormValue("work_id")
	if workID == "" {
		workID = pipeline.ContentHashHex(data)[:16]
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:           pipeline.NewJobID(filename, data),
		WorkID:       workID,
		Status:       pipeline.StatusQueued,
		Phase:        "queued",
		Filename:     filename,
		Title:        r.FormValue("title"),
		MaxPages:     formInt(r, "max_pages"),
		MaxChunkSize: formInt(r, "max_chunk_size"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"work_id":  job.WorkID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/admin/import/%s/status", job.ID),
	})
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handlePreviewHierarchy runs the structural parse synchronously on an
// uploaded document and returns the navigable outline without storing
// anything. Backs the admin preview UI.
func (s *Server) handlePreviewHierarchy(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	pages, ok := s.extractPages(w, filename, data, formInt(r, "max_pages"))
	if !ok {
		return
	}

	parser := pali.NewPDFParser(filename)
	outline, err := parser.ExtractHierarchy(pali.ParseOptions{
		MaxChunkSize: s.cfg.DefaultMaxChunkSize,
		PagesLines:   pages,
	})
	if err != nil {
		jsonError(w, "hierarchy extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(outline)
}

// readUpload parses the multipart form and returns the sanitized filename
// and file bytes, enforcing the upload size cap. Writes the error response
// itself when ok is false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

// extractPages runs the matching source extractor over uploaded bytes.
func (s *Server) extractPages(w http.ResponseWriter, filename string, data []byte, maxPages int) ([][]string, bool) {
	extractor, err := source.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if pdfExt, ok := extractor.(*source.PDFExtractor); ok {
		pdfExt.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}
	pages, err := extractor.Pages(bytes.NewReader(data), maxPages)
	if err != nil {
		jsonError(w, "page extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return pages, true
}

func readLimited(file multipart.File, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", maxBytes)
	}
	return data, nil
}

func formInt(r *http.Request, key string) int {
	if v := r.FormValue(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
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
