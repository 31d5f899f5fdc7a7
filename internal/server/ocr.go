package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/biasharafund/discounting/internal/extract"
)

// multipartOverhead pads the request-body cap beyond the file size limit
// to leave room for part headers and boundaries.
const multipartOverhead = 1 << 20

// uploadErrorStatus distinguishes an oversize body (MaxBytesReader fires
// inside FormFile) from a malformed upload.
func uploadErrorStatus(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// handleOCRPreview accepts a multipart upload, runs the full pipeline,
// and returns the unified result. A document that yielded no usable core
// fields comes back as 422 so callers can fall through to manual entry.
func (h *Handler) handleOCRPreview(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := h.saveUpload(w, r)
	if err != nil {
		writeError(w, uploadErrorStatus(err), err)
		return
	}
	defer cleanup()

	result := h.pipeline.Extract(r.Context(), path)

	if !result.Invoice.ExtractionSuccess {
		writeJsonStatus(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJson(w, result)
}

type parseRequest struct {
	Text string `json:"text"`
}

// handleOCRParse parses caller-provided text into invoice fields without
// touching the OCR backends.
func (h *Handler) handleOCRParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %v", err))
		return
	}
	writeJson(w, h.pipeline.ParseInvoice(req.Text))
}

// handleOCRExport renders a batch of extraction results as an XLSX
// workbook for download.
func (h *Handler) handleOCRExport(w http.ResponseWriter, r *http.Request) {
	var results []extract.Result
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %v", err))
		return
	}

	data, err := h.exporter.ExtractionsXLSX(results)
	if err != nil {
		h.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("export failed"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="extractions.xlsx"`)
	_, _ = w.Write(data)
}

// saveUpload copies the "file" part of a multipart request into a temp
// directory, keeping the client's file name so extension checks apply.
// The declared Content-Type is checked against the extension before any
// bytes are read.
func (h *Handler) saveUpload(w http.ResponseWriter, r *http.Request) (string, func(), error) {
	maxSize := h.cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file upload: %w", err)
	}
	defer func(file multipart.File) { _ = file.Close() }(file)

	if err := extract.ValidateMIME(header.Filename, header.Header.Get("Content-Type")); err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", "disc-upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("create upload dir: %v", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	name := filepath.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	if name == "" || name == "." || name == ".." {
		cleanup()
		return "", nil, fmt.Errorf("invalid upload file name")
	}
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("create upload file: %v", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("store upload: %v", err)
	}

	return path, cleanup, nil
}
