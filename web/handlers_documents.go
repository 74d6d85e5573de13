package web

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/codybmenefee/custodian-integration-tool/domain/document"
	"github.com/go-chi/chi/v5"
)

// uploadContentType resolves the effective content type of an upload.
// Browsers often tag file parts application/octet-stream, so the file
// extension wins over a missing or generic declared type.
func uploadContentType(filename, declared string, payload []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	}
	return http.DetectContentType(payload)
}

// UploadDocument ingests a file from a multipart form. The file part must
// be named "file"; an optional "schemaId" part links the document to a
// schema version.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Missing file part")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Unable to read uploaded file")
		return
	}

	contentType := uploadContentType(header.Filename, header.Header.Get("Content-Type"), payload)

	doc, err := h.documents.Ingest(r.Context(), app.IngestInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Payload:     payload,
		SchemaID:    r.FormValue("schemaId"),
		UploadedBy:  h.requestUser(r),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// ListDocuments returns stored document records.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	docs, err := h.documents.List(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if docs == nil {
		docs = []document.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// GetDocument returns a single document record.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes a document record.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
