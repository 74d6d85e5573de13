package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/go-chi/chi/v5"
)

// CreateSchema stores a new schema version.
func (h *Handler) CreateSchema(w http.ResponseWriter, r *http.Request) {
	var in app.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	in.CreatedBy = h.requestUser(r)

	sc, err := h.schemas.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// ListSchemas returns schemas, optionally filtered by name.
func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		versions, err := h.schemas.ListVersions(r.Context(), name)
		if errors.Is(err, schema.ErrNotFound) {
			writeJSON(w, http.StatusOK, []schema.Schema{})
			return
		}
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, versions)
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)
	schemas, err := h.schemas.List(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if schemas == nil {
		schemas = []schema.Schema{}
	}
	writeJSON(w, http.StatusOK, schemas)
}

// GetSchema returns a single schema by id.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	sc, err := h.schemas.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// UpdateSchema edits fields and notes of an existing schema in place.
func (h *Handler) UpdateSchema(w http.ResponseWriter, r *http.Request) {
	var in app.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	sc, err := h.schemas.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// DeleteSchema removes a schema version.
func (h *Handler) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.schemas.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSchemaVersions returns every version of a schema, highest first.
// The path segment may be a schema id or a schema name.
func (h *Handler) ListSchemaVersions(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")

	name := ref
	if sc, err := h.schemas.Get(r.Context(), ref); err == nil {
		name = sc.Name
	}

	versions, err := h.schemas.ListVersions(r.Context(), name)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// CreateSchemaVersion creates a new version from an existing schema.
func (h *Handler) CreateSchemaVersion(w http.ResponseWriter, r *http.Request) {
	var in app.VersionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	in.CreatedBy = h.requestUser(r)

	sc, err := h.schemas.CreateVersion(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// CompareSchemas diffs two schema versions given by ?from= and ?to=.
func (h *Handler) CompareSchemas(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Both from and to query parameters are required")
		return
	}

	result, err := h.schemas.Compare(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportSchema returns a portable schema document as a download.
func (h *Handler) ExportSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := h.schemas.Export(r.Context(), chi.URLParam(r, "id"), h.requestUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s.json", doc.Name, doc.Version)))
	writeJSON(w, http.StatusOK, doc)
}

// ImportSchema validates and stores an uploaded schema document.
func (h *Handler) ImportSchema(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, h.maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Unable to read request body")
		return
	}

	sc, err := h.schemas.Import(r.Context(), raw, h.requestUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// requestUser returns the email of the authenticated user, or empty when
// the route is unauthenticated.
func (h *Handler) requestUser(r *http.Request) string {
	if claims := getClaims(r.Context()); claims != nil {
		return claims.Email
	}
	return ""
}
