package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/metrics"
)

// DocumentsHandler exposes a document collection over HTTP. The same handler
// serves the global companies collection and every user's contacts.
type DocumentsHandler struct {
	Docs    *docstore.Store
	Metrics *metrics.Metrics
}

type addResponse struct {
	ID string `json:"id"`
}

// collection resolves the collection a request addresses and enforces that
// per-user collections are only reachable by their owner.
func collection(r *http.Request) (string, error) {
	uid := r.PathValue("uid")
	if uid == "" {
		return docstore.Companies, nil
	}

	coll := docstore.Contacts(uid)
	claims := GetClaims(r.Context())
	if claims == nil || docstore.Owner(coll) != claims.UserID {
		return "", docstore.ErrPermissionDenied
	}
	return coll, nil
}

// writeDocError maps document store errors to responses.
func writeDocError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, docstore.ErrPermissionDenied):
		jsonError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, docstore.ErrNotFound):
		jsonError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, docstore.ErrInvalidPath):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("document operation failed", "op", op, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+op+" document")
	}
}

// List handles GET on a collection.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	coll, err := collection(r)
	if err != nil {
		writeDocError(w, "list", err)
		return
	}

	docs, err := h.Docs.List(r.Context(), coll)
	h.Metrics.ObserveDocumentOp(docstore.Kind(coll), "list", err)
	if err != nil {
		writeDocError(w, "list", err)
		return
	}
	jsonResponse(w, http.StatusOK, docs)
}

// Add handles POST on a collection.
func (h *DocumentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	coll, err := collection(r)
	if err != nil {
		writeDocError(w, "add", err)
		return
	}

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil || fields == nil {
		jsonError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	id, err := h.Docs.Add(r.Context(), coll, fields)
	h.Metrics.ObserveDocumentOp(docstore.Kind(coll), "add", err)
	if err != nil {
		writeDocError(w, "add", err)
		return
	}

	slog.Info("document added", "user", GetClaims(r.Context()).UserID, "kind", docstore.Kind(coll), "id", id)
	jsonResponse(w, http.StatusCreated, addResponse{ID: id})
}

// Update handles PATCH on a document.
func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	coll, err := collection(r)
	if err != nil {
		writeDocError(w, "update", err)
		return
	}
	id := r.PathValue("id")

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil || fields == nil {
		jsonError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	err = h.Docs.Update(r.Context(), coll, id, fields)
	h.Metrics.ObserveDocumentOp(docstore.Kind(coll), "update", err)
	if err != nil {
		writeDocError(w, "update", err)
		return
	}

	slog.Info("document updated", "user", GetClaims(r.Context()).UserID, "kind", docstore.Kind(coll), "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE on a document.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	coll, err := collection(r)
	if err != nil {
		writeDocError(w, "delete", err)
		return
	}
	id := r.PathValue("id")

	err = h.Docs.Delete(r.Context(), coll, id)
	h.Metrics.ObserveDocumentOp(docstore.Kind(coll), "delete", err)
	if err != nil {
		writeDocError(w, "delete", err)
		return
	}

	slog.Info("document deleted", "user", GetClaims(r.Context()).UserID, "kind", docstore.Kind(coll), "id", id)
	w.WriteHeader(http.StatusNoContent)
}
