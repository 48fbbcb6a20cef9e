package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/imaging"
)

const logoAttachment = "logo"

// UploadLogo handles PUT /api/companies/{id}/logo. The image is sent as the
// "logo" field of a multipart form.
func (h *DocumentsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Docs.Get(r.Context(), docstore.Companies, id); err != nil {
		writeDocError(w, "update", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxLogoSize+64<<10)
	if err := r.ParseMultipartForm(imaging.MaxLogoSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("logo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "logo file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read logo")
		return
	}

	logo, err := imaging.ProcessLogo(data)
	if errors.Is(err, imaging.ErrUnsupportedFormat) || errors.Is(err, imaging.ErrTooLarge) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to process logo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to process logo")
		return
	}

	err = h.Docs.SetAttachment(r.Context(), docstore.Companies, id, logoAttachment, logo.Data, logo.MIME)
	h.Metrics.ObserveDocumentOp(docstore.Companies, "set_logo", err)
	if err != nil {
		writeDocError(w, "update", err)
		return
	}

	slog.Info("company logo updated", "user", GetClaims(r.Context()).UserID, "company", id, "bytes", len(logo.Data))
	w.WriteHeader(http.StatusNoContent)
}

// GetLogo handles GET /api/companies/{id}/logo.
func (h *DocumentsHandler) GetLogo(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Docs.Attachment(r.Context(), docstore.Companies, r.PathValue("id"), logoAttachment)
	if errors.Is(err, docstore.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "no logo")
		return
	}
	if err != nil {
		slog.Error("failed to get logo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get logo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
