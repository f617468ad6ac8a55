package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hanhanxue/260110-personal-budget/internal/api/middleware"
	"github.com/hanhanxue/260110-personal-budget/internal/receipts"
)

// Uploader stores a receipt photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// UploadHandler serves POST /api/upload.
type UploadHandler struct {
	uploader Uploader
	log      zerolog.Logger
}

// NewUploadHandler creates a new receipt upload handler.
func NewUploadHandler(uploader Uploader, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, log: log}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(receipts.MaxUploadSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > receipts.MaxUploadSize {
		middleware.WriteError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB")
		return
	}

	url, err := h.uploader.Upload(r.Context(), header.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, receipts.ErrInvalidType):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, receipts.ErrNotConfigured):
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		default:
			h.log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload receipt")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		}
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]string{"url": url})
}
