package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

const (
	uploadHandlerComponent = "upload_handler"

	// UploadFormField is the multipart field holding the file.
	UploadFormField = "file"

	// multipartOverhead is allowed on top of the file size for boundaries
	// and part headers.
	multipartOverhead = 1 << 20

	multipartMemory = 32 << 20
)

// UploadHandler handles POST /tasks/upload.
type UploadHandler struct {
	uploads  service.UploadService
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler accepting files of at most
// maxBytes.
func NewUploadHandler(uploads service.UploadService, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if uploads == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("upload service cannot be nil for UploadHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UploadHandler")
	}
	if maxBytes <= 0 {
		// ALLOW-PANIC: Constructor enforcing required configuration
		panic("maxBytes must be positive for UploadHandler")
	}

	return &UploadHandler{
		uploads:  uploads,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", uploadHandlerComponent)),
	}
}

// UploadFile handles POST /tasks/upload. The file is read from the "file"
// multipart field.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextForComponent(r.Context(), h.logger, uploadHandlerComponent)
	limit := h.maxBytes + multipartOverhead

	if r.ContentLength > limit {
		h.respondTooLarge(w, r, fmt.Errorf("content length %d exceeds %d", r.ContentLength, limit))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondTooLarge(w, r, err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(UploadFormField)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "No file uploaded", err)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.maxBytes {
		h.respondTooLarge(w, r, fmt.Errorf("file size %d exceeds %d", header.Size, h.maxBytes))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to upload file", err)
		return
	}

	uploaded, err := h.uploads.Upload(r.Context(), service.UploadFileParams{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "", "Failed to upload file")
		return
	}

	log.Debug("upload stored", slog.String("key", uploaded.Key))
	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{
		Message: "File uploaded successfully",
		FileURL: uploaded.URL,
	})
}

func (h *UploadHandler) respondTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("File too large. Maximum size is %d bytes", h.maxBytes), err,
		shared.WithElevatedLogLevel())
}
