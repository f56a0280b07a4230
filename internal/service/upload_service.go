package service

import (
	"context"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const uploadServiceComponent = "upload_service"

const genericContentType = "application/octet-stream"

// UploadFileParams describes a file received from a client.
type UploadFileParams struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadService stores uploaded files.
type UploadService interface {
	// Upload writes the file to the blob store under a fresh key.
	Upload(ctx context.Context, params UploadFileParams) (*domain.UploadedFile, error)
}

type uploadServiceImpl struct {
	blobs  store.BlobStore
	opts   options
	logger *slog.Logger
}

// NewUploadService creates an UploadService. It returns an error if blobs
// is nil.
func NewUploadService(blobs store.BlobStore, logger *slog.Logger, opts ...Option) (UploadService, error) {
	if blobs == nil {
		return nil, &UploadServiceError{
			Operation: "create_service",
			Message:   "blob store cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &uploadServiceImpl{
		blobs:  blobs,
		opts:   buildOptions(opts),
		logger: logger.With("component", uploadServiceComponent),
	}, nil
}

// Upload implements UploadService.
func (s *uploadServiceImpl) Upload(ctx context.Context, params UploadFileParams) (*domain.UploadedFile, error) {
	log := logger.FromContextForComponent(ctx, s.logger, uploadServiceComponent)

	name := domain.SanitizeFilename(params.Filename)
	if name == "" {
		return nil, NewUploadServiceError("upload_file", "invalid file",
			domain.NewValidationError("file", "filename is required", domain.ErrEmptyFile))
	}
	if len(params.Data) == 0 {
		return nil, NewUploadServiceError("upload_file", "invalid file",
			domain.NewValidationError("file", "file is empty", domain.ErrEmptyFile))
	}

	contentType := params.ContentType
	if contentType == "" || contentType == genericContentType {
		contentType = mimetype.Detect(params.Data).String()
	}

	key := domain.UploadKey(name, s.opts.clock())
	location, err := s.blobs.Put(ctx, key, params.Data, contentType)
	if err != nil {
		log.Error("failed to store upload",
			"error", err,
			"key", key)
		return nil, NewUploadServiceError("upload_file", "failed to store file", err)
	}

	log.Info("file uploaded",
		"key", key,
		"size", len(params.Data),
		"content_type", contentType)

	return &domain.UploadedFile{
		Key:         key,
		URL:         location,
		Size:        len(params.Data),
		ContentType: contentType,
	}, nil
}
