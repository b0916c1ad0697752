package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"workhub_backend/internal/config"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/internal/storage"
	"workhub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// fileTypeFolders maps the upload discriminator to its storage folder.
var fileTypeFolders = map[string]string{
	"resume":          "resumes",
	"avatar":          "avatars",
	"company_logo":    "logos",
	"chat_attachment": "chat",
	"event_banner":    "events",
}

type UploadInput struct {
	FileType     string
	OriginalName string
	MimeType     string
	Size         int64
	Reader       io.Reader
}

type UploadService interface {
	Upload(ctx context.Context, userID string, input UploadInput) (*dto.UploadResponse, error)
	Delete(ctx context.Context, userID, uploadID string) error
	ListMine(userID string) ([]dto.UploadResponse, error)
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	store      storage.Storage
}

func NewUploadService(uploadRepo repositories.UploadRepository, store storage.Storage) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		store:      store,
	}
}

func (s *uploadService) Upload(ctx context.Context, userID string, input UploadInput) (*dto.UploadResponse, error) {
	folder, ok := fileTypeFolders[input.FileType]
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Unknown file type %q", input.FileType))
	}

	cfg := config.GetConfig()
	if input.Size > cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !mimeAllowed(input.MimeType, cfg.Upload.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	path := fmt.Sprintf("%s/%s/%s%s", folder, userID, uuid.NewString(), filepath.Ext(input.OriginalName))
	if err := s.store.Save(ctx, path, input.Reader, input.MimeType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.Upload{
		UserID:          userID,
		FileType:        input.FileType,
		Path:            path,
		URL:             url,
		OriginalName:    input.OriginalName,
		MimeType:        input.MimeType,
		Size:            input.Size,
		StorageProvider: cfg.Storage.Type,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		// Keep the store and the bookkeeping consistent.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.CtxWithError(ctx, "failed to clean up orphaned object", delErr, "path", path)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "file uploaded", "upload_id", upload.ID, "file_type", input.FileType, "size", input.Size)
	resp := dto.FromUpload(upload)
	return &resp, nil
}

func (s *uploadService) Delete(ctx context.Context, userID, uploadID string) error {
	upload, err := s.uploadRepo.FindByID(uploadID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUploadNotFound) {
			return apperrors.ErrNotFound(err, "upload")
		}
		return apperrors.InternalError(err)
	}
	if upload.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.store.Delete(ctx, upload.Path); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.uploadRepo.Delete(uploadID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *uploadService) ListMine(userID string) ([]dto.UploadResponse, error) {
	uploads, err := s.uploadRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.UploadResponse, 0, len(uploads))
	for i := range uploads {
		resp = append(resp, dto.FromUpload(&uploads[i]))
	}
	return resp, nil
}

func mimeAllowed(mime string, allowed []string) bool {
	for _, a := range allowed {
		if a == mime {
			return true
		}
	}
	return false
}
