package services

import (
	"context"
	"strings"
	"testing"

	"workhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadInput(fileType, name, mime string, size int64) UploadInput {
	return UploadInput{
		FileType:     fileType,
		OriginalName: name,
		MimeType:     mime,
		Size:         size,
		Reader:       strings.NewReader("file-bytes"),
	}
}

func TestUpload_StoresFileAndRecord(t *testing.T) {
	repo := newFakeUploadRepo()
	store := newFakeStorage()
	svc := NewUploadService(repo, store)

	resp, err := svc.Upload(context.Background(), "usr-1", uploadInput("resume", "cv.pdf", "application/pdf", 2048))
	require.NoError(t, err)

	path := strings.TrimPrefix(resp.URL, "https://files.example.com/")
	assert.True(t, strings.HasPrefix(path, "resumes/usr-1/"))
	assert.True(t, strings.HasSuffix(path, ".pdf"), "the original extension survives the rename")

	store.mu.Lock()
	_, stored := store.saved[path]
	store.mu.Unlock()
	assert.True(t, stored)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(newFakeUploadRepo(), newFakeStorage())

	_, err := svc.Upload(context.Background(), "usr-1", uploadInput("resume", "cv.pdf", "application/pdf", 100<<20))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestUpload_RejectsDisallowedMimeType(t *testing.T) {
	svc := NewUploadService(newFakeUploadRepo(), newFakeStorage())

	_, err := svc.Upload(context.Background(), "usr-1", uploadInput("resume", "cv.exe", "application/x-msdownload", 1024))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestUpload_RejectsUnknownFileType(t *testing.T) {
	svc := NewUploadService(newFakeUploadRepo(), newFakeStorage())

	_, err := svc.Upload(context.Background(), "usr-1", uploadInput("mystery", "x.pdf", "application/pdf", 1024))
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestDeleteUpload_OwnerOnly(t *testing.T) {
	repo := newFakeUploadRepo()
	store := newFakeStorage()
	svc := NewUploadService(repo, store)

	resp, err := svc.Upload(context.Background(), "usr-1", uploadInput("avatar", "me.png", "image/png", 512))
	require.NoError(t, err)
	path := strings.TrimPrefix(resp.URL, "https://files.example.com/")

	err = svc.Delete(context.Background(), "someone-else", resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	require.NoError(t, svc.Delete(context.Background(), "usr-1", resp.ID))
	_, err = repo.FindByID(resp.ID)
	assert.Error(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.deleted, path)
}
