package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type UploadResponse struct {
	ID           string    `json:"id"`
	FileType     string    `json:"file_type"`
	URL          string    `json:"url"`
	OriginalName string    `json:"original_name,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromUpload(u *models.Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		FileType:     u.FileType,
		URL:          u.URL,
		OriginalName: u.OriginalName,
		MimeType:     u.MimeType,
		Size:         u.Size,
		CreatedAt:    u.CreatedAt,
	}
}

type SavedCandidateResponse struct {
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name,omitempty"`
	EmployeeAvatar string    `json:"employee_avatar,omitempty"`
	SavedAt        time.Time `json:"saved_at"`
}

func FromSavedCandidate(s *models.SavedCandidate) SavedCandidateResponse {
	return SavedCandidateResponse{
		EmployeeID:     s.EmployeeID,
		EmployeeName:   s.EmployeeName,
		EmployeeAvatar: s.EmployeeAvatar,
		SavedAt:        s.CreatedAt,
	}
}
