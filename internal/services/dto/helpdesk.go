package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type CreateHelpSessionRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type HelpMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type HelpSessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserRole  string    `json:"user_role"`
	UserName  string    `json:"user_name,omitempty"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	AdminID   *string   `json:"admin_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromHelpSession(s *models.HelpSession) HelpSessionResponse {
	return HelpSessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		UserRole:  string(s.UserRole),
		UserName:  s.UserName,
		Subject:   s.Subject,
		Status:    string(s.Status),
		AdminID:   s.AdminID,
		CreatedAt: s.CreatedAt,
	}
}

type HelpMessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	SenderID  string    `json:"sender_id"`
	FromAdmin bool      `json:"from_admin"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func FromHelpMessage(m *models.HelpMessage) HelpMessageResponse {
	return HelpMessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		SenderID:  m.SenderID,
		FromAdmin: m.FromAdmin,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
