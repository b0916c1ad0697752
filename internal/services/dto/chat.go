package dto

import (
	"time"

	"workhub_backend/internal/models"
)

// StartDialogRequest opens (or returns) the thread between the caller and
// the partner. JobID optionally records which posting started it.
type StartDialogRequest struct {
	PartnerID string  `json:"partner_id" validate:"required"`
	JobID     *string `json:"job_id"`
}

type SendMessageRequest struct {
	Content       string `json:"content" validate:"required_without=AttachmentURL"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

type DialogResponse struct {
	ID            string     `json:"id"`
	PartnerID     string     `json:"partner_id"`
	PartnerName   string     `json:"partner_name"`
	PartnerAvatar string     `json:"partner_avatar,omitempty"`
	JobID         *string    `json:"job_id,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`
}

// FromDialog renders the thread from the viewer's side.
func FromDialog(d *models.Dialog, viewerID string, unread int64) DialogResponse {
	resp := DialogResponse{
		ID:            d.ID,
		JobID:         d.JobID,
		LastMessageAt: d.LastMessageAt,
		UnreadCount:   unread,
	}
	if d.EmployerID == viewerID {
		resp.PartnerID = d.EmployeeID
		resp.PartnerName = d.EmployeeName
		resp.PartnerAvatar = d.EmployeeAvatar
	} else {
		resp.PartnerID = d.EmployerID
		resp.PartnerName = d.EmployerName
		resp.PartnerAvatar = d.EmployerAvatar
	}
	return resp
}

type MessageResponse struct {
	ID            string    `json:"id"`
	DialogID      string    `json:"dialog_id"`
	SenderID      string    `json:"sender_id"`
	Content       string    `json:"content,omitempty"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromChatMessage(m *models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:            m.ID,
		DialogID:      m.DialogID,
		SenderID:      m.SenderID,
		Content:       m.Content,
		AttachmentURL: m.AttachmentURL,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt,
	}
}
