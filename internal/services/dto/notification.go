package dto

import (
	"encoding/json"
	"time"

	"workhub_backend/internal/models"
)

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	RelatedID string         `json:"related_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func FromNotification(n *models.Notification) NotificationResponse {
	var data map[string]any
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &data)
	}
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Subtitle:  n.Subtitle,
		RelatedID: n.RelatedID,
		Data:      data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Meta          PageMeta               `json:"meta"`
}
