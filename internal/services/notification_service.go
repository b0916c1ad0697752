package services

import (
	"context"
	"encoding/json"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/push"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// NotifyInput is one notification to dispatch: a persistent in-app record
// plus a best-effort push fan-out to the recipient's devices.
type NotifyInput struct {
	UserID    string
	Role      models.UserRole
	Type      string
	Title     string
	Subtitle  string
	RelatedID string
	Data      map[string]any
}

type NotificationService interface {
	// Notify persists the notification and fans it out to the recipient's
	// push tokens. Push failures never fail the call; tokens the gateway
	// reports as invalid are pruned from the account.
	Notify(ctx context.Context, input NotifyInput) error

	List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	UnreadCount(userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pushClient       push.Client
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	pushClient push.Client,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pushClient:       pushClient,
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotifyInput) error {
	notification := &models.Notification{
		UserID:    input.UserID,
		UserRole:  input.Role,
		Type:      input.Type,
		Title:     input.Title,
		Subtitle:  input.Subtitle,
		RelatedID: input.RelatedID,
	}

	if input.Data != nil {
		raw, err := json.Marshal(input.Data)
		if err != nil {
			return apperrors.InternalError(err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}

	s.fanOut(ctx, input)
	return nil
}

// fanOut delivers the push copies and prunes invalid tokens. Best-effort
// only: every failure is logged and swallowed.
func (s *notificationService) fanOut(ctx context.Context, input NotifyInput) {
	if !s.pushClient.Enabled() {
		return
	}

	tokens, err := s.userRepo.GetPushTokens(input.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to load push tokens", err, "user_id", input.UserID)
		return
	}
	if len(tokens) == 0 {
		return
	}

	results := s.pushClient.Send(ctx, tokens, push.Payload{
		Title:     input.Title,
		Body:      input.Subtitle,
		Data:      input.Data,
		RelatedID: input.RelatedID,
	})

	invalid := make(map[string]bool)
	for _, res := range results {
		if res.InvalidToken {
			invalid[res.Token] = true
			continue
		}
		if res.Err != nil {
			logger.CtxWithError(ctx, "push delivery failed", res.Err, "user_id", input.UserID)
		}
	}
	if len(invalid) == 0 {
		return
	}

	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !invalid[t] {
			kept = append(kept, t)
		}
	}
	if err := s.userRepo.SetPushTokens(input.UserID, kept); err != nil {
		logger.CtxWithError(ctx, "failed to prune invalid push tokens", err, "user_id", input.UserID)
		return
	}
	logger.CtxInfo(ctx, "pruned invalid push tokens", "user_id", input.UserID, "pruned", len(invalid))
}

func (s *notificationService) List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	criteria.Page, criteria.PageSize = dto.NormalizePage(criteria.Page, criteria.PageSize)

	notifications, total, err := s.notificationRepo.ListByUser(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
		Meta: dto.PageMeta{
			Page:     criteria.Page,
			PageSize: criteria.PageSize,
			Total:    total,
		},
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.FromNotification(&notifications[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err, "notification")
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.notificationRepo.MarkRead(notificationID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}
