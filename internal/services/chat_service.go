package services

import (
	"context"
	"fmt"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

// ChatBroadcaster pushes live events to a user's open websocket
// connections. A nil-safe no-op implementation is fine for tests.
type ChatBroadcaster interface {
	BroadcastToUser(userID string, event interface{})
}

type ChatService interface {
	// StartDialog opens the thread between an employer side and an
	// employee, or returns the existing one.
	StartDialog(ctx context.Context, callerID string, req *dto.StartDialogRequest) (*dto.DialogResponse, error)

	SendMessage(ctx context.Context, senderID, dialogID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListDialogs(userID string) ([]dto.DialogResponse, error)

	// ListMessages returns one page and marks the other side's messages as
	// read for the caller.
	ListMessages(callerID, dialogID string, page, pageSize int) ([]dto.MessageResponse, dto.PageMeta, error)
}

type chatService struct {
	chatRepo      repositories.ChatRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	broadcaster   ChatBroadcaster
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	broadcaster ChatBroadcaster,
) ChatService {
	return &chatService{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

func (s *chatService) StartDialog(ctx context.Context, callerID string, req *dto.StartDialogRequest) (*dto.DialogResponse, error) {
	caller, err := s.userRepo.FindByID(callerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	partner, err := s.userRepo.FindByID(req.PartnerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}

	employer, employee, err := splitDialogSides(caller, partner)
	if err != nil {
		return nil, err
	}

	dialog := &models.Dialog{
		EmployerID:     employer.ID,
		EmployeeID:     employee.ID,
		EmployerName:   employer.CompanyName,
		EmployeeName:   employee.Name,
		EmployerAvatar: employer.AvatarURL,
		EmployeeAvatar: employee.AvatarURL,
		JobID:          req.JobID,
	}
	if dialog.EmployerName == "" {
		dialog.EmployerName = employer.Name
	}

	dialog, err = s.chatRepo.FindOrCreateDialog(dialog)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "dialog opened", "dialog_id", dialog.ID)
	resp := dto.FromDialog(dialog, callerID, 0)
	return &resp, nil
}

func (s *chatService) SendMessage(ctx context.Context, senderID, dialogID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	dialog, err := s.participantDialog(senderID, dialogID)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		DialogID:      dialog.ID,
		SenderID:      senderID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.chatRepo.AppendMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	recipientID := dialog.EmployerID
	recipientRole := models.UserRoleEmployer
	senderName := dialog.EmployeeName
	if senderID == dialog.EmployerID {
		recipientID = dialog.EmployeeID
		recipientRole = models.UserRoleEmployee
		senderName = dialog.EmployerName
	}

	resp := dto.FromChatMessage(message)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToUser(recipientID, resp)
	}

	go func() {
		err := s.notifications.Notify(context.Background(), NotifyInput{
			UserID:    recipientID,
			Role:      recipientRole,
			Type:      repositories.NotificationTypeNewMessage,
			Title:     "New message",
			Subtitle:  fmt.Sprintf("New message from %s", senderName),
			RelatedID: dialog.ID,
		})
		if err != nil {
			logger.Error("failed to notify about chat message", "error", err.Error(), "dialog_id", dialog.ID)
		}
	}()

	return &resp, nil
}

func (s *chatService) ListDialogs(userID string) ([]dto.DialogResponse, error) {
	dialogs, err := s.chatRepo.ListDialogsByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.DialogResponse, 0, len(dialogs))
	for i := range dialogs {
		unread, err := s.chatRepo.UnreadCount(dialogs[i].ID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		resp = append(resp, dto.FromDialog(&dialogs[i], userID, unread))
	}
	return resp, nil
}

func (s *chatService) ListMessages(callerID, dialogID string, page, pageSize int) ([]dto.MessageResponse, dto.PageMeta, error) {
	if _, err := s.participantDialog(callerID, dialogID); err != nil {
		return nil, dto.PageMeta{}, err
	}
	page, pageSize = dto.NormalizePage(page, pageSize)

	messages, total, err := s.chatRepo.ListMessages(dialogID, page, pageSize)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}

	// Opening the thread reads the partner's messages.
	if err := s.chatRepo.MarkMessagesRead(dialogID, callerID); err != nil {
		logger.Warn("failed to mark chat messages read", "dialog_id", dialogID, "error", err.Error())
	}

	resp := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, dto.FromChatMessage(&messages[i]))
	}
	return resp, dto.PageMeta{Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *chatService) participantDialog(userID, dialogID string) (*models.Dialog, error) {
	dialog, err := s.chatRepo.FindDialogByID(dialogID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDialogNotFound) {
			return nil, apperrors.ErrNotFound(err, "dialog")
		}
		return nil, apperrors.InternalError(err)
	}
	if dialog.EmployerID != userID && dialog.EmployeeID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return dialog, nil
}

// splitDialogSides assigns the two accounts to the employer/employee sides
// of the thread. Delegated employer admins chat on behalf of their employer.
func splitDialogSides(a, b *models.User) (employer, employee *models.User, err error) {
	side := func(u *models.User) models.UserRole {
		if u.Role == models.UserRoleEmployerAdmin {
			return models.UserRoleEmployer
		}
		return u.Role
	}

	switch {
	case side(a) == models.UserRoleEmployer && side(b) == models.UserRoleEmployee:
		return a, b, nil
	case side(a) == models.UserRoleEmployee && side(b) == models.UserRoleEmployer:
		return b, a, nil
	default:
		return nil, nil, apperrors.ErrInvalidState("chat", "A dialog connects an employer with an employee")
	}
}
