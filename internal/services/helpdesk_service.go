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

type HelpDeskService interface {
	CreateSession(ctx context.Context, userID string, req *dto.CreateHelpSessionRequest) (*dto.HelpSessionResponse, error)
	ListMine(userID string) ([]dto.HelpSessionResponse, error)
	ListByStatus(status models.HelpSessionStatus) ([]dto.HelpSessionResponse, error)

	// ClaimSession assigns an open session to the admin; only one admin can
	// win the claim.
	ClaimSession(ctx context.Context, adminID, sessionID string) error
	ResolveSession(ctx context.Context, adminID, sessionID string) error

	SendMessage(ctx context.Context, senderID, sessionID string, fromAdmin bool, req *dto.HelpMessageRequest) (*dto.HelpMessageResponse, error)
	ListMessages(callerID, sessionID string, isAdmin bool) ([]dto.HelpMessageResponse, error)
}

type helpDeskService struct {
	helpRepo      repositories.HelpDeskRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewHelpDeskService(
	helpRepo repositories.HelpDeskRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) HelpDeskService {
	return &helpDeskService{
		helpRepo:      helpRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *helpDeskService) CreateSession(ctx context.Context, userID string, req *dto.CreateHelpSessionRequest) (*dto.HelpSessionResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}

	session := &models.HelpSession{
		UserID:   user.ID,
		UserRole: user.Role,
		UserName: user.Name,
		Subject:  req.Subject,
		Status:   models.HelpSessionOpen,
	}
	if err := s.helpRepo.CreateSession(session); err != nil {
		return nil, apperrors.InternalError(err)
	}

	message := &models.HelpMessage{
		SessionID: session.ID,
		SenderID:  user.ID,
		Content:   req.Message,
	}
	if err := s.helpRepo.AppendMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "help session opened", "session_id", session.ID, "user_id", user.ID)
	resp := dto.FromHelpSession(session)
	return &resp, nil
}

func (s *helpDeskService) ListMine(userID string) ([]dto.HelpSessionResponse, error) {
	sessions, err := s.helpRepo.ListSessionsByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toHelpSessionResponses(sessions), nil
}

func (s *helpDeskService) ListByStatus(status models.HelpSessionStatus) ([]dto.HelpSessionResponse, error) {
	sessions, err := s.helpRepo.ListSessionsByStatus(status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toHelpSessionResponses(sessions), nil
}

func (s *helpDeskService) ClaimSession(ctx context.Context, adminID, sessionID string) error {
	if _, err := s.findSession(sessionID); err != nil {
		return err
	}
	if err := s.helpRepo.ClaimSession(sessionID, adminID); err != nil {
		if apperrors.Is(err, repositories.ErrHelpSessionNotFound) {
			return apperrors.ErrInvalidState("helpdesk", "The session is no longer open")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "help session claimed", "session_id", sessionID, "admin_id", adminID)
	return nil
}

func (s *helpDeskService) ResolveSession(ctx context.Context, adminID, sessionID string) error {
	session, err := s.findSession(sessionID)
	if err != nil {
		return err
	}
	if session.AdminID == nil || *session.AdminID != adminID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.helpRepo.SetSessionStatus(sessionID, models.HelpSessionResolved); err != nil {
		return apperrors.InternalError(err)
	}

	go func() {
		err := s.notifications.Notify(context.Background(), NotifyInput{
			UserID:    session.UserID,
			Role:      session.UserRole,
			Type:      repositories.NotificationTypeHelpDesk,
			Title:     "Support request resolved",
			Subtitle:  fmt.Sprintf("Your request %q has been resolved", session.Subject),
			RelatedID: session.ID,
		})
		if err != nil {
			logger.Error("failed to notify about resolved help session", "error", err.Error(), "session_id", session.ID)
		}
	}()

	logger.CtxInfo(ctx, "help session resolved", "session_id", sessionID)
	return nil
}

func (s *helpDeskService) SendMessage(ctx context.Context, senderID, sessionID string, fromAdmin bool, req *dto.HelpMessageRequest) (*dto.HelpMessageResponse, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.HelpSessionResolved {
		return nil, apperrors.ErrInvalidState("helpdesk", "The session is already resolved")
	}
	if !fromAdmin && session.UserID != senderID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	message := &models.HelpMessage{
		SessionID: session.ID,
		SenderID:  senderID,
		FromAdmin: fromAdmin,
		Content:   req.Content,
	}
	if err := s.helpRepo.AppendMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// An admin reply pings the requester.
	if fromAdmin {
		go func() {
			err := s.notifications.Notify(context.Background(), NotifyInput{
				UserID:    session.UserID,
				Role:      session.UserRole,
				Type:      repositories.NotificationTypeHelpDesk,
				Title:     "Support reply",
				Subtitle:  fmt.Sprintf("New reply on %q", session.Subject),
				RelatedID: session.ID,
			})
			if err != nil {
				logger.Error("failed to notify about help desk reply", "error", err.Error(), "session_id", session.ID)
			}
		}()
	}

	resp := dto.FromHelpMessage(message)
	return &resp, nil
}

func (s *helpDeskService) ListMessages(callerID, sessionID string, isAdmin bool) ([]dto.HelpMessageResponse, error) {
	session, err := s.findSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && session.UserID != callerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	messages, err := s.helpRepo.ListMessages(sessionID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.HelpMessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, dto.FromHelpMessage(&messages[i]))
	}
	return resp, nil
}

func (s *helpDeskService) findSession(id string) (*models.HelpSession, error) {
	session, err := s.helpRepo.FindSessionByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrHelpSessionNotFound) {
			return nil, apperrors.ErrNotFound(err, "helpdesk")
		}
		return nil, apperrors.InternalError(err)
	}
	return session, nil
}

func toHelpSessionResponses(sessions []models.HelpSession) []dto.HelpSessionResponse {
	resp := make([]dto.HelpSessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, dto.FromHelpSession(&sessions[i]))
	}
	return resp
}
