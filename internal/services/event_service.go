package services

import (
	"context"
	"time"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type EventService interface {
	// Platform-admin management
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Deactivate(ctx context.Context, eventID string) error

	ListActive(page, pageSize int) ([]dto.EventResponse, dto.PageMeta, error)
	Get(eventID string) (*dto.EventResponse, error)

	// Register signs the user up while the registration window is open.
	// One registration per user per event.
	Register(ctx context.Context, userID, eventID string) (*dto.RegistrationResponse, error)
	ListRegistrations(eventID string) ([]dto.RegistrationResponse, error)
	ListMyRegistrations(userID string) ([]dto.RegistrationResponse, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
}

func NewEventService(eventRepo repositories.EventRepository, userRepo repositories.UserRepository) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if req.RegClosesAt.After(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("Registration must close before the event starts")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		BannerURL:   req.BannerURL,
		Venue:       req.Venue,
		IsOnline:    req.IsOnline,
		StartsAt:    req.StartsAt,
		RegClosesAt: req.RegClosesAt,
		IsActive:    true,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "event created", "event_id", event.ID)
	resp := dto.FromEvent(event)
	return &resp, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.findEvent(eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.BannerURL != nil {
		event.BannerURL = *req.BannerURL
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.RegClosesAt != nil {
		event.RegClosesAt = *req.RegClosesAt
	}
	if event.RegClosesAt.After(event.StartsAt) {
		return nil, apperrors.NewBadRequestError("Registration must close before the event starts")
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "event updated", "event_id", event.ID)
	resp := dto.FromEvent(event)
	return &resp, nil
}

func (s *eventService) Deactivate(ctx context.Context, eventID string) error {
	if err := s.eventRepo.Deactivate(eventID); err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return apperrors.ErrNotFound(err, "event")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "event deactivated", "event_id", eventID)
	return nil
}

func (s *eventService) ListActive(page, pageSize int) ([]dto.EventResponse, dto.PageMeta, error) {
	page, pageSize = dto.NormalizePage(page, pageSize)

	events, total, err := s.eventRepo.ListActive(page, pageSize)
	if err != nil {
		return nil, dto.PageMeta{}, apperrors.InternalError(err)
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, dto.FromEvent(&events[i]))
	}
	return resp, dto.PageMeta{Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *eventService) Get(eventID string) (*dto.EventResponse, error) {
	event, err := s.findEvent(eventID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromEvent(event)
	return &resp, nil
}

func (s *eventService) Register(ctx context.Context, userID, eventID string) (*dto.RegistrationResponse, error) {
	event, err := s.findEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.ErrInvalidState("event", "The event is no longer open")
	}
	if time.Now().After(event.RegClosesAt) {
		return nil, apperrors.ErrInvalidState("event", "Registration is closed for this event")
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user")
		}
		return nil, apperrors.InternalError(err)
	}

	reg := &models.EventRegistration{
		EventID:  event.ID,
		UserID:   user.ID,
		UserRole: user.Role,
		UserName: user.Name,
	}
	if err := s.eventRepo.Register(reg); err != nil {
		if apperrors.Is(err, repositories.ErrAlreadyRegistered) {
			return nil, apperrors.ErrAlreadyExists(err, "event")
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "event registration", "event_id", event.ID, "user_id", user.ID)
	resp := dto.FromRegistration(reg)
	return &resp, nil
}

func (s *eventService) ListRegistrations(eventID string) ([]dto.RegistrationResponse, error) {
	if _, err := s.findEvent(eventID); err != nil {
		return nil, err
	}
	regs, err := s.eventRepo.ListRegistrations(eventID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toRegistrationResponses(regs), nil
}

func (s *eventService) ListMyRegistrations(userID string) ([]dto.RegistrationResponse, error) {
	regs, err := s.eventRepo.ListRegistrationsByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toRegistrationResponses(regs), nil
}

func (s *eventService) findEvent(id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrNotFound(err, "event")
		}
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

func toRegistrationResponses(regs []models.EventRegistration) []dto.RegistrationResponse {
	resp := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		resp = append(resp, dto.FromRegistration(&regs[i]))
	}
	return resp
}
