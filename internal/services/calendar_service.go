package services

import (
	"time"

	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type CalendarService interface {
	Create(userID string, req *dto.CalendarEventRequest) (*dto.CalendarEventResponse, error)
	ListBetween(userID string, from, to time.Time) ([]dto.CalendarEventResponse, error)
	Update(userID, eventID string, req *dto.CalendarEventRequest) (*dto.CalendarEventResponse, error)
	Delete(userID, eventID string) error
}

type calendarService struct {
	calendarRepo repositories.CalendarRepository
}

func NewCalendarService(calendarRepo repositories.CalendarRepository) CalendarService {
	return &calendarService{calendarRepo: calendarRepo}
}

func (s *calendarService) Create(userID string, req *dto.CalendarEventRequest) (*dto.CalendarEventResponse, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("The event cannot end before it starts")
	}

	event := &models.CalendarEvent{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		RelatedID:   req.RelatedID,
	}
	if err := s.calendarRepo.Create(event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromCalendarEvent(event)
	return &resp, nil
}

func (s *calendarService) ListBetween(userID string, from, to time.Time) ([]dto.CalendarEventResponse, error) {
	if to.Before(from) {
		return nil, apperrors.NewBadRequestError("Invalid date range")
	}

	events, err := s.calendarRepo.ListByUserBetween(userID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, dto.FromCalendarEvent(&events[i]))
	}
	return resp, nil
}

func (s *calendarService) Update(userID, eventID string, req *dto.CalendarEventRequest) (*dto.CalendarEventResponse, error) {
	event, err := s.ownedEvent(userID, eventID)
	if err != nil {
		return nil, err
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperrors.NewBadRequestError("The event cannot end before it starts")
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt
	event.RelatedID = req.RelatedID

	if err := s.calendarRepo.Update(event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.FromCalendarEvent(event)
	return &resp, nil
}

func (s *calendarService) Delete(userID, eventID string) error {
	if err := s.calendarRepo.Delete(eventID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrCalendarEventNotFound) {
			return apperrors.ErrNotFound(err, "calendar")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *calendarService) ownedEvent(userID, eventID string) (*models.CalendarEvent, error) {
	event, err := s.calendarRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCalendarEventNotFound) {
			return nil, apperrors.ErrNotFound(err, "calendar")
		}
		return nil, apperrors.InternalError(err)
	}
	if event.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return event, nil
}
