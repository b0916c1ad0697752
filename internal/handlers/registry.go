package handlers

import (
	"workhub_backend/internal/services"
	"workhub_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	UserHandler           *UserHandler
	PlanHandler           *PlanHandler
	SubscriptionHandler   *SubscriptionHandler
	JobHandler            *JobHandler
	ApplicationHandler    *ApplicationHandler
	NotificationHandler   *NotificationHandler
	ChatHandler           *ChatHandler
	HelpDeskHandler       *HelpDeskHandler
	SavedCandidateHandler *SavedCandidateHandler
	CalendarHandler       *CalendarHandler
	EventHandler          *EventHandler
	UploadHandler         *UploadHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:           NewAuthHandler(base, container.AuthService),
		UserHandler:           NewUserHandler(base, container.UserService),
		PlanHandler:           NewPlanHandler(base, container.PlanService),
		SubscriptionHandler:   NewSubscriptionHandler(base, container.EntitlementService),
		JobHandler:            NewJobHandler(base, container.JobService),
		ApplicationHandler:    NewApplicationHandler(base, container.ApplicationService),
		NotificationHandler:   NewNotificationHandler(base, container.NotificationService),
		ChatHandler:           NewChatHandler(base, container.ChatService),
		HelpDeskHandler:       NewHelpDeskHandler(base, container.HelpDeskService),
		SavedCandidateHandler: NewSavedCandidateHandler(base, container.SavedCandidateService),
		CalendarHandler:       NewCalendarHandler(base, container.CalendarService),
		EventHandler:          NewEventHandler(base, container.EventService),
		UploadHandler:         NewUploadHandler(base, container.UploadService),
	}
}
