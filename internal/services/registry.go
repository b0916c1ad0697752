package services

import (
	"workhub_backend/internal/auth"
	"workhub_backend/internal/email"
	"workhub_backend/internal/payments"
	"workhub_backend/internal/push"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/storage"

	"gorm.io/gorm"
)

// ServiceContainer wires every service of the application.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	PlanService           PlanService
	EntitlementService    EntitlementService
	JobService            JobService
	ApplicationService    ApplicationService
	NotificationService   NotificationService
	ChatService           ChatService
	HelpDeskService       HelpDeskService
	SavedCandidateService SavedCandidateService
	CalendarService       CalendarService
	EventService          EventService
	UploadService         UploadService
}

// Repositories bundles the data layer for the container.
type Repositories struct {
	Users          repositories.UserRepository
	RefreshTokens  repositories.RefreshTokenRepository
	Plans          repositories.PlanRepository
	Subscriptions  repositories.SubscriptionRepository
	Jobs           repositories.JobRepository
	Applications   repositories.ApplicationRepository
	Notifications  repositories.NotificationRepository
	Chats          repositories.ChatRepository
	HelpDesk       repositories.HelpDeskRepository
	SavedCandidate repositories.SavedCandidateRepository
	Calendar       repositories.CalendarRepository
	Events         repositories.EventRepository
	Uploads        repositories.UploadRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:          repositories.NewUserRepository(db),
		RefreshTokens:  repositories.NewRefreshTokenRepository(db),
		Plans:          repositories.NewPlanRepository(db),
		Subscriptions:  repositories.NewSubscriptionRepository(db),
		Jobs:           repositories.NewJobRepository(db),
		Applications:   repositories.NewApplicationRepository(db),
		Notifications:  repositories.NewNotificationRepository(db),
		Chats:          repositories.NewChatRepository(db),
		HelpDesk:       repositories.NewHelpDeskRepository(db),
		SavedCandidate: repositories.NewSavedCandidateRepository(db),
		Calendar:       repositories.NewCalendarRepository(db),
		Events:         repositories.NewEventRepository(db),
		Uploads:        repositories.NewUploadRepository(db),
	}
}

// Dependencies are the external collaborators injected into services.
type Dependencies struct {
	Mailer      email.Provider
	PushClient  push.Client
	Gateway     payments.Gateway
	Storage     storage.Storage
	Google      *auth.GoogleVerifier
	Broadcaster ChatBroadcaster
}

func NewServiceContainer(repos *Repositories, deps Dependencies) *ServiceContainer {
	notifications := NewNotificationService(repos.Notifications, repos.Users, deps.PushClient)

	return &ServiceContainer{
		AuthService:           NewAuthService(repos.Users, repos.RefreshTokens, deps.Mailer, deps.Google),
		UserService:           NewUserService(repos.Users, deps.Mailer),
		PlanService:           NewPlanService(repos.Plans),
		EntitlementService:    NewEntitlementService(repos.Subscriptions, repos.Plans, repos.Users, deps.Gateway, notifications),
		JobService:            NewJobService(repos.Jobs, repos.Users),
		ApplicationService:    NewApplicationService(repos.Applications, repos.Jobs, repos.Users, notifications),
		NotificationService:   notifications,
		ChatService:           NewChatService(repos.Chats, repos.Users, notifications, deps.Broadcaster),
		HelpDeskService:       NewHelpDeskService(repos.HelpDesk, repos.Users, notifications),
		SavedCandidateService: NewSavedCandidateService(repos.SavedCandidate, repos.Users),
		CalendarService:       NewCalendarService(repos.Calendar),
		EventService:          NewEventService(repos.Events, repos.Users),
		UploadService:         NewUploadService(repos.Uploads, deps.Storage),
	}
}
