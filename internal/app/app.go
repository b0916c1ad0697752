package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"workhub_backend/database"
	"workhub_backend/internal/auth"
	"workhub_backend/internal/config"
	"workhub_backend/internal/email"
	"workhub_backend/internal/handlers"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/payments"
	"workhub_backend/internal/push"
	"workhub_backend/internal/routes"
	"workhub_backend/internal/services"
	"workhub_backend/internal/storage"
	"workhub_backend/internal/validator"
	"workhub_backend/internal/workers"
	"workhub_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	router, container := SetupRouter(cfg, gormDB)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	startWorkers(ctx, cfg, gormDB, container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles the full dependency graph and returns the ready
// gin engine plus the service container for the background workers.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var pushClient push.Client
	if cfg.Push.ServerKey != "" {
		pushClient = push.NewHTTPClient(push.Config{
			Endpoint:  cfg.Push.Endpoint,
			ServerKey: cfg.Push.ServerKey,
		})
	} else {
		logger.Warn("Push server key not configured, push delivery disabled")
		pushClient = push.NewNoopClient()
	}

	mailer := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})

	gateway := payments.NewSignedGateway(payments.Config{
		MerchantLogin: cfg.Payments.MerchantLogin,
		Password1:     cfg.Payments.Password1,
		Password2:     cfg.Payments.Password2,
		BaseURL:       cfg.Payments.BaseURL,
		Currency:      cfg.Payments.Currency,
	})

	wsManager := ws.NewManager()
	go wsManager.Run()

	repos := services.NewRepositories(gormDB)
	container := services.NewServiceContainer(repos, services.Dependencies{
		Mailer:      mailer,
		PushClient:  pushClient,
		Gateway:     gateway,
		Storage:     storageInstance,
		Google:      auth.NewGoogleVerifier(cfg.Google.ClientID),
		Broadcaster: wsManager,
	})

	appHandlers := handlers.NewAppHandlers(container, validator.New())
	wsHandler := ws.NewHandler(wsManager, container.ChatService)

	router := initializeGinRouter(gormDB)
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	// Local storage serves uploads straight from disk; object storage
	// returns absolute URLs instead.
	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	return router, container
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func startWorkers(ctx context.Context, cfg *config.Config, db *gorm.DB, container *services.ServiceContainer) {
	repos := services.NewRepositories(db)

	subscriptionWorker := workers.NewSubscriptionWorker(
		repos.Subscriptions,
		repos.Users,
		container.NotificationService,
		cfg.Workers.SweepHour,
	)
	go subscriptionWorker.Start(ctx)

	reminderWorker := workers.NewReminderWorker(
		repos.Applications,
		repos.Jobs,
		repos.Events,
		repos.Subscriptions,
		repos.Notifications,
		container.NotificationService,
		cfg.Workers.SweepHour,
	)
	go reminderWorker.Start(ctx)

	logger.Info("Background workers started", "sweep_hour", cfg.Workers.SweepHour)
}

// seedFirstAdmin creates the platform admin account on first boot when
// FIRST_ADMIN_EMAIL and FIRST_ADMIN_PASSWORD are set.
func seedFirstAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("FIRST_ADMIN_EMAIL")
	adminPassword := os.Getenv("FIRST_ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Platform Admin",
		Role:         models.UserRoleAdmin,
		Status:       models.VerificationVerified,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
