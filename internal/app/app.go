package app

import (
	"fmt"

	"roomly_backend/database"
	"roomly_backend/internal/config"
	"roomly_backend/internal/emailcheck"
	"roomly_backend/internal/handlers"
	"roomly_backend/internal/logger"
	"roomly_backend/internal/middleware"
	"roomly_backend/internal/pkg/email"
	"roomly_backend/internal/repositories"
	"roomly_backend/internal/routes"
	"roomly_backend/internal/services"
	"roomly_backend/internal/validator"
	"roomly_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		// TranslateError нужен, чтобы конфликт уникальности email приходил
		// как gorm.ErrDuplicatedKey, а не как сырой код драйвера
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновая чистка истекших записей сброса пароля
	cleanupWorker := workers.NewResetCleanupWorker(gormDB, repositories.NewPasswordResetRepository())
	go cleanupWorker.Run()
	defer cleanupWorker.Stop()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured. Using MOCK email provider.")
		emailService = &MockEmailProvider{}
	} else {
		var err error
		emailService, err = email.NewSMTPSender(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			BaseURL:   cfg.App.BaseURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", "error", err)
		}
	}

	// В dev проверка MX-записей только мешает локальным адресам
	var emailChecker emailcheck.Checker
	if cfg.IsDevelopment() {
		emailChecker = emailcheck.AllowAll{}
	} else {
		emailChecker = emailcheck.NewMXChecker()
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	verificationRepo := repositories.NewEmailVerificationRepository()
	resetRepo := repositories.NewPasswordResetRepository()

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(
		userRepo,
		verificationRepo,
		resetRepo,
		emailService,
		emailChecker,
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
	)
	userService := services.NewUserService(userRepo)

	return &services.ServiceContainer{
		AuthService:  authService,
		UserService:  userService,
		EmailService: emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler: handlers.NewUserHandler(baseHandler, services.UserService, services.AuthService),
	}
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
