package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/cache"
	"github.com/campuskit/feedback-api/internal/config"
	"github.com/campuskit/feedback-api/internal/database"
	"github.com/campuskit/feedback-api/internal/handler"
	"github.com/campuskit/feedback-api/internal/ident"
	"github.com/campuskit/feedback-api/internal/middleware"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
	"github.com/campuskit/feedback-api/internal/router"
	"github.com/campuskit/feedback-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Question{},
		&models.Survey{},
		&models.Feedback{},
		&models.Session{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	cacheStore := cache.New(redisClient, cfg.CacheTTL, logger)
	ids := ident.New()
	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	sessionService := service.NewSessionService(sessionRepo, logger)
	userService := service.NewUserService(userRepo, cacheStore, ids, validate, logger)
	authService := service.NewAuthService(userRepo, sessionService, cacheStore, ids, validate, cfg.JWTSecret, service.BootstrapAdmin{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, logger)
	departmentService := service.NewDepartmentService(departmentRepo, cacheStore, ids, validate, logger)
	questionService := service.NewQuestionService(questionRepo, cacheStore, ids, validate, logger)
	surveyService := service.NewSurveyService(surveyRepo, departmentRepo, questionRepo, cacheStore, ids, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, surveyRepo, departmentRepo, userRepo, cacheStore, ids, validate, logger)
	reportService := service.NewReportService(feedbackRepo, surveyRepo, departmentRepo, logger)
	maintenanceService := service.NewMaintenanceService(departmentService, questionService, userRepo, surveyRepo, feedbackRepo, cacheStore, logger)

	authHandler := handler.NewAuthHandler(authService, userService, sessionService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	departmentHandler := handler.NewDepartmentHandler(departmentService, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	surveyHandler := handler.NewSurveyHandler(surveyService, userService, logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		DepartmentHandler:  departmentHandler,
		QuestionHandler:    questionHandler,
		SurveyHandler:      surveyHandler,
		FeedbackHandler:    feedbackHandler,
		ReportHandler:      reportHandler,
		MaintenanceHandler: maintenanceHandler,
		SessionService:     sessionService,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret, sessionService),
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessionJanitor(janitorCtx, sessionRepo, logger)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// sessionJanitor purges expired sessions in the background. Reads already
// delete expired sessions on sight; the sweep catches the ones never read again.
func sessionJanitor(ctx context.Context, sessions repository.SessionRepository, logger zerolog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			if deleted > 0 {
				logger.Info().Int64("deleted", deleted).Msg("expired sessions purged")
			}
		}
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
