package router

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuskit/feedback-api/internal/config"
	"github.com/campuskit/feedback-api/internal/handler"
	"github.com/campuskit/feedback-api/internal/middleware"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	DepartmentHandler  *handler.DepartmentHandler
	QuestionHandler    *handler.QuestionHandler
	SurveyHandler      *handler.SurveyHandler
	FeedbackHandler    *handler.FeedbackHandler
	ReportHandler      *handler.ReportHandler
	MaintenanceHandler *handler.MaintenanceHandler
	SessionService     service.SessionService
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	// Department reads stay public so the registration form can list them.
	if deps.DepartmentHandler != nil {
		deps.DepartmentHandler.RegisterReadOnly(api.Group("/departments"))
	}

	if deps.SurveyHandler != nil {
		deps.SurveyHandler.RegisterStudent(api.Group("/surveys", jwtMiddleware))
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterStudent(api.Group("/feedbacks", jwtMiddleware))
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(deps.SessionService, models.RoleAdmin))
	if deps.UserHandler != nil {
		deps.UserHandler.Register(admin.Group("/users"))
	}
	if deps.DepartmentHandler != nil {
		deps.DepartmentHandler.Register(admin.Group("/departments"))
	}
	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(admin.Group("/questions"))
	}
	if deps.SurveyHandler != nil {
		deps.SurveyHandler.Register(admin.Group("/surveys"))
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.Register(admin.Group("/feedbacks"))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(admin.Group("/reports"))
	}
	if deps.MaintenanceHandler != nil {
		deps.MaintenanceHandler.Register(admin.Group("/maintenance"))
	}
}
