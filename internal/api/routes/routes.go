package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"hireflow/internal/api/handlers"
	"hireflow/internal/api/middleware"
	"hireflow/internal/auth"
	"hireflow/internal/background"
	"hireflow/internal/config"
	"hireflow/internal/notify"
	"hireflow/internal/recruitment"
	"hireflow/internal/storage"
	"hireflow/internal/store"
)

// Deps collects everything the route tree needs
type Deps struct {
	Vacancies    *store.VacancyStore
	Applications *store.ApplicationStore
	Users        *auth.Service
	Bucket       *storage.BucketClient
	Notifier     *notify.Service
	Recruitment  *recruitment.Service
	TaskManager  background.TaskManager
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Deps) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	requireAuth := auth.RequireAuth(deps.Users)
	staffOnly := auth.RequireRole(auth.RoleAdmin, auth.RoleRecruiter)
	adminOnly := auth.RequireRole(auth.RoleAdmin)

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.Notifier.Queue()))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		// Vacancy routes. Reads are public, writes are staff-only.
		vacancies := v1.Group("/vacancies")
		{
			vacancies.GET("", handlers.ListVacanciesHandler(deps.Vacancies))
			vacancies.GET("/:id", handlers.GetVacancyHandler(deps.Vacancies))
			vacancies.GET("/mine", handlers.ListRecruiterVacanciesHandler(deps.Vacancies), requireAuth, staffOnly)
			vacancies.POST("", handlers.CreateVacancyHandler(deps.Vacancies), requireAuth, staffOnly)
			vacancies.PUT("/:id", handlers.UpdateVacancyHandler(deps.Vacancies), requireAuth, staffOnly)
			vacancies.PUT("/:id/status", handlers.UpdateVacancyStatusHandler(deps.Vacancies), requireAuth, staffOnly)
			vacancies.DELETE("/:id", handlers.DeleteVacancyHandler(deps.Vacancies), requireAuth, staffOnly)
			vacancies.GET("/:id/applications", handlers.ListVacancyApplicationsHandler(deps.Applications), requireAuth, staffOnly)
			vacancies.POST("/:id/image", handlers.UploadVacancyImageHandler(deps.Vacancies, deps.Bucket), requireAuth, staffOnly)
			vacancies.GET("/:id/export", handlers.ExportVacancyApplicationsHandler(deps.Vacancies, deps.Applications), requireAuth, staffOnly)
		}

		// Application routes. Submission is public, review is staff-only.
		applications := v1.Group("/applications")
		{
			applications.POST("", handlers.CreateApplicationHandler(deps.Vacancies, deps.Applications, deps.Notifier))
			applications.GET("", handlers.ListApplicationsHandler(deps.Applications), requireAuth, staffOnly)
			applications.GET("/:id", handlers.GetApplicationHandler(deps.Applications), requireAuth, staffOnly)
			applications.PUT("/:id/status", handlers.UpdateApplicationStatusHandler(deps.Applications), requireAuth, staffOnly)
		}

		// Preselection pipeline routes
		recruitmentGroup := v1.Group("/recruitment", requireAuth, staffOnly)
		{
			recruitmentGroup.POST("/preselect", handlers.PreselectHandler(deps.Recruitment))
			recruitmentGroup.POST("/preselect/async", handlers.PreselectAsyncHandler(deps.Recruitment, deps.TaskManager))
			recruitmentGroup.GET("/tasks/:processId", handlers.TaskStatusHandler(deps.TaskManager))
			recruitmentGroup.POST("/rank", handlers.RankHandler(deps.Recruitment))
			recruitmentGroup.GET("/candidates", handlers.ListCandidatesHandler(deps.Recruitment))
			recruitmentGroup.POST("/candidates/import", handlers.ImportCandidatesHandler(deps.Recruitment))
			recruitmentGroup.DELETE("/candidates", handlers.DeleteCandidatesHandler(deps.Recruitment))
			recruitmentGroup.DELETE("/index", handlers.DeleteIndexHandler(deps.Recruitment), adminOnly)
		}

		// Notification routes
		notifications := v1.Group("/notifications", requireAuth, staffOnly)
		{
			notifications.POST("/email", handlers.SendEmailHandler(deps.Notifier))
			notifications.GET("/email/queue", handlers.EmailQueueStatsHandler(deps.Notifier))
			notifications.POST("/push", handlers.SendPushHandler(deps.Notifier))
		}

		// Storage routes
		v1.POST("/storage/signed-url", handlers.SignedURLHandler(deps.Bucket), requireAuth, staffOnly)

		// User management routes
		users := v1.Group("/users", requireAuth, adminOnly)
		{
			users.POST("", handlers.CreateUserHandler(deps.Users))
			users.GET("/:uid", handlers.GetUserHandler(deps.Users))
			users.PATCH("/:uid/role", handlers.UpdateUserRoleHandler(deps.Users))
			users.PATCH("/:uid/password", handlers.UpdateUserPasswordHandler(deps.Users))
			users.DELETE("/:uid", handlers.DeleteUserHandler(deps.Users))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Hireflow Recruitment API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
