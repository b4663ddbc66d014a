package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/notify"
	"hireflow/pkg/models"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	})
}

// ReadinessHandler reports whether downstream dependencies answer
func ReadinessHandler(queue *notify.EmailQueue) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if err := queue.Ping(c.Request().Context()); err != nil {
			checks["redis"] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// StatusHandler provides detailed service status
func StatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "operational",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api":          "operational",
			"email_worker": "operational",
		},
	})
}
