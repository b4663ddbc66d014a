package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/notify"
	"hireflow/pkg/models"
)

// SendEmailHandler enqueues an arbitrary email for delivery
func SendEmailHandler(notifier *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SendEmailRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}
		if req.HTML == "" && req.Text == "" {
			return badRequest(c, "Either text or html body is required")
		}

		body := req.HTML
		if body == "" {
			body = fmt.Sprintf("<html><body><p>%s</p></body></html>", req.Text)
		}

		if err := notifier.SendEmail(c.Request().Context(), req.To, req.Subject, body); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "queue_error", err.Error())
		}
		return c.JSON(http.StatusAccepted, models.MessageResponse{Message: "email queued"})
	}
}

// EmailQueueStatsHandler reports email queue depth counters
func EmailQueueStatsHandler(notifier *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := notifier.Queue().Stats(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "queue_error", err.Error())
		}
		return c.JSON(http.StatusOK, models.QueueStatsResponse{
			Waiting:   stats.Waiting,
			Active:    stats.Active,
			Completed: stats.Completed,
			Failed:    stats.Failed,
		})
	}
}

// SendPushHandler delivers a push notification to a device token
func SendPushHandler(notifier *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SendPushRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		if err := notifier.SendPush(c.Request().Context(), req.Token, req.Title, req.Body, req.Data); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "push_error", err.Error())
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "push notification sent"})
	}
}
