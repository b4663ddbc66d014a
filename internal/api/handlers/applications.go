package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/logging"
	"hireflow/internal/notify"
	"hireflow/internal/store"
	"hireflow/pkg/models"
)

// CreateApplicationHandler records a candidate submission for an open vacancy
func CreateApplicationHandler(vacancies *store.VacancyStore, applications *store.ApplicationStore, notifier *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateApplicationRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		ctx := c.Request().Context()
		vacancy, err := vacancies.Get(ctx, req.VacancyID)
		if err != nil {
			return storeError(c, err, "vacancy")
		}

		application := &models.Application{
			VacancyID: req.VacancyID,
			FullName:  req.FullName,
			Email:     req.Email,
			Phone:     req.Phone,
			ResumeURL: req.ResumeURL,
		}

		id, err := applications.Create(ctx, application)
		if err != nil {
			return storeError(c, err, "application")
		}

		// Confirmation delivery never blocks the submission
		if err := notifier.SendPostulationEmail(ctx, req.Email, req.FullName, vacancy.Title); err != nil {
			logging.GetGlobalLogger().Warn("Failed to queue postulation email", map[string]interface{}{
				"application_id": id,
				"error":          err.Error(),
			})
		}

		return c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
	}
}

// ListApplicationsHandler lists applications with optional narrowing
func ListApplicationsHandler(applications *store.ApplicationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, limit := pagination(c)

		status := models.ApplicationStatus(c.QueryParam("status"))
		if status != "" && !models.ValidApplicationStatus(status) {
			return badRequest(c, fmt.Sprintf("unknown application status %q", status))
		}

		list, err := applications.List(c.Request().Context(), store.ListApplicationsOptions{
			VacancyID: c.QueryParam("vacancy_id"),
			Status:    status,
			Page:      page,
			Limit:     limit,
		})
		if err != nil {
			return storeError(c, err, "application")
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetApplicationHandler fetches one application
func GetApplicationHandler(applications *store.ApplicationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		application, err := applications.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return storeError(c, err, "application")
		}
		return c.JSON(http.StatusOK, application)
	}
}

// UpdateApplicationStatusHandler transitions an application's review state
func UpdateApplicationStatusHandler(applications *store.ApplicationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateApplicationStatusRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if !models.ValidApplicationStatus(req.Status) {
			return badRequest(c, fmt.Sprintf("unknown application status %q", req.Status))
		}

		if err := applications.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, time.Now()); err != nil {
			return storeError(c, err, "application")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "application status updated"})
	}
}
