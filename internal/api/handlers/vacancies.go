package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/auth"
	"hireflow/internal/exporter"
	"hireflow/internal/logging"
	"hireflow/internal/storage"
	"hireflow/internal/store"
	"hireflow/pkg/models"
)

// maxImageSize bounds vacancy image uploads
const maxImageSize = 5 * 1024 * 1024

// CreateVacancyHandler creates a vacancy owned by the calling recruiter
func CreateVacancyHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateVacancyRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		status := req.Status
		if status == "" {
			status = models.VacancyStatusOpen
		}
		if !models.ValidVacancyStatus(status) {
			return badRequest(c, fmt.Sprintf("unknown vacancy status %q", status))
		}

		vacancy := &models.Vacancy{
			RecruiterID:      auth.CallerUID(c),
			Title:            req.Title,
			Description:      req.Description,
			Responsibilities: req.Responsibilities,
			Location:         req.Location,
			WorkMode:         req.WorkMode,
			Priority:         req.Priority,
			Status:           status,
		}

		id, err := vacancies.Create(c.Request().Context(), vacancy)
		if err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusCreated, models.CreatedResponse{ID: id})
	}
}

// ListVacanciesHandler lists vacancies with optional status/search narrowing
func ListVacanciesHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, limit := pagination(c)

		status := models.VacancyStatus(c.QueryParam("status"))
		if status != "" && !models.ValidVacancyStatus(status) {
			return badRequest(c, fmt.Sprintf("unknown vacancy status %q", status))
		}

		list, err := vacancies.List(c.Request().Context(), store.ListVacanciesOptions{
			Status: status,
			Search: c.QueryParam("search"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, list)
	}
}

// ListRecruiterVacanciesHandler lists the calling recruiter's vacancies
func ListRecruiterVacanciesHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := vacancies.ListByRecruiter(c.Request().Context(), auth.CallerUID(c))
		if err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetVacancyHandler fetches one vacancy
func GetVacancyHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		vacancy, err := vacancies.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, vacancy)
	}
}

// UpdateVacancyHandler applies a partial update to a vacancy
func UpdateVacancyHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateVacancyRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Responsibilities != nil {
			updates["responsibilities"] = *req.Responsibilities
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.WorkMode != nil {
			updates["workMode"] = *req.WorkMode
		}
		if req.Priority != nil {
			updates["priority"] = *req.Priority
		}
		if len(updates) == 0 {
			return badRequest(c, "No fields to update")
		}

		if err := vacancies.Update(c.Request().Context(), c.Param("id"), updates); err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "vacancy updated"})
	}
}

// UpdateVacancyStatusHandler transitions a vacancy's lifecycle state
func UpdateVacancyStatusHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateVacancyStatusRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if !models.ValidVacancyStatus(req.Status) {
			return badRequest(c, fmt.Sprintf("unknown vacancy status %q", req.Status))
		}

		if err := vacancies.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "vacancy status updated"})
	}
}

// DeleteVacancyHandler removes a vacancy and its applications
func DeleteVacancyHandler(vacancies *store.VacancyStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := vacancies.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "vacancy deleted"})
	}
}

// ListVacancyApplicationsHandler lists the applications of one vacancy
func ListVacancyApplicationsHandler(applications *store.ApplicationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, limit := pagination(c)

		status := models.ApplicationStatus(c.QueryParam("status"))
		if status != "" && !models.ValidApplicationStatus(status) {
			return badRequest(c, fmt.Sprintf("unknown application status %q", status))
		}

		list, err := applications.List(c.Request().Context(), store.ListApplicationsOptions{
			VacancyID: c.Param("id"),
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

// UploadVacancyImageHandler stores a vacancy image and records its URL
func UploadVacancyImageHandler(vacancies *store.VacancyStore, bucket *storage.BucketClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		vacancyID := c.Param("id")
		ctx := c.Request().Context()

		if _, err := vacancies.Get(ctx, vacancyID); err != nil {
			return storeError(c, err, "vacancy")
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return badRequest(c, "Missing image file")
		}
		if fileHeader.Size > maxImageSize {
			return errorJSON(c, http.StatusRequestEntityTooLarge, "image_too_large", "Image exceeds the 5MB limit")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return badRequest(c, "Unreadable image file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return badRequest(c, "Unreadable image file")
		}

		url, err := bucket.UploadImage(ctx, vacancyID, fileHeader.Filename, data)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "upload_failed", err.Error())
		}

		if err := vacancies.Update(ctx, vacancyID, map[string]interface{}{"imageUrl": url}); err != nil {
			return storeError(c, err, "vacancy")
		}

		return c.JSON(http.StatusOK, map[string]string{"image_url": url})
	}
}

// ExportVacancyApplicationsHandler downloads the vacancy's applications as a
// spreadsheet
func ExportVacancyApplicationsHandler(vacancies *store.VacancyStore, applications *store.ApplicationStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		vacancyID := c.Param("id")
		ctx := c.Request().Context()

		vacancy, err := vacancies.Get(ctx, vacancyID)
		if err != nil {
			return storeError(c, err, "vacancy")
		}

		apps, err := applications.List(ctx, store.ListApplicationsOptions{VacancyID: vacancyID})
		if err != nil {
			return storeError(c, err, "application")
		}

		data, err := exporter.ExportApplications(vacancy, apps)
		if err != nil {
			logging.GetGlobalLogger().Error("Application export failed", map[string]interface{}{
				"vacancy_id": vacancyID,
				"error":      err.Error(),
			})
			return errorJSON(c, http.StatusInternalServerError, "export_failed", "Failed to build spreadsheet")
		}

		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="applications-%s.xlsx"`, vacancyID))
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}
