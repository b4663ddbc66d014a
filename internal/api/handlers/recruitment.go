package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/background"
	"hireflow/internal/logging"
	"hireflow/internal/recruitment"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

// PreselectHandler runs the preselection pipeline synchronously
func PreselectHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.PreselectionRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		result, err := svc.Preselection(c.Request().Context(), req.VacancyID, req.Amount, req.Options)
		if err != nil {
			logging.GetGlobalLogger().Error("Preselection run failed", map[string]interface{}{
				"vacancy_id": req.VacancyID,
				"error":      err.Error(),
			})
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, result)
	}
}

// PreselectAsyncHandler accepts a preselection run for background processing
// and returns a process ID to poll
func PreselectAsyncHandler(svc *recruitment.Service, tm background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.PreselectionRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		processID := utils.GenerateRequestID()
		metadata := map[string]interface{}{
			"vacancy_id": req.VacancyID,
			"amount":     req.Amount,
		}

		err := tm.Submit(c.Request().Context(), processID, background.TaskTypePreselection, metadata,
			func(ctx context.Context) (interface{}, error) {
				return svc.Preselection(ctx, req.VacancyID, req.Amount, req.Options)
			})
		if err != nil {
			return errorJSON(c, http.StatusServiceUnavailable, "task_rejected", err.Error())
		}

		return c.JSON(http.StatusAccepted, models.AsyncAcceptedResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
		})
	}
}

// TaskStatusHandler reports the state of a background task
func TaskStatusHandler(tm background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := tm.GetTaskResult(c.Request().Context(), c.Param("processId"))
		if err != nil {
			if errors.Is(err, background.ErrTaskNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "task not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "task_error", err.Error())
		}
		return c.JSON(http.StatusOK, result)
	}
}

// RankHandler produces the diagnostic ranking dump for a vacancy
func RankHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RankingRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		ranked, err := svc.RankingPreview(c.Request().Context(), req.VacancyID, req.Amount)
		if err != nil {
			return storeError(c, err, "vacancy")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"vacancy_id": req.VacancyID,
			"candidates": ranked,
		})
	}
}

// DeleteIndexHandler wipes every vector from the index
func DeleteIndexHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.DeleteIndex(c.Request().Context()); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "index_error", err.Error())
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "vector index deleted"})
	}
}

// ImportCandidatesHandler bulk-loads candidate profiles
func ImportCandidatesHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Candidates []*models.CandidateProfile `json:"candidates" validate:"required,min=1"`
		}
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		count, err := svc.ImportCandidates(c.Request().Context(), req.Candidates)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "import_failed", err.Error())
		}
		return c.JSON(http.StatusOK, map[string]int{"imported": count})
	}
}

// ListCandidatesHandler returns the standing candidate corpus
func ListCandidatesHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		profiles, err := svc.ListCandidates(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "list_failed", err.Error())
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"count":      len(profiles),
			"candidates": profiles,
		})
	}
}

// DeleteCandidatesHandler wipes the standing candidate corpus
func DeleteCandidatesHandler(svc *recruitment.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		count, err := svc.DeleteCandidates(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "delete_failed", err.Error())
		}
		return c.JSON(http.StatusOK, map[string]int{"deleted": count})
	}
}
