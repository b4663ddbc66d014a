package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"hireflow/internal/api/validation"
	"hireflow/internal/store"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterApplicationValidators(v)
	return v
}

// requestIDOf returns the request ID stamped by the validation middleware
func requestIDOf(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestIDOf(c),
		Timestamp: time.Now(),
	})
}

func badRequest(c echo.Context, message string) error {
	return errorJSON(c, http.StatusBadRequest, "invalid_request", message)
}

func validationFailed(c echo.Context, err error) error {
	return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
}

// storeError maps document store failures onto HTTP status codes
func storeError(c echo.Context, err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "not_found", message+" not found")
	}
	return errorJSON(c, http.StatusInternalServerError, "store_error", err.Error())
}

// pagination reads page/limit query parameters with sane defaults
func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
