package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/auth"
	"hireflow/pkg/models"
)

func authError(c echo.Context, err error) error {
	if errors.Is(err, auth.ErrUserNotFound) {
		return errorJSON(c, http.StatusNotFound, "not_found", "user not found")
	}
	return errorJSON(c, http.StatusInternalServerError, "auth_error", err.Error())
}

// CreateUserHandler provisions an account with a role claim
func CreateUserHandler(users *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		user, err := users.CreateUser(c.Request().Context(), &req)
		if err != nil {
			return authError(c, err)
		}
		return c.JSON(http.StatusCreated, user)
	}
}

// GetUserHandler fetches an account by UID
func GetUserHandler(users *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := users.GetUser(c.Request().Context(), c.Param("uid"))
		if err != nil {
			return authError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// UpdateUserRoleHandler replaces an account's role claim
func UpdateUserRoleHandler(users *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateRoleRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		if err := users.UpdateRole(c.Request().Context(), c.Param("uid"), req.Role); err != nil {
			return authError(c, err)
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "role updated"})
	}
}

// UpdateUserPasswordHandler replaces an account's password
func UpdateUserPasswordHandler(users *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		if err := users.UpdatePassword(c.Request().Context(), c.Param("uid"), req.Password); err != nil {
			return authError(c, err)
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "password updated"})
	}
}

// DeleteUserHandler removes an account
func DeleteUserHandler(users *auth.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := users.DeleteUser(c.Request().Context(), c.Param("uid")); err != nil {
			return authError(c, err)
		}
		return c.JSON(http.StatusOK, models.MessageResponse{Message: "user deleted"})
	}
}
