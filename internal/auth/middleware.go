package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/pkg/models"
)

// Context keys set by the middleware
const (
	ContextUID  = "auth_uid"
	ContextRole = "auth_role"
)

// TokenVerifier is the slice of the auth service the middleware needs
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (uid, role string, err error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's UID and role on the echo context
func RequireAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				return unauthorized(c, "missing bearer token")
			}

			uid, role, err := verifier.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(ContextUID, uid)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// RequireRole allows only callers whose role claim is in the given set.
// It must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if !allowed[role] {
				requestID, _ := c.Get("request_id").(string)
				return c.JSON(http.StatusForbidden, models.ErrorResponse{
					Error:     "forbidden",
					Message:   "Insufficient permissions for this operation",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}

// CallerUID returns the authenticated caller's UID, if any
func CallerUID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

func unauthorized(c echo.Context, message string) error {
	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
