package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/storage"
	"hireflow/pkg/models"
)

// defaultSignedURLTTL applies when the request does not name an expiry
const defaultSignedURLTTL = time.Hour

// SignedURLHandler mints a time-limited read URL for a stored object
func SignedURLHandler(bucket *storage.BucketClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.SignedURLRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return validationFailed(c, err)
		}

		ttl := defaultSignedURLTTL
		if req.ExpiresIn > 0 {
			ttl = time.Duration(req.ExpiresIn) * time.Second
		}

		url, expiresAt, err := bucket.SignedURL(req.ObjectPath, ttl)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "signing_failed", err.Error())
		}

		return c.JSON(http.StatusOK, models.SignedURLResponse{
			URL:       url,
			ExpiresAt: expiresAt,
		})
	}
}
