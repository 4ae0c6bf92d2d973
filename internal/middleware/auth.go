package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/service"
)

// deviceIDKey is the echo context key holding the authenticated
// device id.
const deviceIDKey = "device_id"

// DeviceAuth resolves the bearer credential to a device id and stores
// it in the request context.  Any failure, including an infra error
// from the store, yields a uniform 401; no sub-reason leaks to the
// client.
func DeviceAuth(identity *service.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			credential, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || credential == "" {
				return unauthorized(c)
			}
			deviceID, err := identity.Authenticate(c.Request().Context(), credential)
			if err != nil {
				return unauthorized(c)
			}
			c.Set(deviceIDKey, deviceID)
			return next(c)
		}
	}
}

// DeviceID returns the authenticated device id set by DeviceAuth.
// uuid.Nil means the middleware did not run.
func DeviceID(c echo.Context) uuid.UUID {
	if id, ok := c.Get(deviceIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"error":   "unauthorized",
		"message": "invalid or missing device credential",
	})
}
