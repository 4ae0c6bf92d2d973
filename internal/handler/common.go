package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/service"
)

// respondError maps a service failure onto its HTTP status.  Every
// business kind keeps its identity for the client except unauthorized,
// which stays opaque; anything unmapped is an infrastructure failure
// and reports a plain 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return errJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or missing device credential")
	case errors.Is(err, service.ErrNotFound):
		return errJSON(c, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, service.ErrRegistrationConflict):
		return errJSON(c, http.StatusConflict, "registration_conflict", "device registration conflicted, retry")
	case errors.Is(err, service.ErrDefaultConflict):
		return errJSON(c, http.StatusConflict, "default_conflict", "a replacement default portion is required")
	case errors.Is(err, service.ErrConflict):
		return errJSON(c, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, service.ErrValidation):
		return errJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		c.Logger().Errorf("internal error: %v", err)
		return errJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func errJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]any{
		"error":   code,
		"message": message,
	})
}

// pathID parses a UUID path parameter; a garbled id is a validation
// failure, not a 404, so clients can tell a bad request from a
// missing row.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errJSON(c, http.StatusBadRequest, "validation_failed", "invalid "+name)
	}
	return id, nil
}
