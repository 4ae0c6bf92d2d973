package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/service"
)

// DeviceHandler exposes device registration.
type DeviceHandler struct {
	identity *service.Identity
}

// NewDeviceHandler builds the handler.
func NewDeviceHandler(identity *service.Identity) *DeviceHandler {
	return &DeviceHandler{identity: identity}
}

type registerRequest struct {
	DeviceID uuid.UUID `json:"device_id"`
}

type registerResponse struct {
	DeviceID uuid.UUID `json:"device_id"`
	Token    string    `json:"token"`
}

// Register issues a fresh credential for the device id, creating the
// device on first call.  The token in the response is the only place
// the plaintext secret ever appears.
func (h *DeviceHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil || req.DeviceID == uuid.Nil {
		return errJSON(c, http.StatusBadRequest, "validation_failed", "device_id is required")
	}
	token, err := h.identity.Register(c.Request().Context(), req.DeviceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, registerResponse{DeviceID: req.DeviceID, Token: token})
}
