package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// SyncHandler exposes the incremental change feed.
type SyncHandler struct {
	sync *service.Sync
}

// NewSyncHandler builds the handler.
func NewSyncHandler(sync *service.Sync) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Since returns the changes beyond ?cursor=, up to ?limit= rows per
// family.  Clients poll with the returned next_cursor until a page
// comes back empty.
func (h *SyncHandler) Since(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "validation_failed", "invalid limit")
		}
		limit = n
	}
	page, err := h.sync.Since(c.Request().Context(), middleware.DeviceID(c), c.QueryParam("cursor"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
