package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/Konstantin212/countOnMe/internal/handler"
	"github.com/Konstantin212/countOnMe/internal/middleware"
	"github.com/Konstantin212/countOnMe/internal/service"
)

// Deps carries everything route registration needs.
type Deps struct {
	Identity  *service.Identity
	Devices   *handler.DeviceHandler
	Products  *handler.ProductHandler
	Portions  *handler.PortionHandler
	Entries   *handler.FoodEntryHandler
	Weights   *handler.BodyWeightHandler
	Goals     *handler.GoalHandler
	Sync      *handler.SyncHandler
	RateLimit echo.MiddlewareFunc
}

// Register wires every route.  Health and registration are public
// (registration throttled); everything else sits behind the device
// credential middleware.
func Register(e *echo.Echo, d Deps) {
	e.GET("/health", handler.Health)
	e.POST("/v1/devices/register", d.Devices.Register, d.RateLimit)

	v1 := e.Group("/v1", middleware.DeviceAuth(d.Identity))

	v1.POST("/products", d.Products.Create)
	v1.GET("/products", d.Products.List)
	v1.GET("/products/:id", d.Products.Get)
	v1.PATCH("/products/:id", d.Products.Update)
	v1.DELETE("/products/:id", d.Products.Delete)

	// Portions are created and listed through their product, then
	// addressed directly.
	v1.POST("/products/:id/portions", d.Portions.Create)
	v1.GET("/products/:id/portions", d.Portions.List)
	v1.GET("/portions/:id", d.Portions.Get)
	v1.PATCH("/portions/:id", d.Portions.Update)
	v1.DELETE("/portions/:id", d.Portions.Delete)

	v1.POST("/entries", d.Entries.Create)
	v1.GET("/entries", d.Entries.List)
	v1.GET("/entries/:id", d.Entries.Get)
	v1.PATCH("/entries/:id", d.Entries.Update)
	v1.DELETE("/entries/:id", d.Entries.Delete)

	v1.POST("/weights", d.Weights.Create)
	v1.GET("/weights", d.Weights.List)
	v1.PATCH("/weights/:id", d.Weights.Update)
	v1.DELETE("/weights/:id", d.Weights.Delete)

	v1.POST("/goals/calculate", d.Goals.Calculate)
	v1.POST("/goals/manual", d.Goals.Manual)
	v1.GET("/goals/current", d.Goals.Current)
	v1.PATCH("/goals/:id", d.Goals.Update)
	v1.DELETE("/goals/:id", d.Goals.Delete)

	v1.GET("/sync/since", d.Sync.Since)
}
