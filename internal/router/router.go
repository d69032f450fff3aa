package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // prometheus scrape handler

	"github.com/iliyamo/studentdev-hub/internal/handler"    // import the handlers that implement the API
	"github.com/iliyamo/studentdev-hub/internal/kvstore"    // store read by the health check
	"github.com/iliyamo/studentdev-hub/internal/middleware" // session and role middleware
	"github.com/iliyamo/studentdev-hub/internal/model"      // roles
)

// RegisterRoutes registers routes that sit outside the session scope: the
// health check and the prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo, store kvstore.Store) {
	e.GET("/healthz", handler.Health(store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session endpoints on the /v1 group.  The
// group must already carry the Session middleware.
func RegisterAuth(v1 *echo.Group, a *handler.AuthHandler) {
	g := v1.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	// Reports the identity of the caller, including "anonymous".
	v1.GET("/me", a.Me)
}

// RegisterAdmin registers the allow-list endpoints.  Admin only.
func RegisterAdmin(v1 *echo.Group, h *handler.Admin) {
	g := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	g.GET("/allow-list", h.GetAllowList)
	g.PUT("/allow-list", h.PutAllowList)
}
