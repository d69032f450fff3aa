package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/studentdev-hub/internal/identity"
    "github.com/iliyamo/studentdev-hub/internal/model"
)

// RequireRole returns a middleware function that lets the request through
// only when the session identity holds one of roles.  Anonymous callers
// get 401, others 403.  It must run after Session: without a provider in
// scope identity.FromContext panics.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u, ok := identity.FromContext(c.Request().Context()).Current()
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
            }
            if !allowed[u.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
