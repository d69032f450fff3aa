package middleware

// identity.go holds helpers shared across middleware files.

import "github.com/labstack/echo/v4"

// callerKey identifies the caller for rate limiting: the user id stored
// by Session, or "anon" for requests without an identity.
func callerKey(c echo.Context) string {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s
    }
    return "anon"
}
