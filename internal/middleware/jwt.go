package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/studentdev-hub/internal/identity" // session-scoped identity provider
    "github.com/iliyamo/studentdev-hub/internal/utils"    // session token parsing
)

// Session returns an Echo middleware that puts an identity.Provider in
// scope for the request.  A Bearer token selects the session whose record
// is loaded from the store; without one the provider is anonymous and a
// session is minted on login.  A token that is present but invalid is
// rejected with 401 so clients notice and drop it.
//
// Downstream code reads the identity with identity.FromContext.  For the
// rate limiter the user id and role are also stored on the echo context
// under "user_id" and "role".
func Session(secret string, f *identity.Factory) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := ""
            if auth := c.Request().Header.Get("Authorization"); auth != "" {
                if !strings.HasPrefix(auth, "Bearer ") {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header"})
                }
                parsed, err := utils.ParseSessionToken(secret, strings.TrimPrefix(auth, "Bearer "))
                if err != nil {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
                }
                sid = parsed
            }

            req := c.Request()
            p := f.New(sid)
            p.Load(req.Context())
            c.SetRequest(req.WithContext(identity.WithProvider(req.Context(), p)))

            if u, ok := p.Current(); ok {
                c.Set("user_id", u.ID)
                c.Set("role", string(u.Role))
            }
            return next(c)
        }
    }
}
