package handler // declare the package name; contains HTTP handlers

import (
    "context"  // bounds the store check
    "net/http" // net/http provides status codes and response helpers
    "time"     // check timeout

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
    "github.com/pkg/errors"       // errors.Is on the store sentinel

    "github.com/iliyamo/studentdev-hub/internal/kvstore" // durable key-value store
)

const healthCheckKey = "healthz-check"

// Health returns a health-check endpoint used by load balancers and
// monitoring systems.  It reads a sentinel key from the session store: a
// missing key is healthy, any other error answers 503.
func Health(store kvstore.Store) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if _, err := store.Get(ctx, healthCheckKey); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
            c.Logger().Warnf("healthz: store: %v", err)
            return c.String(http.StatusServiceUnavailable, "store unavailable")
        }
        return c.String(http.StatusOK, "ok")
    }
}
