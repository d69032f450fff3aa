package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var (
	errNotFound   = echo.NewHTTPError(http.StatusNotFound, "not found")
	errBadVariant = echo.NewHTTPError(http.StatusBadRequest, "variant must be link or rich")
)

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler of the API.  Every
// error is answered as JSON: {"error": "..."} for plain messages, a
// field -> message map for validation failures.  Unknown errors are
// logged and answered with 500.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		switch orig := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if inner, ok := orig.Internal.(*echo.HTTPError); ok {
				orig = inner
			}
			code = orig.Code
			message = orig.Message
		case validator.ValidationErrors:
			fields := make(map[string]string, len(orig))
			for _, fe := range orig {
				fields[fe.Field()] = fe.Translate(translator)
			}
			code = http.StatusBadRequest
			message = echo.Map{"error": "validation failed", "fields": fields}
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			c.Logger().Errorf("%s %s: %+v", c.Request().Method, c.Request().URL.Path, err)
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}
		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
