package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studentdev-hub/internal/identity"
	"github.com/iliyamo/studentdev-hub/internal/model"
)

// scopePattern bounds attachment and board scope keys such as
// "project_1" or "track_cyber_module_3".
var scopePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// bindStrict decodes the JSON body into v and validates it.  Unknown
// fields are rejected, so a typo in a patch never silently does nothing.
func bindStrict(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body: "+err.Error())
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(v)
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func scopeParam(c echo.Context) (string, error) {
	s := c.Param("scope")
	if !scopePattern.MatchString(s) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid scope")
	}
	return s, nil
}

// caller is the session identity of the request; nil when anonymous.
func caller(c echo.Context) *model.User {
	return identity.FromContext(c.Request().Context()).Caller()
}

// result is the body of every mutation.  Applied is false when the
// caller was not allowed or the target did not exist; Item is then
// omitted.
type result struct {
	Applied bool        `json:"applied"`
	Item    interface{} `json:"item,omitempty"`
}

func applied(c echo.Context, ok bool, item interface{}, created bool) error {
	if !ok {
		return c.JSON(http.StatusOK, result{})
	}
	if created {
		return c.JSON(http.StatusCreated, result{Applied: true, Item: item})
	}
	return c.JSON(http.StatusOK, result{Applied: true, Item: item})
}
