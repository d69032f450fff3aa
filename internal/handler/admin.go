package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iliyamo/studentdev-hub/internal/role"
)

// Admin manages the admin allow-list.  Changes apply to logins made
// afterwards; roles of existing sessions are not re-evaluated.
type Admin struct {
	Roles *role.Resolver
	Log   Activity
}

type allowListReq struct {
	Emails []string `json:"emails" validate:"dive,email"`
}

// GetAllowList: GET /v1/admin/allow-list
func (h *Admin) GetAllowList(c echo.Context) error {
	emails := h.Roles.AllowList(c.Request().Context())
	if emails == nil {
		emails = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"emails": emails})
}

// PutAllowList: PUT /v1/admin/allow-list replaces the whole list.
func (h *Admin) PutAllowList(c echo.Context) error {
	var req allowListReq
	if err := bindStrict(c, &req); err != nil {
		return err
	}
	emails, err := h.Roles.SetAllowList(c.Request().Context(), req.Emails)
	if err != nil {
		return errors.Wrap(err, "save allow-list")
	}
	h.Log.record(c, "allow-list", "update", "", "", true)
	return c.JSON(http.StatusOK, echo.Map{"emails": emails})
}
