package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studentdev-hub/internal/collection"
	"github.com/iliyamo/studentdev-hub/internal/model"
)

// Attachments serves the extra resources admins hang off projects,
// activities and track modules, under /v1/attachments/:scope.
type Attachments struct {
	Items *collection.Registry[model.Attachment, model.AttachmentPatch]
	Log   Activity
}

func (h *Attachments) List(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Items.List(scope))
}

// Create defaults the variant to link.
func (h *Attachments) Create(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	var a model.Attachment
	if err := bindStrict(c, &a); err != nil {
		return err
	}
	switch a.Variant {
	case "":
		a.Variant = model.AttachmentLink
	case model.AttachmentLink, model.AttachmentRich:
	default:
		return errBadVariant
	}
	created, ok := h.Items.Scope(scope).Create(caller(c), a)
	h.Log.record(c, "attachment", string(collection.OpCreate), scope, strconv.Itoa(created.ID), ok)
	return applied(c, ok, created, true)
}

func (h *Attachments) Update(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var patch model.AttachmentPatch
	if err := bindStrict(c, &patch); err != nil {
		return err
	}
	updated, ok := h.Items.Scope(scope).Update(caller(c), id, patch)
	h.Log.record(c, "attachment", string(collection.OpUpdate), scope, strconv.Itoa(id), ok)
	return applied(c, ok, updated, false)
}

func (h *Attachments) Delete(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	ok := h.Items.Scope(scope).Delete(caller(c), id)
	h.Log.record(c, "attachment", string(collection.OpDelete), scope, strconv.Itoa(id), ok)
	return applied(c, ok, nil, false)
}
