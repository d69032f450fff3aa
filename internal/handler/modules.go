package handler // handler package serves the track modules

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv turns track ids into registry scopes

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/studentdev-hub/internal/collection" // collection holds the module registry
	"github.com/iliyamo/studentdev-hub/internal/model"      // model defines tracks and modules
)

// Modules serves the lessons of each track under /v1/tracks/:track/modules.
// Every route answers 404 for a track that does not exist.
type Modules struct {
	Tracks *collection.Manager[model.Track, model.TrackPatch]    // used to check the track exists
	Items  *collection.Registry[model.Module, model.ModulePatch] // modules keyed by track id
	Log    Activity                                              // records mutation events and metrics
}

// track resolves the :track param to a registry scope.
func (h *Modules) track(c echo.Context) (string, error) {
	id, err := intParam(c, "track") // parse the track id from the path
	if err != nil {                 // non-numeric id
		return "", err
	}
	if _, ok := h.Tracks.Get(id); !ok { // unknown or deleted track
		return "", errNotFound
	}
	return strconv.Itoa(id), nil // scope key is the decimal track id
}

// List: GET /v1/tracks/:track/modules
func (h *Modules) List(c echo.Context) error {
	scope, err := h.track(c) // 404 for unknown tracks
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Items.List(scope)) // empty list for a track without modules
}

// Get: GET /v1/tracks/:track/modules/:id
func (h *Modules) Get(c echo.Context) error {
	scope, err := h.track(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id") // parse the module id
	if err != nil {
		return err
	}
	m, ok := h.Items.Get(scope, id) // lookup without creating the scope
	if !ok {
		return errNotFound // no module with that id in this track
	}
	return c.JSON(http.StatusOK, m)
}

// Create: POST /v1/tracks/:track/modules
func (h *Modules) Create(c echo.Context) error {
	scope, err := h.track(c)
	if err != nil {
		return err
	}
	var m model.Module                        // module decoded from the body
	if err := bindStrict(c, &m); err != nil { // reject unknown fields and bad JSON
		return err
	}
	created, ok := h.Items.Scope(scope).Create(caller(c), m)                                    // ids are sequential per track
	h.Log.record(c, "module", string(collection.OpCreate), scope, strconv.Itoa(created.ID), ok) // emit the activity event
	return applied(c, ok, created, true)                                                        // 201 when applied
}

// Update: PUT|PATCH /v1/tracks/:track/modules/:id
func (h *Modules) Update(c echo.Context) error {
	scope, err := h.track(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var patch model.ModulePatch                   // only present fields change
	if err := bindStrict(c, &patch); err != nil { // reject unknown fields and bad JSON
		return err
	}
	updated, ok := h.Items.Scope(scope).Update(caller(c), id, patch)                    // admins only
	h.Log.record(c, "module", string(collection.OpUpdate), scope, strconv.Itoa(id), ok) // emit the activity event
	return applied(c, ok, updated, false)
}

// Delete: DELETE /v1/tracks/:track/modules/:id
func (h *Modules) Delete(c echo.Context) error {
	scope, err := h.track(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	ok := h.Items.Scope(scope).Delete(caller(c), id)                                    // also clears the module's attachments and board
	h.Log.record(c, "module", string(collection.OpDelete), scope, strconv.Itoa(id), ok) // emit the activity event
	return applied(c, ok, nil, false)
}
