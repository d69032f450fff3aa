package handler // handler package serves the catalog collections

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv formats ids for activity events

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/studentdev-hub/internal/collection" // collection holds the in-memory managers
	"github.com/iliyamo/studentdev-hub/internal/model"      // model defines the catalog entities
)

// Catalog serves one admin-curated collection: tracks, resources,
// projects or activities.
type Catalog[T model.Entity[T], P model.Patch[T]] struct {
	Kind  string                    // event and metric label, e.g. "track"
	Items *collection.Manager[T, P] // backing manager shared with the rest of the app
	Log   Activity                  // records mutation events and metrics

	// View shapes an item for responses.  Items are returned as is when
	// nil.
	View func(T) interface{}
}

// view applies the optional response shaper.
func (h *Catalog[T, P]) view(item T) interface{} {
	if h.View == nil { // no shaper configured
		return item
	}
	return h.View(item) // let the shaper decorate the entity
}

// List: GET /v1/{kind}
func (h *Catalog[T, P]) List(c echo.Context) error {
	items := h.Items.List()                // snapshot in insertion order
	out := make([]interface{}, len(items)) // one view per item, never nil
	for i, it := range items {
		out[i] = h.view(it) // shape each item for the response
	}
	return c.JSON(http.StatusOK, out) // respond with the full list
}

// Get: GET /v1/{kind}/:id
func (h *Catalog[T, P]) Get(c echo.Context) error {
	id, err := intParam(c, "id") // parse the numeric id from the path
	if err != nil {              // non-numeric id
		return err
	}
	item, ok := h.Items.Get(id) // look the item up
	if !ok {                    // no item with that id
		return errNotFound
	}
	return c.JSON(http.StatusOK, h.view(item)) // return the shaped item
}

// Create: POST /v1/{kind}.  Any id in the body is replaced.
func (h *Catalog[T, P]) Create(c echo.Context) error {
	var item T                                   // entity decoded from the body
	if err := bindStrict(c, &item); err != nil { // reject unknown fields and bad JSON
		return err
	}
	created, ok := h.Items.Create(caller(c), item)                                                 // manager assigns the next id; non-admins are refused
	h.Log.record(c, h.Kind, string(collection.OpCreate), "", strconv.Itoa(created.EntityID()), ok) // emit the activity event
	return applied(c, ok, h.view(created), true)                                                   // 201 when applied, 200 with applied=false otherwise
}

// Update: PUT|PATCH /v1/{kind}/:id.  Only the fields present in the body
// change.
func (h *Catalog[T, P]) Update(c echo.Context) error {
	id, err := intParam(c, "id") // parse the target id
	if err != nil {
		return err
	}
	var patch P                                   // partial update, nil fields stay untouched
	if err := bindStrict(c, &patch); err != nil { // reject unknown fields and bad JSON
		return err
	}
	updated, ok := h.Items.Update(caller(c), id, patch)                            // apply the patch when the caller is an admin
	h.Log.record(c, h.Kind, string(collection.OpUpdate), "", strconv.Itoa(id), ok) // emit the activity event
	return applied(c, ok, h.view(updated), false)                                  // always 200; applied tells the outcome
}

// Delete: DELETE /v1/{kind}/:id
func (h *Catalog[T, P]) Delete(c echo.Context) error {
	id, err := intParam(c, "id") // parse the target id
	if err != nil {
		return err
	}
	ok := h.Items.Delete(caller(c), id)                                            // delete hooks cascade to scoped data
	h.Log.record(c, h.Kind, string(collection.OpDelete), "", strconv.Itoa(id), ok) // emit the activity event
	return applied(c, ok, nil, false)                                              // deleted items are not echoed back
}

// resourceView is a resource plus its derived embed id.
type resourceView struct {
	model.Resource
	EmbedID string `json:"embedId,omitempty"` // YouTube video id, empty for other hosts
}

// ResourceView adds the YouTube video id of the resource url as embedId.
func ResourceView(r model.Resource) interface{} {
	return resourceView{Resource: r, EmbedID: model.YouTubeID(r.URL)} // derive the id on every read
}
