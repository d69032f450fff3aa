package handler // handler package serves the resource chat

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv formats resource ids for activity events

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/studentdev-hub/internal/collection" // collection holds the resources
	"github.com/iliyamo/studentdev-hub/internal/model"      // model defines resources and messages
	"github.com/iliyamo/studentdev-hub/internal/thread"     // thread holds the chat state
)

// Chat serves the Q&A thread of each resource under
// /v1/resources/:id/messages.
type Chat struct {
	Chat      *thread.Chat                                             // messages keyed by resource id
	Resources *collection.Manager[model.Resource, model.ResourcePatch] // used to check the resource exists
	Log       Activity                                                 // records mutation events and metrics
}

// resource resolves :id to an existing resource.
func (h *Chat) resource(c echo.Context) (int, error) {
	id, err := intParam(c, "id") // parse the resource id
	if err != nil {
		return 0, err
	}
	if _, ok := h.Resources.Get(id); !ok { // deleted or never created
		return 0, errNotFound
	}
	return id, nil
}

// List: GET /v1/resources/:id/messages
func (h *Chat) List(c echo.Context) error {
	id, err := h.resource(c) // 404 for unknown resources
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Chat.Messages(id)) // messages in posting order
}

// Send: POST /v1/resources/:id/messages.  Guests may post.
func (h *Chat) Send(c echo.Context) error {
	id, err := h.resource(c)
	if err != nil {
		return err
	}
	var req textReq                             // message text
	if err := bindStrict(c, &req); err != nil { // blank text is a 400
		return err
	}
	m, ok := h.Chat.Send(caller(c), id, req.Text)                  // stamped with the caller's name
	h.Log.record(c, "message", "post", strconv.Itoa(id), m.ID, ok) // emit the activity event
	return applied(c, ok, m, true)
}

// Edit: PUT|PATCH /v1/resources/:id/messages/:mid.  Author only.
func (h *Chat) Edit(c echo.Context) error {
	id, err := h.resource(c)
	if err != nil {
		return err
	}
	var req textReq                             // replacement text
	if err := bindStrict(c, &req); err != nil { // blank text is a 400
		return err
	}
	mid := c.Param("mid")                                         // message id
	m, ok := h.Chat.EditMessage(caller(c), id, mid, req.Text)     // refused for anyone but the author
	h.Log.record(c, "message", "edit", strconv.Itoa(id), mid, ok) // emit the activity event
	return applied(c, ok, m, false)
}

// Delete: DELETE /v1/resources/:id/messages/:mid.  Admin only.
func (h *Chat) Delete(c echo.Context) error {
	id, err := h.resource(c)
	if err != nil {
		return err
	}
	mid := c.Param("mid")                                           // message id
	ok := h.Chat.DeleteMessage(caller(c), id, mid)                  // refused for non-admins
	h.Log.record(c, "message", "delete", strconv.Itoa(id), mid, ok) // emit the activity event
	return applied(c, ok, nil, false)
}
