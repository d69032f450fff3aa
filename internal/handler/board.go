package handler // handler package serves the submission boards

import (
	"net/http" // http provides status code constants

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/studentdev-hub/internal/model"  // model defines submissions and responses
	"github.com/iliyamo/studentdev-hub/internal/thread" // thread holds the board state
)

// Board serves submission boards under /v1/boards/:scope/submissions.
// Anyone may post; only the author edits; only admins delete.
type Board struct {
	Board *thread.Board // submissions keyed by scope
	Log   Activity      // records mutation events and metrics
}

// submissionReq is the body of a new submission.
type submissionReq struct {
	Title  string `json:"title" validate:"notblank,max=200"` // required headline
	Notes  string `json:"notes"`                             // free-form notes
	Work   string `json:"work"`                              // link or description of the work
	Result string `json:"result"`                            // outcome reported by the author
}

// textReq carries the text of a new response or chat message.
type textReq struct {
	Text string `json:"text" validate:"notblank"` // trimmed by the thread, blank is refused
}

// responseEditReq allows a blank text; the edit then clears the response.
type responseEditReq struct {
	Text string `json:"text"`
}

// List: GET /v1/boards/:scope/submissions
func (h *Board) List(c echo.Context) error {
	scope, err := scopeParam(c) // validate the scope key
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Board.List(scope)) // unknown scopes read as empty
}

// Get: GET /v1/boards/:scope/submissions/:sid
func (h *Board) Get(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	sub, ok := h.Board.Get(scope, c.Param("sid")) // submission with its responses
	if !ok {
		return errNotFound
	}
	return c.JSON(http.StatusOK, sub)
}

// Submit: POST /v1/boards/:scope/submissions.  Guests post as "Guest".
func (h *Board) Submit(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	var req submissionReq                       // decoded and validated body
	if err := bindStrict(c, &req); err != nil { // unknown fields or blank title
		return err
	}
	sub, ok := h.Board.Submit(caller(c), scope, model.Submission{ // caller may be nil for guests
		Title:  req.Title,
		Notes:  req.Notes,
		Work:   req.Work,
		Result: req.Result,
	})
	h.Log.record(c, "submission", "post", scope, sub.ID, ok) // emit the activity event
	return applied(c, ok, sub, true)                         // 201 with the new submission
}

// Edit: PUT|PATCH /v1/boards/:scope/submissions/:sid.  Author only.
func (h *Board) Edit(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	var patch model.SubmissionPatch               // only present fields change
	if err := bindStrict(c, &patch); err != nil { // reject unknown fields and bad JSON
		return err
	}
	id := c.Param("sid")                                           // submission id
	sub, ok := h.Board.EditSubmission(caller(c), scope, id, patch) // refused for anyone but the author
	h.Log.record(c, "submission", "edit", scope, id, ok)           // emit the activity event
	return applied(c, ok, sub, false)
}

// Delete: DELETE /v1/boards/:scope/submissions/:sid.  Admin only.
func (h *Board) Delete(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	id := c.Param("sid")                                   // submission id
	ok := h.Board.DeleteSubmission(caller(c), scope, id)   // responses go with it
	h.Log.record(c, "submission", "delete", scope, id, ok) // emit the activity event
	return applied(c, ok, nil, false)
}

// Respond: POST /v1/boards/:scope/submissions/:sid/responses
func (h *Board) Respond(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	var req textReq                             // response text
	if err := bindStrict(c, &req); err != nil { // blank text is a 400
		return err
	}
	r, ok := h.Board.Respond(caller(c), scope, c.Param("sid"), req.Text) // false for an unknown submission
	h.Log.record(c, "response", "post", scope, r.ID, ok)                 // emit the activity event
	return applied(c, ok, r, true)
}

// EditResponse: PUT|PATCH .../responses/:rid.  Author only.
func (h *Board) EditResponse(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	var req responseEditReq                     // text may be blank here
	if err := bindStrict(c, &req); err != nil { // reject unknown fields and bad JSON
		return err
	}
	rid := c.Param("rid")                                                          // response id
	r, ok := h.Board.EditResponse(caller(c), scope, c.Param("sid"), rid, req.Text) // guest responses stay uneditable
	h.Log.record(c, "response", "edit", scope, rid, ok)                            // emit the activity event
	return applied(c, ok, r, false)
}

// DeleteResponse: DELETE .../responses/:rid.  Admin only.
func (h *Board) DeleteResponse(c echo.Context) error {
	scope, err := scopeParam(c)
	if err != nil {
		return err
	}
	rid := c.Param("rid")                                               // response id
	ok := h.Board.DeleteResponse(caller(c), scope, c.Param("sid"), rid) // refused for non-admins
	h.Log.record(c, "response", "delete", scope, rid, ok)               // emit the activity event
	return applied(c, ok, nil, false)
}
