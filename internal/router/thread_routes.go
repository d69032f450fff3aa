package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studentdev-hub/internal/handler"
	"github.com/iliyamo/studentdev-hub/internal/middleware"
	"github.com/iliyamo/studentdev-hub/internal/model"
)

// RegisterThreads registers submission boards and resource chat.  Posting
// is open to guests too, and edits are gated on authorship inside the
// thread managers, so only deletes carry a role check here.
func RegisterThreads(v1 *echo.Group, b *handler.Board, ch *handler.Chat) {
	admin := middleware.RequireRole(model.RoleAdmin)

	// ---- Boards ----
	g := v1.Group("/boards/:scope/submissions")
	g.GET("", b.List)
	g.POST("", b.Submit)
	g.GET("/:sid", b.Get)
	g.PATCH("/:sid", b.Edit)
	g.DELETE("/:sid", b.Delete, admin)
	g.POST("/:sid/responses", b.Respond)
	g.PATCH("/:sid/responses/:rid", b.EditResponse)
	g.DELETE("/:sid/responses/:rid", b.DeleteResponse, admin)

	// ---- Resource chat ----
	v1.GET("/resources/:id/messages", ch.List)
	v1.POST("/resources/:id/messages", ch.Send)
	v1.PATCH("/resources/:id/messages/:mid", ch.Edit)
	v1.DELETE("/resources/:id/messages/:mid", ch.Delete, admin)
}
