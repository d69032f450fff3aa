package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studentdev-hub/internal/handler"
	"github.com/iliyamo/studentdev-hub/internal/middleware"
	"github.com/iliyamo/studentdev-hub/internal/model"
)

// CatalogHandlers groups the handlers of the admin-curated collections.
type CatalogHandlers struct {
	Tracks      *handler.Catalog[model.Track, model.TrackPatch]
	Resources   *handler.Catalog[model.Resource, model.ResourcePatch]
	Projects    *handler.Catalog[model.Project, model.ProjectPatch]
	Activities  *handler.Catalog[model.Activity, model.ActivityPatch]
	Modules     *handler.Modules
	Attachments *handler.Attachments
}

// RegisterCatalog registers the catalog under /v1.  Reads are open to
// every caller; writes require the admin role.
func RegisterCatalog(v1 *echo.Group, h CatalogHandlers) {
	admin := middleware.RequireRole(model.RoleAdmin)

	registerCollection(v1, "/tracks", h.Tracks, admin)
	registerCollection(v1, "/resources", h.Resources, admin)
	registerCollection(v1, "/projects", h.Projects, admin)
	registerCollection(v1, "/activities", h.Activities, admin)

	// ---- Track modules ----
	v1.GET("/tracks/:track/modules", h.Modules.List)
	v1.GET("/tracks/:track/modules/:id", h.Modules.Get)
	v1.POST("/tracks/:track/modules", h.Modules.Create, admin)
	v1.PUT("/tracks/:track/modules/:id", h.Modules.Update, admin)
	v1.PATCH("/tracks/:track/modules/:id", h.Modules.Update, admin)
	v1.DELETE("/tracks/:track/modules/:id", h.Modules.Delete, admin)

	// ---- Attachments ----
	v1.GET("/attachments/:scope", h.Attachments.List)
	v1.POST("/attachments/:scope", h.Attachments.Create, admin)
	v1.PUT("/attachments/:scope/:id", h.Attachments.Update, admin)
	v1.PATCH("/attachments/:scope/:id", h.Attachments.Update, admin)
	v1.DELETE("/attachments/:scope/:id", h.Attachments.Delete, admin)
}

func registerCollection[T model.Entity[T], P model.Patch[T]](v1 *echo.Group, path string, h *handler.Catalog[T, P], admin echo.MiddlewareFunc) {
	v1.GET(path, h.List)
	v1.GET(path+"/:id", h.Get)
	v1.POST(path, h.Create, admin)
	v1.PUT(path+"/:id", h.Update, admin)
	v1.PATCH(path+"/:id", h.Update, admin) // same partial update as PUT
	v1.DELETE(path+"/:id", h.Delete, admin)
}
