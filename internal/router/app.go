package router

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/studentdev-hub/internal/clock"
	"github.com/iliyamo/studentdev-hub/internal/collection"
	"github.com/iliyamo/studentdev-hub/internal/config"
	"github.com/iliyamo/studentdev-hub/internal/handler"
	"github.com/iliyamo/studentdev-hub/internal/identity"
	"github.com/iliyamo/studentdev-hub/internal/kvstore"
	"github.com/iliyamo/studentdev-hub/internal/middleware"
	"github.com/iliyamo/studentdev-hub/internal/model"
	"github.com/iliyamo/studentdev-hub/internal/role"
	"github.com/iliyamo/studentdev-hub/internal/service"
	"github.com/iliyamo/studentdev-hub/internal/thread"
)

// Deps are the collaborators the API is built from.  Redis is optional;
// without it rate limiting and response caching are off.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Store     kvstore.Store
	Redis     *redis.Client
	Publisher service.Publisher
	Clock     clock.Clock
}

// App is the assembled API.  The collections are exposed for startup
// seeding and tests.
type App struct {
	Echo     *echo.Echo
	Roles    *role.Resolver
	Catalog  *collection.Catalog
	Board    *thread.Board
	Chat     *thread.Chat
	Recorder *service.Recorder // closed on shutdown to flush activity events
}

// New wires the managers, handlers and middleware into an echo instance.
// Collections start from the seed data on every call.
func New(d Deps) *App {
	clk := d.Clock
	if clk == nil {
		clk = clock.Real()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler()
	e.Use(echomw.Recover())
	if d.Cfg.RequestLogs {
		e.Use(echomw.Logger())
	}

	roles := role.NewResolver(d.Store)
	sessions := &identity.Factory{Store: d.Store, Roles: roles, Clock: clk}

	catalog := collection.NewCatalog()
	board := thread.NewBoard(clk)
	chat := thread.NewChat(clk)
	catalog.Resources.OnChange(func(ch collection.Change[model.Resource]) {
		if ch.Op == collection.OpDelete {
			chat.Purge(ch.ID)
		}
	})
	catalog.OnScopeDropped(board.Drop) // deleted projects, activities and modules lose their boards

	rec := service.NewRecorder(d.Publisher)
	rec.Now = clk.Now
	act := handler.Activity{Rec: rec}

	RegisterRoutes(e, d.Store)

	v1 := e.Group("/v1",
		middleware.Session(d.Cfg.JWTSecret, sessions),
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis, perCaller),
	)
	RegisterAuth(v1, handler.NewAuthHandler(d.Cfg, clk))
	RegisterAdmin(v1, &handler.Admin{Roles: roles, Log: act})
	RegisterCatalog(v1, CatalogHandlers{
		Tracks:      &handler.Catalog[model.Track, model.TrackPatch]{Kind: "track", Items: catalog.Tracks, Log: act},
		Resources:   &handler.Catalog[model.Resource, model.ResourcePatch]{Kind: "resource", Items: catalog.Resources, Log: act, View: handler.ResourceView},
		Projects:    &handler.Catalog[model.Project, model.ProjectPatch]{Kind: "project", Items: catalog.Projects, Log: act},
		Activities:  &handler.Catalog[model.Activity, model.ActivityPatch]{Kind: "activity", Items: catalog.Activities, Log: act},
		Modules:     &handler.Modules{Tracks: catalog.Tracks, Items: catalog.Modules, Log: act},
		Attachments: &handler.Attachments{Items: catalog.Attachments, Log: act},
	})
	RegisterThreads(v1,
		&handler.Board{Board: board, Log: act},
		&handler.Chat{Chat: chat, Resources: catalog.Resources, Log: act},
	)

	return &App{Echo: e, Roles: roles, Catalog: catalog, Board: board, Chat: chat, Recorder: rec}
}

// perCaller skips the response cache for routes whose answer depends on
// the session.
func perCaller(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/v1/me" ||
		strings.HasPrefix(p, "/v1/auth/") ||
		strings.HasPrefix(p, "/v1/admin/")
}
