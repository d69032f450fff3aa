package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/studentdev-hub/internal/clock"
	"github.com/iliyamo/studentdev-hub/internal/config"
	"github.com/iliyamo/studentdev-hub/internal/identity"
	"github.com/iliyamo/studentdev-hub/internal/kvstore"
	"github.com/iliyamo/studentdev-hub/internal/model"
	"github.com/iliyamo/studentdev-hub/internal/role"
	"github.com/iliyamo/studentdev-hub/internal/utils"
)

const testSecret = "test-secret"

func newFactory() *identity.Factory {
	store := kvstore.NewMemory()
	return &identity.Factory{Store: store, Roles: role.NewResolver(store), Clock: clock.Real()}
}

// bearer logs email in on a fresh session and returns its header value.
func bearer(t *testing.T, f *identity.Factory, email string) string {
	t.Helper()
	p := f.New("")
	_, err := p.Login(context.Background(), identity.ProfileFromEmail(email))
	require.NoError(t, err)
	tok, err := utils.NewSessionToken(testSecret, p.SessionID(), time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func do(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSessionScopesProvider(t *testing.T) {
	f := newFactory()
	e := echo.New()
	e.Use(Session(testSecret, f))
	e.GET("/who", func(c echo.Context) error {
		p := identity.FromContext(c.Request().Context())
		return c.String(http.StatusOK, fmt.Sprintf("%s|%s|%v", p.State(), p.Caller().OwnerEmail(), c.Get("role")))
	})

	rec := do(e, http.MethodGet, "/who", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous||<nil>", rec.Body.String())

	rec = do(e, http.MethodGet, "/who", bearer(t, f, "ada+admin@uni.edu"))
	assert.Equal(t, "authenticated|ada+admin@uni.edu|admin", rec.Body.String())
}

func TestSessionRejectsBadTokens(t *testing.T) {
	f := newFactory()
	e := echo.New()
	e.Use(Session(testSecret, f))
	e.GET("/who", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/who", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/who", "Bearer not-a-jwt").Code)

	other, err := utils.NewSessionToken("other-secret", "sid", time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/who", "Bearer "+other.Token).Code)
}

func TestSessionWithLoggedOutRecordIsAnonymous(t *testing.T) {
	f := newFactory()
	auth := bearer(t, f, "bob@uni.edu")
	sid, err := utils.ParseSessionToken(testSecret, auth[len("Bearer "):])
	require.NoError(t, err)
	require.NoError(t, f.Store.Delete(context.Background(), identity.SessionKey(sid)))

	e := echo.New()
	e.Use(Session(testSecret, f))
	e.GET("/who", func(c echo.Context) error {
		return c.String(http.StatusOK, identity.FromContext(c.Request().Context()).State().String())
	})
	assert.Equal(t, "anonymous", do(e, http.MethodGet, "/who", auth).Body.String())
}

func TestRequireRole(t *testing.T) {
	f := newFactory()
	e := echo.New()
	e.Use(Session(testSecret, f))
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole(model.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/admin", bearer(t, f, "bob@uni.edu")).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/admin", bearer(t, f, "root+admin@uni.edu")).Code)
}

func TestTokenBucket(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/x", "").Code)
	rec := do(e, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(e, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/x", "").Code)
	}
}

func TestRateKeyUsesCaller(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/tracks", nil), httptest.NewRecorder())
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))

	c.Set("user_id", "1700000000000")
	assert.Equal(t, "rl:user:1700000000000", buildRateKey(cfg, c))
}

func TestRedisCache(t *testing.T) {
	rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "c",
	}
	calls := 0
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb, func(c echo.Context) bool { return c.Request().URL.Path == "/me" }))
	e.GET("/items/:id", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, fmt.Sprintf("%s#%d", c.Param("id"), calls))
	})
	e.POST("/items", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })
	e.GET("/me", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "me")
	})

	rec := do(e, http.MethodGet, "/items/1", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "1#1", rec.Body.String())

	rec = do(e, http.MethodGet, "/items/1", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "1#1", rec.Body.String())

	// a different path param is a different entry
	rec = do(e, http.MethodGet, "/items/2", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "2#2", rec.Body.String())

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/items", "").Code)
	rec = do(e, http.MethodGet, "/items/1", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "1#3", rec.Body.String())

	do(e, http.MethodGet, "/me", "")
	rec = do(e, http.MethodGet, "/me", "")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 5, calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}
