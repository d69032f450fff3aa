package identity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/studentdev-hub/internal/clock"
	"github.com/iliyamo/studentdev-hub/internal/kvstore"
	"github.com/iliyamo/studentdev-hub/internal/model"
	"github.com/iliyamo/studentdev-hub/internal/role"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Factory, *kvstore.Memory, *clock.FakeClock) {
	t.Helper()
	store := kvstore.NewMemory()
	fc := clock.Fake(epoch)
	return &Factory{Store: store, Roles: role.NewResolver(store), Clock: fc}, store, fc
}

func TestLoadWithoutSession(t *testing.T) {
	f, _, _ := setup(t)
	p := f.New("")
	assert.Equal(t, Uninitialized, p.State())
	assert.True(t, p.Loading())

	assert.Equal(t, Anonymous, p.Load(context.Background()))
	assert.False(t, p.Loading())
	_, ok := p.Current()
	assert.False(t, ok)
	assert.Nil(t, p.Caller())
}

func TestLoginPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	f, store, _ := setup(t)

	p := f.New("")
	p.Load(ctx)
	u, err := p.Login(ctx, model.Profile{Email: "j.doe+admin@uni.edu", FirstName: "Jane", LastName: "Doe", University: "Uni"})
	require.NoError(t, err)

	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, epoch, u.JoinedAt)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, p.SessionID())
	assert.Equal(t, Authenticated, p.State())

	raw, err := store.Get(ctx, SessionKey(p.SessionID()))
	require.NoError(t, err)
	var stored model.User
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, u, stored)

	again := f.New(p.SessionID())
	assert.Equal(t, Authenticated, again.Load(ctx))
	got, ok := again.Current()
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestLoginOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	f, _, _ := setup(t)
	p := f.New("")

	first, err := p.Login(ctx, model.Profile{Email: "a+admin@x.com", FirstName: "A"})
	require.NoError(t, err)
	sid := p.SessionID()

	second, err := p.Login(ctx, model.Profile{Email: "b@x.com"})
	require.NoError(t, err)
	assert.Equal(t, sid, p.SessionID())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.RoleUser, second.Role)
	assert.Empty(t, second.FirstName)

	reloaded := f.New(sid)
	reloaded.Load(ctx)
	got, _ := reloaded.Current()
	assert.Equal(t, "b@x.com", got.Email)
}

func TestCorruptRecordIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f, store, _ := setup(t)
	require.NoError(t, store.Set(ctx, SessionKey("sid-1"), []byte("not json at all")))

	p := f.New("sid-1")
	assert.NotPanics(t, func() { p.Load(ctx) })
	assert.Equal(t, Anonymous, p.State())

	_, err := store.Get(ctx, SessionKey("sid-1"))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRecordWithUnknownRoleIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f, store, _ := setup(t)
	require.NoError(t, store.Set(ctx, SessionKey("sid-2"), []byte(`{"id":"1","email":"a@b.com","role":"root"}`)))

	p := f.New("sid-2")
	assert.Equal(t, Anonymous, p.Load(ctx))
	_, err := store.Get(ctx, SessionKey("sid-2"))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f, store, _ := setup(t)
	p := f.New("")
	_, err := p.Login(ctx, model.Profile{Email: "a@b.com"})
	require.NoError(t, err)
	sid := p.SessionID()

	require.NoError(t, p.Logout(ctx))
	stateOnce := p.State()
	_, okOnce := p.Current()

	require.NoError(t, p.Logout(ctx))
	assert.Equal(t, stateOnce, p.State())
	assert.Equal(t, Anonymous, p.State())
	_, okTwice := p.Current()
	assert.Equal(t, okOnce, okTwice)
	assert.False(t, okTwice)

	_, err = store.Get(ctx, SessionKey(sid))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	anon := f.New("")
	assert.NoError(t, anon.Logout(ctx))
}

func TestLoginAfterWaitsForDelay(t *testing.T) {
	ctx := context.Background()
	f, _, fc := setup(t)
	p := f.New("")
	p.Load(ctx)

	done := make(chan model.User, 1)
	go func() {
		u, err := p.LoginAfter(ctx, model.Profile{Email: "a@b.com"}, 600*time.Millisecond)
		assert.NoError(t, err)
		done <- u
	}()

	fc.BlockUntilWaiters(1)
	assert.Equal(t, Anonymous, p.State())
	fc.Advance(600 * time.Millisecond)

	u := <-done
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, Authenticated, p.State())
}

func TestLoginAfterCancelledAppliesNothing(t *testing.T) {
	f, store, fc := setup(t)
	p := f.New("sid-3")
	p.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := p.LoginAfter(ctx, model.Profile{Email: "a@b.com"}, 800*time.Millisecond)
		errc <- err
	}()

	fc.BlockUntilWaiters(1)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	// a late timer firing must not resurrect the login
	fc.Advance(time.Second)
	assert.Equal(t, Anonymous, p.State())
	_, err := store.Get(context.Background(), SessionKey("sid-3"))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestIDsAreUniqueWithinAMillisecond(t *testing.T) {
	ctx := context.Background()
	f, _, _ := setup(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u, err := f.New("").Login(ctx, model.Profile{Email: "a@b.com"})
		require.NoError(t, err)
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}

func TestProfileFromEmail(t *testing.T) {
	assert.Equal(t, model.Profile{Email: "jane@uni.edu", FirstName: "Jane"}, ProfileFromEmail(" jane@uni.edu "))
	assert.Equal(t, model.Profile{Email: "@uni.edu", FirstName: "Member"}, ProfileFromEmail("@uni.edu"))
	assert.Equal(t, "Élodie", ProfileFromEmail("élodie@x.fr").FirstName)
}

func TestFromContext(t *testing.T) {
	f, _, _ := setup(t)
	p := f.New("")

	assert.PanicsWithValue(t, "identity: no Provider in context", func() {
		FromContext(context.Background())
	})

	ctx := WithProvider(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	got, ok := Lookup(ctx)
	assert.True(t, ok)
	assert.Same(t, p, got)

	_, ok = Lookup(context.Background())
	assert.False(t, ok)
}
