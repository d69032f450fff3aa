package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/studentdev-hub/internal/config"
	"github.com/iliyamo/studentdev-hub/internal/identity"
	"github.com/iliyamo/studentdev-hub/internal/kvstore"
	"github.com/iliyamo/studentdev-hub/internal/model"
	"github.com/iliyamo/studentdev-hub/internal/utils"
)

const testSecret = "test-secret"

type testApp struct {
	*App
	t     *testing.T
	store kvstore.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := kvstore.NewMemory()
	app := New(Deps{
		Cfg:   config.Config{JWTSecret: testSecret, SessionTTL: time.Hour},
		Store: store,
	})
	return &testApp{App: app, t: t, store: store}
}

// call sends body (marshalled unless it is a string) and returns the recorder.
func (a *testApp) call(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(a.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type session struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type mutation[T any] struct {
	Applied bool `json:"applied"`
	Item    T    `json:"item"`
}

func (a *testApp) login(email string) session {
	a.t.Helper()
	rec := a.call(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[session](a.t, rec)
}

func (a *testApp) resources() []model.Resource {
	a.t.Helper()
	rec := a.call(http.MethodGet, "/v1/resources", "", nil)
	require.Equal(a.t, http.StatusOK, rec.Code)
	return decode[[]model.Resource](a.t, rec)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)
	rec := a.call(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	a.call(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "m@uni.edu"})
	rec = a.call(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "studentdev_logins_total")
}

func TestScenarioAdminCreatesUserCannotDelete(t *testing.T) {
	a := newTestApp(t)

	rec := a.call(http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email":     "j.doe+admin@uni.edu",
		"firstName": "Jane",
		"lastName":  "Doe",
		"password":  "ignored",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	admin := decode[session](t, rec)
	assert.Equal(t, model.RoleAdmin, admin.User.Role)
	assert.Equal(t, "Jane", admin.User.FirstName)

	before := a.resources()
	maxID := 0
	for _, r := range before {
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	rec = a.call(http.MethodPost, "/v1/resources", admin.Token, map[string]string{"title": "X"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[mutation[model.Resource]](t, rec)
	assert.True(t, created.Applied)
	assert.Equal(t, maxID+1, created.Item.ID)
	assert.Len(t, a.resources(), len(before)+1)

	user := a.login("student@uni.edu")
	assert.Equal(t, model.RoleUser, user.User.Role)
	rec = a.call(http.MethodDelete, fmt.Sprintf("/v1/resources/%d", created.Item.ID), user.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, a.resources(), len(before)+1)

	// the manager rejects it too, without the route guard
	u := user.User
	assert.False(t, a.Catalog.Resources.Delete(&u, created.Item.ID))
	assert.Len(t, a.resources(), len(before)+1)
}

func TestScenarioGuestSubmissionStaysUneditable(t *testing.T) {
	a := newTestApp(t)
	const path = "/v1/boards/project_1/submissions"

	rec := a.call(http.MethodPost, path, "", map[string]string{"title": "My write-up"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	posted := decode[mutation[model.Submission]](t, rec)
	assert.Equal(t, "Guest", posted.Item.Author)
	assert.Equal(t, "", posted.Item.Email)

	s := a.login("a@b.com")
	rec = a.call(http.MethodPatch, path+"/"+posted.Item.ID, s.Token, map[string]string{"title": "hijacked"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[mutation[model.Submission]](t, rec).Applied)

	got, ok := a.Board.Get("project_1", posted.Item.ID)
	require.True(t, ok)
	assert.Equal(t, "My write-up", got.Title)
}

func TestOwnerEditsOwnSubmissionAndResponse(t *testing.T) {
	a := newTestApp(t)
	const path = "/v1/boards/track_cyber_module_2/submissions"
	owner := a.login("ada@uni.edu")
	other := a.login("bob@uni.edu")

	rec := a.call(http.MethodPost, path, owner.Token, map[string]string{"title": "Lab 2", "notes": "n"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sub := decode[mutation[model.Submission]](t, rec).Item
	assert.Equal(t, "Ada", sub.Author)

	rec = a.call(http.MethodPatch, path+"/"+sub.ID, owner.Token, map[string]string{"result": "passed"})
	edited := decode[mutation[model.Submission]](t, rec)
	assert.True(t, edited.Applied)
	assert.Equal(t, "passed", edited.Item.Result)
	assert.Equal(t, "Lab 2", edited.Item.Title)
	assert.Equal(t, sub.TS, edited.Item.TS)

	rec = a.call(http.MethodPost, path+"/"+sub.ID+"/responses", other.Token, map[string]string{"text": "  nice  "})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[mutation[model.Response]](t, rec).Item
	assert.Equal(t, "nice", resp.Text)

	rec = a.call(http.MethodPatch, path+"/"+sub.ID+"/responses/"+resp.ID, owner.Token, map[string]string{"text": "mine now"})
	assert.False(t, decode[mutation[model.Response]](t, rec).Applied)

	rec = a.call(http.MethodPatch, path+"/"+sub.ID+"/responses/"+resp.ID, other.Token, map[string]string{"text": "very nice"})
	assert.True(t, decode[mutation[model.Response]](t, rec).Applied)

	rec = a.call(http.MethodGet, path, "", nil)
	subs := decode[[]model.Submission](t, rec)
	require.Len(t, subs, 1)
	require.Len(t, subs[0].Responses, 1)
	assert.Equal(t, "very nice", subs[0].Responses[0].Text)

	// only admins delete
	assert.Equal(t, http.StatusForbidden, a.call(http.MethodDelete, path+"/"+sub.ID, owner.Token, nil).Code)
	admin := a.login("mod+admin@uni.edu")
	rec = a.call(http.MethodDelete, path+"/"+sub.ID, admin.Token, nil)
	assert.True(t, decode[mutation[model.Submission]](t, rec).Applied)
	assert.Empty(t, decode[[]model.Submission](t, a.call(http.MethodGet, path, "", nil)))
}

func TestBlankTitleIsRejected(t *testing.T) {
	a := newTestApp(t)
	rec := a.call(http.MethodPost, "/v1/boards/project_1/submissions", "", map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Contains(t, body["fields"], "title")
}

func TestCorruptSessionRecordIsDiscarded(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.store.Set(ctx, identity.SessionKey("sid-1"), []byte("{not json")))
	tok, err := utils.NewSessionToken(testSecret, "sid-1", time.Hour, time.Now())
	require.NoError(t, err)

	rec := a.call(http.MethodGet, "/v1/me", tok.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "anonymous", me["state"])
	assert.Nil(t, me["user"])

	_, err = a.store.Get(ctx, identity.SessionKey("sid-1"))
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLogoutIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	s := a.login("ada@uni.edu")

	rec := a.call(http.MethodGet, "/v1/me", s.Token, nil)
	assert.Equal(t, "authenticated", decode[map[string]interface{}](t, rec)["state"])

	assert.Equal(t, http.StatusNoContent, a.call(http.MethodPost, "/v1/auth/logout", s.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.call(http.MethodPost, "/v1/auth/logout", s.Token, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.call(http.MethodPost, "/v1/auth/logout", "", nil).Code)

	rec = a.call(http.MethodGet, "/v1/me", s.Token, nil)
	assert.Equal(t, "anonymous", decode[map[string]interface{}](t, rec)["state"])
}

func TestLoginValidation(t *testing.T) {
	a := newTestApp(t)

	rec := a.call(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email"`)

	rec = a.call(http.MethodPost, "/v1/auth/login", "", `{"email":"a@b.com","remember":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchRejectsUnknownFields(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")

	rec := a.call(http.MethodPatch, "/v1/tracks/1", admin.Token, `{"titel":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.call(http.MethodPatch, "/v1/tracks/1", admin.Token, `{"title":"Java"}`)
	updated := decode[mutation[model.Track]](t, rec)
	assert.True(t, updated.Applied)
	assert.Equal(t, "Java", updated.Item.Title)
	assert.Equal(t, "/tracks/java", updated.Item.Path)

	rec = a.call(http.MethodPatch, "/v1/tracks/99", admin.Token, `{"title":"ghost"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[mutation[model.Track]](t, rec).Applied)
}

func TestDeletingTrackDropsItsModules(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")

	rec := a.call(http.MethodGet, "/v1/tracks/3/modules", "", nil)
	assert.Len(t, decode[[]model.Module](t, rec), 10)

	rec = a.call(http.MethodDelete, "/v1/tracks/3", admin.Token, nil)
	assert.True(t, decode[mutation[model.Track]](t, rec).Applied)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/tracks/3/modules", "", nil).Code)
	assert.NotContains(t, a.Catalog.Modules.Scopes(), "3")
}

func TestModulesOfNewTrack(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")

	rec := a.call(http.MethodPost, "/v1/tracks/1/modules", admin.Token, map[string]string{"title": "Streams", "level": "Beginner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	m := decode[mutation[model.Module]](t, rec)
	assert.Equal(t, 1, m.Item.ID)

	rec = a.call(http.MethodPatch, "/v1/tracks/1/modules/1", admin.Token, map[string]bool{"completed": true})
	assert.True(t, decode[mutation[model.Module]](t, rec).Item.Completed)
}

func TestAttachments(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")
	const path = "/v1/attachments/project_1"

	rec := a.call(http.MethodPost, path, admin.Token, map[string]string{"title": "Brief", "url": "https://example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	link := decode[mutation[model.Attachment]](t, rec).Item
	assert.Equal(t, model.AttachmentLink, link.Variant)
	assert.Equal(t, 1, link.ID)

	rec = a.call(http.MethodPost, path, admin.Token, map[string]string{"title": "Hello", "variant": "rich", "exampleCode": "print(1)"})
	assert.Equal(t, 2, decode[mutation[model.Attachment]](t, rec).Item.ID)

	rec = a.call(http.MethodPost, path, admin.Token, map[string]string{"title": "?", "variant": "video"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// ids are per scope
	rec = a.call(http.MethodPost, "/v1/attachments/activity_2", admin.Token, map[string]string{"title": "Guide"})
	assert.Equal(t, 1, decode[mutation[model.Attachment]](t, rec).Item.ID)

	assert.Len(t, decode[[]model.Attachment](t, a.call(http.MethodGet, path, "", nil)), 2)
	assert.Empty(t, decode[[]model.Attachment](t, a.call(http.MethodGet, "/v1/attachments/unknown", "", nil)))
	assert.Equal(t, http.StatusBadRequest, a.call(http.MethodGet, "/v1/attachments/bad%20scope", "", nil).Code)
}

func TestRecreatedProjectStartsClean(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")
	const (
		attachments = "/v1/attachments/project_4"
		board       = "/v1/boards/project_4/submissions"
	)

	rec := a.call(http.MethodPost, attachments, admin.Token, map[string]string{"title": "Brief", "url": "https://example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.call(http.MethodPost, board, "", map[string]string{"title": "My portfolio"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.call(http.MethodDelete, "/v1/projects/4", admin.Token, nil)
	require.True(t, decode[mutation[model.Project]](t, rec).Applied)

	// project 4 was the highest id, so the next project reuses it
	rec = a.call(http.MethodPost, "/v1/projects", admin.Token, map[string]string{"title": "Landing Page", "track": "Frontend"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, 4, decode[mutation[model.Project]](t, rec).Item.ID)

	assert.Empty(t, decode[[]model.Attachment](t, a.call(http.MethodGet, attachments, "", nil)))
	assert.Empty(t, decode[[]model.Submission](t, a.call(http.MethodGet, board, "", nil)))
}

func TestDeletingModuleClearsItsScope(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")
	const scope = "track_cyber_module_10"

	rec := a.call(http.MethodPost, "/v1/attachments/"+scope, admin.Token, map[string]string{"title": "Lab"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.call(http.MethodPost, "/v1/boards/"+scope+"/submissions", "", map[string]string{"title": "Forensics write-up"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.call(http.MethodDelete, "/v1/tracks/3/modules/10", admin.Token, nil)
	require.True(t, decode[mutation[model.Module]](t, rec).Applied)

	assert.NotContains(t, a.Catalog.Attachments.Scopes(), scope)
	assert.Empty(t, a.Board.List(scope))
}

func TestResourceChat(t *testing.T) {
	a := newTestApp(t)
	ada := a.login("ada@uni.edu")
	bob := a.login("bob@uni.edu")
	const path = "/v1/resources/1/messages"

	rec := a.call(http.MethodPost, path, ada.Token, map[string]string{"text": "Is this still current?"})
	require.Equal(t, http.StatusCreated, rec.Code)
	msg := decode[mutation[model.Message]](t, rec).Item

	rec = a.call(http.MethodPatch, path+"/"+msg.ID, bob.Token, map[string]string{"text": "edited"})
	assert.False(t, decode[mutation[model.Message]](t, rec).Applied)

	rec = a.call(http.MethodPatch, path+"/"+msg.ID, ada.Token, map[string]string{"text": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodDelete, path+"/"+msg.ID, ada.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/resources/999/messages", "", nil).Code)

	// deleting the resource drops its chat
	admin := a.login("root+admin@uni.edu")
	rec = a.call(http.MethodDelete, "/v1/resources/1", admin.Token, nil)
	assert.True(t, decode[mutation[model.Resource]](t, rec).Applied)
	assert.Empty(t, a.Chat.Messages(1))
}

func TestResourceEmbedID(t *testing.T) {
	a := newTestApp(t)
	rec := a.call(http.MethodGet, "/v1/resources/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "eIrMbAQSU34", body["embedId"])
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/v1/resources/999", "", nil).Code)
}

func TestAllowList(t *testing.T) {
	a := newTestApp(t)
	admin := a.login("root+admin@uni.edu")
	user := a.login("boss@uni.edu")
	assert.Equal(t, model.RoleUser, user.User.Role)

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/v1/admin/allow-list", user.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.call(http.MethodGet, "/v1/admin/allow-list", "", nil).Code)

	rec := a.call(http.MethodPut, "/v1/admin/allow-list", admin.Token, map[string][]string{"emails": {"Boss@Uni.edu", "boss@uni.edu"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []interface{}{"boss@uni.edu"}, decode[map[string]interface{}](t, rec)["emails"])

	// the existing session keeps its role until it logs in again
	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/v1/admin/allow-list", user.Token, nil).Code)
	again := a.login("Boss@uni.edu")
	assert.Equal(t, model.RoleAdmin, again.User.Role)
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/v1/admin/allow-list", again.Token, nil).Code)
}
