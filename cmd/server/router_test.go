package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/handlers"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/internal/oauth"
	"github.com/thereayou/noticeboard/internal/services"
	"github.com/thereayou/noticeboard/internal/testutil"
	ws "github.com/thereayou/noticeboard/internal/websocket"
	"github.com/thereayou/noticeboard/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string              `json:"status"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type apiFixture struct {
	t      *testing.T
	router *gin.Engine
	db     *database.Database
	jwt    *auth.JWTManager
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewDB(t)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	blacklist := auth.NewMemoryBlacklist()
	hub := ws.NewHub()
	log, _ := test.NewNullLogger()

	authSvc := services.NewAuthService(db, jwtMgr)
	providers := oauth.NewRegistry()

	router, err := NewRouter(Handlers{
		Auth:          handlers.NewAuthHandler(authSvc, jwtMgr, blacklist),
		OAuth:         handlers.NewOAuthHandler(providers, oauth.NewMemoryStateStore(), authSvc, "http://localhost:3000", log),
		Providers:     providers,
		Posts:         handlers.NewPostHandler(db, services.NewNotificationService(db, hub)),
		Users:         handlers.NewUserHandler(db),
		Categories:    handlers.NewCategoryHandler(db),
		WebSocket:     handlers.NewWebSocketHandler(hub, nil, log),
		Health:        handlers.NewHealthHandler(db),
		Authenticator: middleware.NewAuthenticator(jwtMgr, blacklist, db),
		AuthLimiter:   middleware.NewRateLimiter(1000, 1000),
		Log:           log,
	})
	require.NoError(t, err)

	return &apiFixture{t: t, router: router, db: db, jwt: jwtMgr}
}

func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (f *apiFixture) token(u *models.User) string {
	f.t.Helper()
	tok, err := f.jwt.Generate(auth.Identity{ID: u.ID, UUID: u.UUID.String(), Email: u.Email, Role: string(u.Role)})
	require.NoError(f.t, err)
	return tok
}

func (f *apiFixture) register(username string) string {
	f.t.Helper()
	w, env := f.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"name":     "Test " + username,
		"location": "chandigarh",
	})
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(f.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(f.t, res.Token)
	return res.Token
}

func (f *apiFixture) categoryID(name models.CategoryName) uint {
	f.t.Helper()
	c, err := f.db.GetCategoryByName(context.Background(), string(name))
	require.NoError(f.t, err)
	return c.ID
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestLostWalletFlow(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")
	bob := api.register("bob")

	w, env := api.do(http.MethodPost, "/api/posts", alice, map[string]interface{}{
		"title":       "Lost wallet",
		"description": "Brown leather wallet lost near sector 17 market",
		"categoryId":  api.categoryID(models.CategoryHelp),
		"location":    "chandigarh",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData[models.PostWithDetails](t, env)
	assert.Equal(t, int64(0), created.ViewCount)
	assert.Equal(t, models.VisibilityPublic, created.Visibility)
	assert.Equal(t, "alice", created.User.Username)

	path := "/api/posts/" + created.UUID.String()

	w, env = api.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	anon := decodeData[models.PostWithDetails](t, env)
	assert.Equal(t, int64(1), anon.ViewCount)
	assert.Nil(t, anon.IsLiked)
	assert.Nil(t, anon.IsSaved)
	assert.Nil(t, anon.IsFollowed)

	w, env = api.do(http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post liked successfully", env.Message)

	w, env = api.do(http.MethodGet, path, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	seen := decodeData[models.PostWithDetails](t, env)
	assert.Equal(t, int64(1), seen.LikeCount)
	require.NotNil(t, seen.IsLiked)
	assert.True(t, *seen.IsLiked)
	require.NotNil(t, seen.IsSaved)
	assert.False(t, *seen.IsSaved)

	// повторный лайк не создаёт вторую запись
	w, _ = api.do(http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = api.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, int64(1), decodeData[models.PostWithDetails](t, env).LikeCount)

	w, _ = api.do(http.MethodDelete, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = api.do(http.MethodGet, path, "", nil)
	assert.Equal(t, int64(0), decodeData[models.PostWithDetails](t, env).LikeCount)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	api := newAPI(t)
	api.register("alice")

	w, env := api.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret123",
		"name":     "Another Alice",
		"location": "amritsar",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Username already exists", env.Message)
	assert.Contains(t, env.Errors, "username")
}

func TestRegisterValidation(t *testing.T) {
	api := newAPI(t)

	w, env := api.do(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "al",
		"email":    "not-an-email",
		"password": "secret123",
		"name":     "Alice",
		"location": "atlantis",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation error", env.Message)
	assert.Contains(t, env.Errors, "username")
	assert.Contains(t, env.Errors, "email")
	assert.Equal(t, []string{"Unknown location"}, env.Errors["location"])
}

func TestLoginAndLogout(t *testing.T) {
	api := newAPI(t)
	api.register("alice")

	w, env := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Message)

	w, env = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeData[struct {
		Token string `json:"token"`
	}](t, env).Token

	w, _ = api.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", env.Message)

	w, _ = api.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostRejectsForeignSubcategory(t *testing.T) {
	api := newAPI(t)
	alice := api.register("alice")

	jobs, err := api.db.GetCategory(context.Background(), api.categoryID(models.CategoryJobs))
	require.NoError(t, err)
	require.NotEmpty(t, jobs.Subcategories)

	w, env := api.do(http.MethodPost, "/api/posts", alice, map[string]interface{}{
		"title":         "Selling my old sofa",
		"description":   "Three seater sofa in good condition",
		"categoryId":    api.categoryID(models.CategorySale),
		"subcategoryId": jobs.Subcategories[0].ID,
		"location":      "ludhiana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "subcategoryId")

	w, env = api.do(http.MethodPost, "/api/posts", alice, map[string]interface{}{
		"title":       "Tiny",
		"description": "short",
		"categoryId":  api.categoryID(models.CategorySale),
		"location":    "ludhiana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "title")
	assert.Contains(t, env.Errors, "description")
}

func TestFeedFiltersAndPrivatePosts(t *testing.T) {
	api := newAPI(t)
	alice := testutil.CreateUser(t, api.db, "alice")

	testutil.CreatePost(t, api.db, alice)
	testutil.CreatePost(t, api.db, alice, testutil.InLocation(models.LocationAmritsar))
	testutil.CreatePost(t, api.db, alice, testutil.Private())

	_, env := api.do(http.MethodGet, "/api/posts", "", nil)
	page := decodeData[models.PostPage](t, env)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.Limit)

	_, env = api.do(http.MethodGet, "/api/posts?location=amritsar", "", nil)
	page = decodeData[models.PostPage](t, env)
	require.Len(t, page.Data, 1)
	assert.Equal(t, models.LocationAmritsar, page.Data[0].Location)

	w, env := api.do(http.MethodGet, "/api/posts/user", api.token(alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decodeData[models.PostPage](t, env).Meta.Total)

	w, _ = api.do(http.MethodGet, "/api/posts?limit=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostOwnershipAndAdminDelete(t *testing.T) {
	api := newAPI(t)
	alice := testutil.CreateUser(t, api.db, "alice")
	bob := testutil.CreateUser(t, api.db, "bob")
	admin := testutil.CreateUser(t, api.db, "root", func(u *models.User) { u.Role = models.RoleAdmin })
	post := testutil.CreatePost(t, api.db, alice)
	path := "/api/posts/" + post.UUID.String()

	w, env := api.do(http.MethodPut, path, api.token(bob), map[string]string{"title": "Hijacked title"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only update your own posts", env.Message)

	w, env = api.do(http.MethodPut, path, api.token(alice), map[string]string{"title": "Bicycle sold out"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bicycle sold out", decodeData[models.PostWithDetails](t, env).Title)

	w, _ = api.do(http.MethodDelete, "/api/admin/posts/"+post.UUID.String(), api.token(bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodDelete, "/api/admin/posts/"+post.UUID.String(), api.token(admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post deleted successfully", env.Message)

	w, env = api.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", env.Message)
}

func TestCommentsLifecycle(t *testing.T) {
	api := newAPI(t)
	alice := testutil.CreateUser(t, api.db, "alice")
	bob := testutil.CreateUser(t, api.db, "bob")
	post := testutil.CreatePost(t, api.db, alice)
	path := "/api/posts/" + post.UUID.String() + "/comments"

	w, env := api.do(http.MethodPost, path, api.token(bob), map[string]string{"content": "Is it still available?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decodeData[struct {
		ID   uint `json:"id"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}](t, env)
	assert.Equal(t, "bob", comment.User.Username)

	_, env = api.do(http.MethodGet, path, "", nil)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	deletePath := path + "/" + strconv.FormatUint(uint64(comment.ID), 10)
	w, _ = api.do(http.MethodDelete, deletePath, api.token(alice), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = api.do(http.MethodDelete, deletePath, api.token(bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Comment deleted successfully", env.Message)
}

func TestPrivateProfile(t *testing.T) {
	api := newAPI(t)
	hidden := testutil.CreateUser(t, api.db, "hidden", func(u *models.User) { u.Visibility = models.VisibilityPrivate })
	path := "/api/users/" + hidden.UUID.String()

	w, env := api.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "This profile is private", env.Message)

	w, _ = api.do(http.MethodGet, path, api.token(hidden), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownRouteAndHealth(t *testing.T) {
	api := newAPI(t)

	w, env := api.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Message)

	w, _ = api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/uploads/image", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoriesEndpoints(t *testing.T) {
	api := newAPI(t)
	jobsID := api.categoryID(models.CategoryJobs)

	w, env := api.do(http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, len(models.Taxonomy))

	w, env = api.do(http.MethodGet, "/api/subcategories?categoryId="+strconv.FormatUint(uint64(jobsID), 10), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	assert.Len(t, subs, 2)

	w, env = api.do(http.MethodGet, "/api/categories/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", env.Message)

	w, _ = api.do(http.MethodGet, "/api/subcategories?categoryId=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (f *apiFixture) doRaw(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestMalformedInputIsClientError(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		message string
	}{
		{"empty login body", http.MethodPost, "/api/auth/login", "", "Request body is required"},
		{"empty register body", http.MethodPost, "/api/auth/register", "", "Request body is required"},
		{"truncated body", http.MethodPost, "/api/auth/login", `{"email":"a@x.com"`, "Invalid request body"},
		{"broken json", http.MethodPost, "/api/auth/login", `{"email":}`, "Invalid request body"},
		{"non-numeric page", http.MethodGet, "/api/posts?page=abc", "", "Invalid query parameters"},
		{"float limit", http.MethodGet, "/api/posts?limit=1e3", "", "Invalid query parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := api.doRaw(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}
