package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	mid "cms-service/internal/middleware"
	"cms-service/internal/model"
	"cms-service/internal/storage/fs"
	"cms-service/pkg/config"
	"cms-service/pkg/database"
	"cms-service/pkg/jwtutil"
	"cms-service/prometheus"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	// Prometheus collectors register globally, so this runs exactly once.
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "test"}})
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	os.Exit(m.Run())
}

// newTestServer wires the API routes against a fresh in-memory database,
// mirroring the route table in cmd/main.go.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.ContentType{},
		&model.Category{},
		&model.Tag{},
		&model.Content{},
		&model.ContentCategory{},
		&model.ContentTag{},
		&model.ContentMedia{},
		&model.Media{},
	))
	database.SetDB(db)

	backend, err := fs.NewFSBackend(fs.Config{BaseDir: t.TempDir(), BaseURL: "http://localhost/uploads"})
	require.NoError(t, err)
	SetMediaStorage(backend)

	e := echo.New()

	e.POST("/api/auth/login", Login)
	e.GET("/api/auth/me", Me, mid.AuthMiddleware)

	orgAPI := e.Group("/api/organizations", mid.AuthMiddleware)
	orgAPI.GET("", ListOrganizations)
	orgAPI.POST("", CreateOrganization)
	orgAPI.GET("/:id", GetOrganization)
	orgAPI.PUT("/:id", UpdateOrganization)
	orgAPI.DELETE("/:id", DeleteOrganization)

	userAPI := e.Group("/api/users", mid.AuthMiddleware)
	userAPI.POST("", CreateUser)
	userAPI.DELETE("/:id", DeleteUser)

	typeAPI := e.Group("/api/content-types", mid.AuthMiddleware)
	typeAPI.POST("", CreateContentType)

	contentAPI := e.Group("/api/content", mid.AuthMiddleware)
	contentAPI.GET("", ListContent)
	contentAPI.GET("/:id", GetContent)
	contentAPI.POST("", CreateContent)
	contentAPI.PUT("/:id", UpdateContent)
	contentAPI.POST("/:id/publish", PublishContent)
	contentAPI.DELETE("/:id", DeleteContent)

	mediaAPI := e.Group("/api/media", mid.AuthMiddleware)
	mediaAPI.POST("", UploadMedia)

	e.GET("/api/public/:orgSlug/content", PublicListContent)
	e.GET("/api/public/:orgSlug/content/:slug", PublicGetContent)

	return e
}

func seedOrg(t *testing.T, name, slug string) *model.Organization {
	t.Helper()
	org := model.Organization{Name: name, Slug: slug, Active: true}
	require.NoError(t, database.GetDB().Create(&org).Error)
	return &org
}

func seedUser(t *testing.T, orgID uint, email, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{
		Email:          email,
		Username:       username,
		Password:       string(hash),
		Role:           role,
		OrganizationID: orgID,
		Active:         true,
	}
	require.NoError(t, database.GetDB().Create(&user).Error)
	return &user
}

func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	user := seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)

	rec := doJSON(e, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": user.Email, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "nobody@acme.io", "password": "secret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Deactivated users fail with the same message.
	require.NoError(t, database.GetDB().Model(user).Update("active", false).Error)
	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": user.Email, "password": "secret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "invalid credentials", resp.Error)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestPublishLifecycle drives the main editorial flow end to end: draft
// content is invisible on the public surface until published, and the
// publish operation stamps the publish time.
func TestPublishLifecycle(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)
	token := login(t, e, "owner@acme.io", "secret")

	rec := doJSON(e, http.MethodPost, "/api/content-types", token, echo.Map{
		"name": "Post",
		"slug": "post",
		"fields": []echo.Map{
			{"name": "body", "label": "Body", "kind": "richtext", "required": true},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contentType model.ContentType
	decode(t, rec, &contentType)

	rec = doJSON(e, http.MethodPost, "/api/content", token, echo.Map{
		"title":           "Hello World",
		"slug":            "hello-world",
		"data":            echo.Map{"body": "First post."},
		"content_type_id": contentType.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var content model.Content
	decode(t, rec, &content)
	assert.Equal(t, model.StatusDraft, content.Status)
	assert.Nil(t, content.PublishedAt)

	// Draft content is invisible publicly.
	rec = doJSON(e, http.MethodGet, "/api/public/acme/content", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var publicList struct {
		Content    []model.Content `json:"content"`
		Pagination struct {
			Total   int64 `json:"total"`
			HasMore bool  `json:"has_more"`
		} `json:"pagination"`
	}
	decode(t, rec, &publicList)
	assert.Empty(t, publicList.Content)
	assert.Zero(t, publicList.Pagination.Total)

	rec = doJSON(e, http.MethodGet, "/api/public/acme/content/hello-world", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Publish.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/content/%d/publish", content.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var published model.Content
	decode(t, rec, &published)
	assert.Equal(t, model.StatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// Now the public surface serves it.
	rec = doJSON(e, http.MethodGet, "/api/public/acme/content", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &publicList)
	require.Len(t, publicList.Content, 1)
	assert.Equal(t, "hello-world", publicList.Content[0].Slug)
	assert.NotNil(t, publicList.Content[0].PublishedAt)
	assert.Equal(t, int64(1), publicList.Pagination.Total)
	assert.False(t, publicList.Pagination.HasMore)

	rec = doJSON(e, http.MethodGet, "/api/public/acme/content/hello-world", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown tenant slugs 404 before any content lookup.
	rec = doJSON(e, http.MethodGet, "/api/public/ghost/content", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// The publish transition is only reachable through the publish operation,
// which stamps published_at. A plain create or update must not produce a
// published row with no publish timestamp.
func TestPublishOnlyViaPublishOperation(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)
	token := login(t, e, "owner@acme.io", "secret")

	rec := doJSON(e, http.MethodPost, "/api/content-types", token, echo.Map{
		"name": "Post", "slug": "post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contentType model.ContentType
	decode(t, rec, &contentType)

	// Creating as published is rejected outright.
	rec = doJSON(e, http.MethodPost, "/api/content", token, echo.Map{
		"title": "Sneaky", "slug": "sneaky", "status": model.StatusPublished,
		"content_type_id": contentType.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/content", token, echo.Map{
		"title": "Hello", "slug": "hello", "content_type_id": contentType.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var content model.Content
	decode(t, rec, &content)

	// So is publishing through an update.
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/content/%d", content.ID), token, echo.Map{
		"status": model.StatusPublished,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The row is untouched: still draft, still invisible publicly.
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/content/%d", content.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &content)
	assert.Equal(t, model.StatusDraft, content.Status)
	assert.Nil(t, content.PublishedAt)

	rec = doJSON(e, http.MethodGet, "/api/public/acme/content", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var publicList struct {
		Content []model.Content `json:"content"`
	}
	decode(t, rec, &publicList)
	assert.Empty(t, publicList.Content)

	// After a real publish, an update echoing the published status back is
	// an ordinary edit, not a transition.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/content/%d/publish", content.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/content/%d", content.ID), token, echo.Map{
		"title": "Hello Again", "status": model.StatusPublished,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.Content
	decode(t, rec, &updated)
	assert.Equal(t, model.StatusPublished, updated.Status)
	assert.NotNil(t, updated.PublishedAt)
}

func TestRoleEnforcementOnContentWrites(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)
	seedUser(t, org.ID, "editor@acme.io", "editor", "secret", model.RoleEditor)
	seedUser(t, org.ID, "viewer@acme.io", "viewer", "secret", model.RoleViewer)

	ownerToken := login(t, e, "owner@acme.io", "secret")
	editorToken := login(t, e, "editor@acme.io", "secret")
	viewerToken := login(t, e, "viewer@acme.io", "secret")

	rec := doJSON(e, http.MethodPost, "/api/content-types", ownerToken, echo.Map{
		"name": "Post", "slug": "post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contentType model.ContentType
	decode(t, rec, &contentType)

	rec = doJSON(e, http.MethodPost, "/api/content", ownerToken, echo.Map{
		"title": "Hello", "slug": "hello", "content_type_id": contentType.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var content model.Content
	decode(t, rec, &content)

	// Viewers can read but not write.
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/content/%d", content.ID), viewerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/content/%d", content.ID), viewerToken, echo.Map{
		"title": "Changed",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/content/%d/publish", content.ID), viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Editors write within their own organization.
	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/content/%d", content.ID), editorToken, echo.Map{
		"title": "Edited Title",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.Content
	decode(t, rec, &updated)
	assert.Equal(t, "Edited Title", updated.Title)
	assert.Equal(t, "hello", updated.Slug)

	// But not outside it.
	seedOrg(t, "Other", "other")
	rec = doJSON(e, http.MethodGet, "/api/content?organization_id=2", editorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Owners may address any organization explicitly.
	rec = doJSON(e, http.MethodGet, "/api/content?organization_id=2", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrganizationManagementIsOwnerOnly(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)
	seedUser(t, org.ID, "editor@acme.io", "editor", "secret", model.RoleEditor)

	ownerToken := login(t, e, "owner@acme.io", "secret")
	editorToken := login(t, e, "editor@acme.io", "secret")

	rec := doJSON(e, http.MethodPost, "/api/organizations", editorToken, echo.Map{
		"name": "Beta", "slug": "beta",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/organizations", ownerToken, echo.Map{
		"name": "Beta", "slug": "beta",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate slug conflicts.
	rec = doJSON(e, http.MethodPost, "/api/organizations", ownerToken, echo.Map{
		"name": "Beta Two", "slug": "beta",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/organizations", editorToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserSelfDeleteDenied(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	owner := seedUser(t, org.ID, "owner@acme.io", "owner", "secret", model.RoleOwner)
	other := seedUser(t, org.ID, "editor@acme.io", "editor", "secret", model.RoleEditor)

	token := login(t, e, "owner@acme.io", "secret")

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/users/%d", owner.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/users/%d", other.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestMediaUpload(t *testing.T) {
	e := newTestServer(t)
	org := seedOrg(t, "Acme", "acme")
	seedUser(t, org.ID, "editor@acme.io", "editor", "secret", model.RoleEditor)
	token := login(t, e, "editor@acme.io", "secret")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var media model.Media
	decode(t, rec, &media)
	assert.Equal(t, "photo.png", media.OriginalName)
	assert.Equal(t, org.ID, media.OrganizationID)
	assert.NotEmpty(t, media.URL)
}
