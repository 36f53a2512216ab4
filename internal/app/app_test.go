package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spec-kit/portfolio-cms/internal/api/http/handlers"
	"github.com/spec-kit/portfolio-cms/internal/config"
	"github.com/spec-kit/portfolio-cms/internal/domain"
	"github.com/spec-kit/portfolio-cms/internal/repository/gormstore"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	*Server
	db    *gorm.DB
	redis *miniredis.Miniredis
	cfg   *config.Config
	now   time.Time
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "portfolio-cms", Env: "development", Version: "test", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{
			JWTSecret:        "secret",
			RefreshThreshold: 0.2,
			CookieName:       "token",
			QueryParam:       "token",
			RefreshHeader:    "X-Auth-Token",
			FallbackMode:     config.FallbackStoreOutage,
			FallbackAdminID:  1,
			BcryptCost:       4,
			LoginRatePerMin:  100,
			AdminUsername:    "admin",
			AdminPassword:    "hunter22",
		},
		Session: config.SessionConfig{CookieName: "sid", RevocationKey: "auth:revoked:"},
		Media:   config.MediaConfig{Dir: t.TempDir(), URLPrefix: "/uploads", MaxBytes: 1 << 20},
		CORS:    config.CORSConfig{Origins: "http://localhost:3000"},
	}
}

func newTestServer(t *testing.T, checks map[string]handlers.Pinger) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, testConfig(t), checks)
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config, checks map[string]handlers.Pinger) *testServer {
	t.Helper()
	ts := &testServer{cfg: cfg, now: time.Now()}
	db, err := gormstore.Open(fmt.Sprintf("file:app-%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	server, err := New(cfg, Dependencies{
		Store:  gormstore.NewStore(db),
		Redis:  client,
		Checks: checks,
		Clock:  func() time.Time { return ts.now },
	})
	require.NoError(t, err)
	require.NoError(t, server.BootstrapAdmin(context.Background(), cfg.Auth))
	ts.Server, ts.db, ts.redis = server, db, mr
	return ts
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(raw, &out))
	}
	return resp, out
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := s.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])

	names := map[string]bool{}
	for _, c := range resp.Cookies() {
		names[c.Name] = true
		assert.True(t, c.HttpOnly)
	}
	assert.True(t, names["token"])
	assert.True(t, names["sid"])

	resp, body = s.request(t, http.MethodGet, "/api/auth/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", body["user"].(map[string]any)["username"])

	resp, body = s.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", body["message"])
}

func TestAdminRouteRequiresAuthentication(t *testing.T) {
	s := newTestServer(t, nil)

	resp, body := s.request(t, http.MethodGet, "/api/admin/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["message"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	resp, body = s.request(t, http.MethodGet, "/api/admin/projects", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestUserRoleIsForbiddenFromAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, gormstore.NewStore(s.db).Users.Create(context.Background(), &domain.User{Username: "reader", Password: "reader-pass", Role: domain.RoleUser}))
	token := s.login(t, "reader", "reader-pass")

	resp, body := s.request(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["message"])

	resp, _ = s.request(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "hunter22")

	resp, body := s.request(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])

	resp, body = s.request(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])

	resp, _ = s.request(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutRevokesTokensReissuedInSession(t *testing.T) {
	s := newTestServer(t, nil)
	original := s.login(t, "admin", "hunter22")

	s.now = s.now.Add(20 * time.Hour)
	resp, _ := s.request(t, http.MethodGet, "/api/auth/me", original, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refreshed := resp.Header.Get("X-Auth-Token")
	require.NotEmpty(t, refreshed)
	require.NotEqual(t, original, refreshed)

	resp, _ = s.request(t, http.MethodPost, "/api/auth/logout", refreshed, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for name, token := range map[string]string{"original": original, "refreshed": refreshed} {
		resp, _ = s.request(t, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
	}

	other := s.login(t, "admin", "hunter22")
	resp, _ = s.request(t, http.MethodGet, "/api/auth/me", other, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordByteLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.AllowRegistration = true
	s := newTestServerWithConfig(t, cfg, nil)
	long := strings.Repeat("é", 72)

	resp, body := s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "visitor", "password": long})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "pwbytes", body["details"].(map[string]any)["password"])

	token := s.login(t, "admin", "hunter22")
	resp, body = s.request(t, http.MethodPost, "/api/auth/password", token, map[string]string{"current_password": "hunter22", "new_password": long})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	assert.Equal(t, "pwbytes", body["details"].(map[string]any)["new_password"])

	resp, body = s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "visitor", "password": strings.Repeat("é", 36)})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, body)
}

func TestProjectCatalogFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "hunter22")

	resp, body := s.request(t, http.MethodPost, "/api/admin/projects", token, map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "required", body["details"].(map[string]any)["title"])

	resp, body = s.request(t, http.MethodPost, "/api/admin/projects", token, map[string]any{
		"title":      "Fruit Shop",
		"category":   "ecommerce",
		"tech_stack": []string{"Next.js", "Stripe"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	id := int64(body["data"].(map[string]any)["id"].(float64))

	resp, _ = s.request(t, http.MethodGet, "/api/projects/fruit-shop", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.request(t, http.MethodPut, fmt.Sprintf("/api/admin/projects/%d", id), token, map[string]any{
		"title":     "Fruit Shop",
		"slug":      "fruit-shop",
		"category":  "ecommerce",
		"published": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.request(t, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, body = s.request(t, http.MethodGet, "/api/projects/fruit-shop", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fruit Shop", body["data"].(map[string]any)["title"])

	s.Dispatcher.Wait()
	resp, body = s.request(t, http.MethodGet, "/api/admin/activity", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions := map[string]bool{}
	for _, entry := range body["data"].([]any) {
		actions[entry.(map[string]any)["action"].(string)] = true
	}
	assert.True(t, actions["user.logged_in"])
	assert.True(t, actions["project.created"])
	assert.True(t, actions["project.updated"])
}

func TestSettingsFlow(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "hunter22")

	resp, _ := s.request(t, http.MethodPut, "/api/admin/settings/site.title", token, map[string]any{"value": "Portfolio", "public": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.request(t, http.MethodPut, "/api/admin/settings/admin.notes", token, map[string]any{"value": "secret", "public": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := s.request(t, http.MethodGet, "/api/settings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Portfolio", data["site.title"])
	assert.NotContains(t, data, "admin.notes")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/settings/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "admin.notes")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

func TestMediaUploadAndServe(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "hunter22")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "pixel.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("alt_text", "a pixel"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := s.send(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	media := body["data"].(map[string]any)
	assert.Equal(t, "image/png", media["mime_type"])

	resp, err = s.App.Test(httptest.NewRequest(http.MethodGet, media["url"].(string), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangeRoleReachesTokenOnRelogin(t *testing.T) {
	s := newTestServer(t, nil)
	store := gormstore.NewStore(s.db)
	reader := &domain.User{Username: "reader", Password: "reader-pass", Role: domain.RoleUser}
	require.NoError(t, store.Users.Create(context.Background(), reader))
	admin := s.login(t, "admin", "hunter22")

	resp, body := s.request(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/role", reader.ID), admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	token := s.login(t, "reader", "reader-pass")
	resp, _ = s.request(t, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDatabaseOutageFallsBackToAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, "admin", "hunter22")

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, body := s.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "admin", user["role"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
	})
	resp, body := s.request(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])

	failing := newTestServer(t, map[string]handlers.Pinger{
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	resp, body = failing.request(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotEmpty(t, body["message"])

	resp, _ = s.request(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPrometheusEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	resp, _ := s.request(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `portfolio_auth_outcomes_total{outcome="missing"} 1`)
	assert.Contains(t, body, `portfolio_http_errors_total{code="UNAUTHORIZED",method="GET",route="/api/auth/me"} 1`)
	assert.Contains(t, body, "portfolio_http_request_duration_seconds_bucket")
}
