package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/api"
	"github.com/rinesakuci/campus-hub/internal/controller"
	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/storage/memory"
	"github.com/rinesakuci/campus-hub/internal/util"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	log := zap.NewNop().Sugar()
	store := memory.NewStorage()
	docs := memory.NewDocumentStorage()
	tokens := service.NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte("test-secret"),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
	auth := service.NewAuthService(tokens, store, log)
	notify := service.NewNotifyService(docs, log)
	cfg := &util.ServerConfig{Env: util.EnvDevelopment}

	ctrl := controller.NewController(log, auth, notify, store, docs, nil, cfg)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler(log)

	g := e.Group("/api")
	g.POST("/auth/register", ctrl.Register)
	g.POST("/auth/login", ctrl.Login)
	g.POST("/auth/refresh", ctrl.Refresh)
	g.POST("/auth/logout", ctrl.Logout)

	protected := g.Group("", api.AuthRequired(tokens, log))
	admin := api.RequireRole(models.RoleAdmin)
	protected.GET("/courses", ctrl.ListCourses)
	protected.POST("/courses", ctrl.CreateCourse, admin)
	protected.POST("/events", ctrl.CreateEvent, admin)
	protected.POST("/assignments", ctrl.CreateAssignment, admin)
	protected.GET("/comments", ctrl.ListComments)
	protected.POST("/comments", ctrl.CreateComment)

	return e
}

func doJSON(e *echo.Echo, method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, e *echo.Echo, fullName, email, password string, role models.Role) {
	t.Helper()
	body := fmt.Sprintf(`{"fullName":%q,"email":%q,"password":%q,"role":%q}`, fullName, email, password, role)
	rec := doJSON(e, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func login(t *testing.T, e *echo.Echo, email, password string) (models.TokenResponse, *http.Cookie) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := doJSON(e, http.MethodPost, "/api/auth/login", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp, refreshCookie(t, rec)
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == models.RefreshCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", models.RefreshCookieName)
	return nil
}

func TestRegisterLoginFlow(t *testing.T) {
	e := newTestServer(t)

	register(t, e, "Ana", "ana@x.com", "secret123", "")
	resp, cookie := login(t, e, "ana@x.com", "secret123")

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Ana", resp.User.FullName)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	assert.Equal(t, models.RefreshCookiePath, cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"fullName":"Ana 2","email":"Ana@X.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register", `{"email":"ana@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailureIsUniform(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")

	wrongPassword := doJSON(e, http.MethodPost, "/api/auth/login", `{"email":"ana@x.com","password":"wrong"}`)
	unknownEmail := doJSON(e, http.MethodPost, "/api/auth/login", `{"email":"nobody@x.com","password":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRefreshRotatesCookie(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")
	_, cookie := login(t, e, "ana@x.com", "secret123")

	rec := doJSON(e, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) { r.AddCookie(cookie) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rotated := refreshCookie(t, rec)
	assert.NotEqual(t, cookie.Value, rotated.Value)

	// The old value was revoked by the rotation.
	rec = doJSON(e, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) { r.AddCookie(cookie) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/refresh", "", func(r *http.Request) { r.AddCookie(rotated) })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")
	_, cookie := login(t, e, "ana@x.com", "secret123")

	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodPost, "/api/auth/logout", "", func(r *http.Request) { r.AddCookie(cookie) })
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
		assert.Negative(t, refreshCookie(t, rec).MaxAge)
	}

	// Logout without any cookie still reports success.
	rec := doJSON(e, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRoleGating(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")
	register(t, e, "Rina", "rina@x.com", "secret123", models.RoleAdmin)

	student, _ := login(t, e, "ana@x.com", "secret123")
	admin, _ := login(t, e, "rina@x.com", "secret123")

	courseBody := `{"name":"Algorithms","code":"ALG301"}`
	bearer := func(token string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+token) }
	}

	rec := doJSON(e, http.MethodPost, "/api/courses", courseBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/courses", courseBody, bearer(student.AccessToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/courses", courseBody, bearer(admin.AccessToken))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/courses", "", bearer(student.AccessToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALG301")
}

func TestCommentAuthorComesFromToken(t *testing.T) {
	e := newTestServer(t)
	register(t, e, "Ana", "ana@x.com", "secret123", "")
	resp, _ := login(t, e, "ana@x.com", "secret123")

	rec := doJSON(e, http.MethodPost, "/api/comments",
		`{"entityType":"event","entityId":1,"text":"see you there"}`,
		func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.AccessToken) })
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var comment models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	assert.Equal(t, "Ana", comment.AuthorName)
	assert.Equal(t, resp.User.ID, comment.UserID)
	assert.Equal(t, "see you there", comment.Text)
}
