package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/service"
	"github.com/rinesakuci/campus-hub/internal/util"
)

func testTokenService() *service.TokenService {
	return service.NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte("test-secret"),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
}

func invokeMiddleware(mw echo.MiddlewareFunc, header string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return c, handler(c)
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	mw := AuthRequired(testTokenService(), zap.NewNop().Sugar())

	_, err := invokeMiddleware(mw, "")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthRequired_BadToken(t *testing.T) {
	mw := AuthRequired(testTokenService(), zap.NewNop().Sugar())

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer "} {
		_, err := invokeMiddleware(mw, header)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, he.Code, "header %q", header)
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	ts := testTokenService()
	token, err := ts.CreateAccessToken(&models.User{ID: 1, FullName: "Ana", Role: models.RoleStudent}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = invokeMiddleware(AuthRequired(ts, zap.NewNop().Sugar()), "Bearer "+token)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthRequired_AttachesIdentity(t *testing.T) {
	ts := testTokenService()
	token, err := ts.CreateAccessToken(&models.User{ID: 7, FullName: "Ana", Role: models.RoleAdmin}, time.Now())
	require.NoError(t, err)

	c, err := invokeMiddleware(AuthRequired(ts, zap.NewNop().Sugar()), "Bearer "+token)
	require.NoError(t, err)

	identity, ok := c.Get(models.MwIdentityKey).(*models.Identity)
	require.True(t, ok)
	assert.Equal(t, int64(7), identity.ID)
	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Equal(t, "Ana", identity.FullName)
}

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	newCtx := func(identity *models.Identity) echo.Context {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/courses", nil), httptest.NewRecorder())
		if identity != nil {
			c.Set(models.MwIdentityKey, identity)
		}
		return c
	}

	t.Run("no identity", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin)(next)(newCtx(nil))
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin)(next)(newCtx(&models.Identity{ID: 1, Role: models.RoleStudent}))
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin, models.RoleStudent)(next)(newCtx(&models.Identity{ID: 1, Role: models.RoleStudent}))
		assert.NoError(t, err)
	})
}
