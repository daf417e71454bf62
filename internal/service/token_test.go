package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/util"
)

func newTestTokenService(secret string) *TokenService {
	return NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte(secret),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       42,
		FullName: "Ana Dervishi",
		Email:    "ana@x.com",
		Role:     models.RoleStudent,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService("test-secret")

	token, err := ts.CreateAccessToken(testUser(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := ts.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, models.RoleStudent, identity.Role)
	assert.Equal(t, "Ana Dervishi", identity.FullName)
}

func TestParseAccessToken_Expired(t *testing.T) {
	ts := newTestTokenService("test-secret")

	// Issued long enough ago that leeway cannot save it.
	token, err := ts.CreateAccessToken(testUser(), time.Now().Add(-16*time.Minute))
	require.NoError(t, err)

	_, err = ts.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := newTestTokenService("secret-a").CreateAccessToken(testUser(), time.Now())
	require.NoError(t, err)

	_, err = newTestTokenService("secret-b").ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	ts := newTestTokenService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}

func TestNewRefreshValue(t *testing.T) {
	ts := newTestTokenService("test-secret")

	v1, err := ts.NewRefreshValue()
	require.NoError(t, err)
	v2, err := ts.NewRefreshValue()
	require.NoError(t, err)

	// 32 random bytes, hex encoded.
	assert.Len(t, v1, 64)
	assert.NotEqual(t, v1, v2)
}

func TestHashTokenDeterministic(t *testing.T) {
	ts := newTestTokenService("test-secret")

	v, err := ts.NewRefreshValue()
	require.NoError(t, err)

	assert.Equal(t, ts.HashToken(v), ts.HashToken(v))
	assert.NotEqual(t, ts.HashToken(v), ts.HashToken(v+"x"))
	assert.NotEqual(t, v, ts.HashToken(v))
}
