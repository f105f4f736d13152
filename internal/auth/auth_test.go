package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	Secret: "test-secret",
	Issuer: "weekload",
	TTL:    30 * 24 * time.Hour,
}

func TestIssueAndParse(t *testing.T) {
	// Parse checks expiry against the wall clock, so the token must be
	// issued relative to it.
	now := time.Now()

	// when
	token, err := Issue(testConfig, "session-1", "user-uid-1", now)
	require.NoError(t, err)
	claims, err := Parse(token, testConfig)

	// then
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionId)
	assert.Equal(t, "user-uid-1", claims.UserUid)
	assert.Equal(t, now.Add(testConfig.TTL).Unix(), claims.ExpiresAt.Unix())
}

func TestParse_rejections(t *testing.T) {
	now := time.Now()

	t.Run("empty token", func(t *testing.T) {
		_, err := Parse("", testConfig)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := Parse("not.a.token", testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := Issue(Config{Secret: "other-secret", Issuer: "weekload", TTL: time.Hour}, "session-1", "user-uid-1", now)
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := Issue(Config{Secret: "test-secret", Issuer: "someone-else", TTL: time.Hour}, "session-1", "user-uid-1", now)
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := Issue(testConfig, "session-1", "user-uid-1", now.Add(-31*24*time.Hour))
		require.NoError(t, err)
		_, err = Parse(token, testConfig)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBearerToken(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		token, err := BearerToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := BearerToken(req)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		_, err := BearerToken(req)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
