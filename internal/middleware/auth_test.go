package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/roomly/backend/domain"
)

const testSecret = "test-secret"

type fakeSessions struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessions) GetSession(_ context.Context, sessionID string) (*domain.Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func run(sessions *fakeSessions, token string) (*fasthttp.RequestCtx, bool) {
	var nextCalled bool
	handler := JWTAuth(testSecret, sessions, nil)(func(ctx *fasthttp.RequestCtx) {
		nextCalled = true
	})

	ctx := &fasthttp.RequestCtx{}
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	handler(ctx)
	return ctx, nextCalled
}

func TestJWTAuthAcceptsLiveSession(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*domain.Session{
		"sess-1": {ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	token := signToken(t, jwt.MapClaims{
		"user_id":    "user-1",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	ctx, nextCalled := run(sessions, token)
	assert.True(t, nextCalled)
	assert.Equal(t, "user-1", string(ctx.Request.Header.Peek("X-User-ID")))
	assert.Equal(t, "sess-1", string(ctx.Request.Header.Peek("X-Session-ID")))
}

func TestJWTAuthRejectsRevokedSession(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*domain.Session{
		"sess-1": {ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	token := signToken(t, jwt.MapClaims{
		"user_id":    "user-1",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	// Revoke the session. The still-valid signature must no longer be
	// enough to authenticate.
	delete(sessions.sessions, "sess-1")

	ctx, nextCalled := run(sessions, token)
	assert.False(t, nextCalled)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthRejectsSessionUserMismatch(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*domain.Session{
		"sess-1": {ID: "sess-1", UserID: "user-2", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	token := signToken(t, jwt.MapClaims{
		"user_id":    "user-1",
		"session_id": "sess-1",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	ctx, nextCalled := run(sessions, token)
	assert.False(t, nextCalled)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthRejectsMissingClaims(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*domain.Session{}}
	token := signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	ctx, nextCalled := run(sessions, token)
	assert.False(t, nextCalled)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	sessions := &fakeSessions{sessions: map[string]*domain.Session{}}

	ctx, nextCalled := run(sessions, "")
	assert.False(t, nextCalled)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx, nextCalled = run(sessions, "not-a-jwt")
	assert.False(t, nextCalled)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
