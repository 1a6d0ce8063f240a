package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomly/backend/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	clone := *user
	clone.ID = "user-" + string(rune('0'+r.nextID))
	r.byEmail[clone.Email] = &clone
	return &clone, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.byEmail[user.Email] = user
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func fixture() (*UseCase, *fakeSessionRepo) {
	sessions := newFakeSessionRepo()
	uc := New(newFakeUserRepo(), sessions, nil, Config{
		JWTSecret:  "test-secret",
		JWTIssuer:  "roomly-test",
		SessionTTL: time.Hour,
	})
	return uc, sessions
}

func TestSignUp(t *testing.T) {
	uc, sessions := fixture()

	creds, err := uc.SignUp(context.Background(), "Alice@Example.com", "correcthorse", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", creds.User.Email)
	assert.NotEmpty(t, creds.Token)
	require.NotNil(t, creds.Session)
	assert.Contains(t, sessions.sessions, creds.Session.ID)

	token, err := jwt.Parse(creds.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, creds.User.ID, claims["user_id"])
	assert.Equal(t, creds.Session.ID, claims["session_id"])
	assert.Equal(t, "roomly-test", claims["iss"])
}

func TestSignUpValidation(t *testing.T) {
	uc, _ := fixture()

	_, err := uc.SignUp(context.Background(), "not-an-email", "correcthorse", "Alice")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.SignUp(context.Background(), "alice@example.com", "short", "Alice")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSignUpDuplicateEmail(t *testing.T) {
	uc, _ := fixture()

	_, err := uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice")
	require.NoError(t, err)

	_, err = uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice Again")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	uc, _ := fixture()

	_, err := uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice")
	require.NoError(t, err)

	creds, err := uc.SignIn(context.Background(), "alice@example.com", "correcthorse")
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)

	_, err = uc.SignIn(context.Background(), "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)

	// An unknown account reads the same as a wrong password.
	_, err = uc.SignIn(context.Background(), "nobody@example.com", "correcthorse")
	assert.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestSignOut(t *testing.T) {
	uc, sessions := fixture()

	creds, err := uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice")
	require.NoError(t, err)

	require.NoError(t, uc.SignOut(context.Background(), creds.Session.ID))
	assert.NotContains(t, sessions.sessions, creds.Session.ID)

	// The deleted session must no longer resolve.
	_, err = uc.GetSession(context.Background(), creds.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestGetSession(t *testing.T) {
	uc, _ := fixture()

	creds, err := uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice")
	require.NoError(t, err)

	session, err := uc.GetSession(context.Background(), creds.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, creds.User.ID, session.UserID)
}

func TestGetSessionExpiredIsPurged(t *testing.T) {
	uc, sessions := fixture()

	creds, err := uc.SignUp(context.Background(), "alice@example.com", "correcthorse", "Alice")
	require.NoError(t, err)

	sessions.sessions[creds.Session.ID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = uc.GetSession(context.Background(), creds.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NotContains(t, sessions.sessions, creds.Session.ID)
}
