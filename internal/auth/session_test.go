package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/config"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/storage"
)

func newSession(t *testing.T, handler http.Handler) (*Session, *storage.FileStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	client := api.NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, nil)
	return New(client, store, nil), store
}

func loginHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login", "/auth/register":
			w.Write([]byte(`{"token": "tok-1", "user": {"_id": "u1", "name": "Ada", "email": "ada@x.com", "role": "User"}}`))
		case "/auth/logout":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestSession_LoginEstablishesAndPersists(t *testing.T) {
	s, store := newSession(t, loginHandler(t))

	require.NoError(t, s.Login(context.Background(), "ada@x.com", "secret"))

	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "ada@x.com", s.CurrentUser().Email)

	tok, err := store.Load(storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", string(tok))

	var persisted model.User
	require.NoError(t, store.LoadJSON(storage.KeyUser, &persisted))
	assert.Equal(t, "u1", persisted.ObjectID)
}

func TestSession_LoginValidatesLocally(t *testing.T) {
	called := false
	s, _ := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := s.Login(context.Background(), "not-an-email", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.False(t, called, "invalid input must not reach the network")

	err = s.Login(context.Background(), "ada@x.com", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.False(t, called)
}

func TestSession_RegisterValidatesLocally(t *testing.T) {
	called := false
	s, _ := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := s.Register(context.Background(), model.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@x.com",
		Password: "tiny", // below minimum length
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.False(t, called)
}

func TestSession_RestoreFromStorage(t *testing.T) {
	s, store := newSession(t, loginHandler(t))

	require.NoError(t, store.SaveJSON(storage.KeyUser, &model.User{ObjectID: "u1", Email: "ada@x.com"}))
	require.NoError(t, store.Save(storage.KeyToken, []byte("tok-9")))

	require.NoError(t, s.Restore())
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-9", s.Token())
	assert.False(t, s.Loading())
}

func TestSession_RestoreEmptyStore(t *testing.T) {
	s, _ := newSession(t, loginHandler(t))
	require.NoError(t, s.Restore())
	assert.False(t, s.Authenticated())
}

func TestSession_RestoreDropsOrphanedUser(t *testing.T) {
	s, store := newSession(t, loginHandler(t))

	// User persisted but no token: the identity is unusable
	require.NoError(t, store.SaveJSON(storage.KeyUser, &model.User{ObjectID: "u1"}))

	require.NoError(t, s.Restore())
	assert.False(t, s.Authenticated())

	exists, err := store.Exists(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSession_LogoutClearsEverything(t *testing.T) {
	s, store := newSession(t, loginHandler(t))
	require.NoError(t, s.Login(context.Background(), "ada@x.com", "secret"))

	hookRan := false
	s.OnSignOut(func() { hookRan = true })

	s.Logout(context.Background())

	assert.False(t, s.Authenticated())
	assert.Nil(t, s.CurrentUser())
	assert.True(t, hookRan)

	exists, err := store.Exists(storage.KeyToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSession_LogoutSurvivesServerFailure(t *testing.T) {
	s, _ := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token": "tok", "user": {"_id": "u1", "email": "a@x.com"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret"))

	s.Logout(context.Background())
	assert.False(t, s.Authenticated())
}

func TestSession_ExpiredByUnauthorizedResponse(t *testing.T) {
	var authed bool
	s, _ := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token": "tok", "user": {"_id": "u1", "email": "a@x.com"}}`))
		case "/auth/me":
			if authed {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{}`))
		}
	}))
	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret"))
	authed = true

	hookRan := false
	s.OnSignOut(func() { hookRan = true })

	// Any authenticated request bouncing with 401 tears down the session
	_, err := s.api.Me(context.Background())
	require.Error(t, err)

	assert.False(t, s.Authenticated())
	assert.True(t, hookRan)
}

func TestSession_UpdateProfileRequiresSession(t *testing.T) {
	s, _ := newSession(t, loginHandler(t))

	err := s.UpdateProfile(context.Background(), model.ProfileUpdate{Name: "New"})
	assert.ErrorIs(t, err, errs.ErrNoSession)

	err = s.UpdatePassword(context.Background(), model.PasswordUpdate{})
	assert.ErrorIs(t, err, errs.ErrNoSession)
}

func TestSession_UpdateProfileMergesResponse(t *testing.T) {
	s, store := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token": "tok", "user": {"_id": "u1", "name": "Ada", "email": "a@x.com"}}`))
		case "/auth/update":
			w.Write([]byte(`{"_id": "u1", "name": "Ada Lovelace", "email": "a@x.com"}`))
		}
	}))
	require.NoError(t, s.Login(context.Background(), "a@x.com", "secret"))

	require.NoError(t, s.UpdateProfile(context.Background(), model.ProfileUpdate{Name: "Ada Lovelace"}))
	assert.Equal(t, "Ada Lovelace", s.CurrentUser().Name)

	var persisted model.User
	require.NoError(t, store.LoadJSON(storage.KeyUser, &persisted))
	assert.Equal(t, "Ada Lovelace", persisted.Name)
}

func TestSession_TokenClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	s, store := newSession(t, loginHandler(t))
	require.NoError(t, store.SaveJSON(storage.KeyUser, &model.User{ObjectID: "u1"}))
	require.NoError(t, store.Save(storage.KeyToken, []byte(signed)))
	require.NoError(t, s.Restore())

	claims, err := s.TokenClaims()
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestSession_TokenClaimsNoSession(t *testing.T) {
	s, _ := newSession(t, loginHandler(t))
	_, err := s.TokenClaims()
	assert.ErrorIs(t, err, errs.ErrNoSession)
}
