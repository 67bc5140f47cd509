// Package auth holds the client's authentication state: the signed-in user,
// the bearer token, and their durable copies. One Session exists per process
// and is the credential source for the API client.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TriAzz/showcase/internal/api"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/logging"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/storage"
)

// Session tracks the signed-in identity. Safe for concurrent use.
type Session struct {
	api   *api.Client
	store *storage.FileStore
	log   *logging.Logger

	mu      sync.RWMutex
	user    *model.User
	token   string
	loading bool

	signOutHooks []func()
}

// New builds a Session and wires it into the API client as both the
// credential source and the expired-session handler.
func New(client *api.Client, store *storage.FileStore, log *logging.Logger) *Session {
	if log == nil {
		log = logging.NopLogger()
	}
	s := &Session{
		api:   client,
		store: store,
		log:   log.WithComponent("auth"),
	}
	client.SetCredentials(s)
	client.OnUnauthorized = s.expire
	return s
}

// Token implements api.CredentialSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns the signed-in user, or nil.
func (s *Session) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Loading is true only while Restore is reading persisted state.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// OnSignOut registers a hook that runs whenever the session ends, whether by
// explicit logout or expiry. Used to drop cached project data.
func (s *Session) OnSignOut(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOutHooks = append(s.signOutHooks, fn)
}

// Restore loads the persisted identity and token, if any. The server is not
// consulted; a stale token surfaces as a 401 on the next request.
func (s *Session) Restore() error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var user model.User
	if err := s.store.LoadJSON(storage.KeyUser, &user); err != nil {
		if err == storage.ErrNotFound {
			return nil
		}
		return errs.Wrap(err, "restoring session")
	}

	tokenBytes, err := s.store.Load(storage.KeyToken)
	if err != nil {
		if err == storage.ErrNotFound {
			// Identity without a credential is useless; drop it.
			_ = s.store.Delete(storage.KeyUser)
			return nil
		}
		return errs.Wrap(err, "restoring session token")
	}

	s.mu.Lock()
	s.user = &user
	s.token = string(tokenBytes)
	s.mu.Unlock()

	s.log.Info("session restored", "user", user.Email)
	return nil
}

// Register creates an account and signs it in. Field validation happens
// locally before any network traffic.
func (s *Session) Register(ctx context.Context, data model.RegisterRequest) error {
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err := s.api.Register(ctx, data)
	if err != nil {
		return err
	}
	s.establish(resp.User, resp.Token)
	s.log.Info("registered", "user", resp.User.Email)
	return nil
}

// Login exchanges credentials for a bearer token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := model.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return errs.NewValidationError("password is required").WithField("password")
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(resp.User, resp.Token)
	s.log.Info("signed in", "user", resp.User.Email)
	return nil
}

// Logout tells the server to end the session, then clears local state
// regardless of whether the server call succeeded.
func (s *Session) Logout(ctx context.Context) {
	if s.Authenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn("server logout failed", "error", err)
		}
	}
	s.clear()
	s.log.Info("signed out")
}

// UpdateProfile updates the signed-in user's profile and merges the server
// response into the cached identity.
func (s *Session) UpdateProfile(ctx context.Context, data model.ProfileUpdate) error {
	if !s.Authenticated() {
		return errs.ErrNoSession
	}

	user, err := s.api.UpdateProfile(ctx, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if err := s.store.SaveJSON(storage.KeyUser, user); err != nil {
		return errs.Wrap(err, "persisting updated profile")
	}
	return nil
}

// UpdatePassword changes the signed-in user's password.
func (s *Session) UpdatePassword(ctx context.Context, data model.PasswordUpdate) error {
	if !s.Authenticated() {
		return errs.ErrNoSession
	}
	if err := data.Validate(); err != nil {
		return err
	}
	return s.api.UpdatePassword(ctx, data)
}

// Claims is the decoded, unverified content of the bearer token. Expiry is
// informational only; the server remains the authority.
type Claims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// TokenClaims decodes the bearer token without verifying its signature.
func (s *Session) TokenClaims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, errs.ErrNoSession
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, errs.Wrap(err, "decoding bearer token")
	}

	claims := &Claims{}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = &iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = &exp.Time
	}
	return claims, nil
}

// establish records a fresh identity in memory and storage.
func (s *Session) establish(user *model.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	if err := s.store.SaveJSON(storage.KeyUser, user); err != nil {
		s.log.Warn("failed to persist user", "error", err)
	}
	if err := s.store.Save(storage.KeyToken, []byte(token)); err != nil {
		s.log.Warn("failed to persist token", "error", err)
	}
}

// Invalidate ends the session after the caller determined the credential is
// dead, such as a listing fetch that exhausted its retries against 401s.
func (s *Session) Invalidate() {
	s.expire()
}

// expire tears the session down after the server rejected the credential.
func (s *Session) expire() {
	if !s.Authenticated() {
		return
	}
	s.log.Warn("session expired")
	s.clear()
}

func (s *Session) clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	hooks := s.signOutHooks
	s.mu.Unlock()

	if err := s.store.Clear(storage.SessionPrefix); err != nil {
		s.log.Warn("failed to clear persisted session", "error", err)
	}
	for _, fn := range hooks {
		fn()
	}
}
