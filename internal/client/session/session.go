// Package session owns the authenticated state of the running portal:
// the bearer credential and the identity it proves. It is an explicit,
// injectable object (not an ambient singleton) with a defined lifecycle:
// Restore at startup, Login/Logout on user action, Invalidate on the first
// rejected request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/client/state"
	"github.com/staffvault/pdfportal/internal/logging"
)

const (
	keyToken    = "token"
	keyIdentity = "identity"
)

// ErrBadBirthdate rejects a malformed birthdate before any network call.
var ErrBadBirthdate = errors.New("birthdate must be YYYY-MM-DD")

// loginClient is the slice of the API the session needs.
type loginClient interface {
	Login(ctx context.Context, companyID, birthdate string) (string, *models.Identity, error)
}

// Session holds the current credential and identity. Safe for concurrent
// reads: the API client calls Token from request goroutines while the UI
// thread mutates state through Login/Logout/Invalidate.
type Session struct {
	store state.Repository
	log   logging.Logger

	mu       sync.RWMutex
	client   loginClient
	token    string
	identity *models.Identity
}

func New(store state.Repository, log logging.Logger) *Session {
	return &Session{store: store, log: log}
}

// SetClient wires the API client. Separate from New because the client and
// the session reference each other (the client reads Token from here).
func (s *Session) SetClient(c loginClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
}

// Restore loads any persisted credential and identity, optimistically
// trusting them until the first rejected request. A missing credential is
// not an error; the session just stays unauthenticated.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, keyToken)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	if len(token) == 0 {
		return nil
	}

	var identity *models.Identity
	raw, err := s.store.Get(ctx, keyIdentity)
	if err != nil {
		return fmt.Errorf("restore identity: %w", err)
	}
	if len(raw) > 0 {
		identity = &models.Identity{}
		if err := json.Unmarshal(raw, identity); err != nil {
			// Corrupt identity row: drop the whole session rather than
			// run with a token we cannot attribute.
			s.log.Warn(ctx, "discarding unreadable persisted identity", "error", err)
			return s.clear(ctx)
		}
	}

	s.mu.Lock()
	s.token = string(token)
	s.identity = identity
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "authenticated", true)
	return nil
}

// Login authenticates against the server and persists the credential.
// The birthdate must be an ISO date; malformed input fails before any
// network call.
func (s *Session) Login(ctx context.Context, companyID, birthdate string) (*models.Identity, error) {
	if _, err := time.Parse("2006-01-02", birthdate); err != nil {
		return nil, ErrBadBirthdate
	}

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()
	if client == nil {
		return nil, errors.New("session: no API client configured")
	}

	token, identity, err := client.Login(ctx, companyID, birthdate)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.mu.Unlock()

	if err := s.persist(ctx, token, identity); err != nil {
		// The in-memory session is valid either way; a persistence failure
		// only costs the user a re-login after restart.
		s.log.Warn(ctx, "failed to persist session", "error", err)
	}

	s.log.Info(ctx, "login successful", "role", string(identity.Role))
	return identity, nil
}

func (s *Session) persist(ctx context.Context, token string, identity *models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	// Token and identity land together or not at all.
	return s.store.SetMany(ctx, map[string][]byte{
		keyToken:    []byte(token),
		keyIdentity: raw,
	})
}

// Logout clears the credential and identity synchronously, in memory and
// on disk.
func (s *Session) Logout(ctx context.Context) error {
	s.log.Info(ctx, "logout")
	return s.clear(ctx)
}

// Invalidate is the forced logout fired when the API rejects the
// credential (401): the token is purged so no further request carries it.
func (s *Session) Invalidate(ctx context.Context) {
	s.log.Warn(ctx, "credential rejected by server, clearing session")
	if err := s.clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear invalidated session", "error", err)
	}
}

func (s *Session) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns the authenticated identity, or nil.
func (s *Session) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// IsAuthenticated reports whether a credential is present.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the current identity has the admin role.
func (s *Session) IsAdmin() bool {
	return s.Current().IsAdmin()
}
