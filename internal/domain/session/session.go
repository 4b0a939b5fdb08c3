package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/finstinct-storefront/internal/backend"
	"github.com/example/finstinct-storefront/internal/infrastructure/store"
)

var ErrInvalidLoginPayload = errors.New("login response has no token or user id")

// Session is the signed-in identity persisted under store.KeyUser
type Session struct {
	User   backend.User `json:"user"`
	Token  string       `json:"token"`
	UserID int64        `json:"userId"`
}

// Store holds the session of one browser profile
type Store struct {
	mu      sync.RWMutex
	profile *store.Profile
	logger  *zap.Logger
	current *Session
}

// Open hydrates the session of profile. Malformed data is logged and the
// profile starts signed out.
func Open(ctx context.Context, profile *store.Profile, logger *zap.Logger) (*Store, error) {
	s := &Store{profile: profile, logger: logger}

	var stored Session
	found, err := profile.GetJSON(ctx, store.KeyUser, &stored)
	switch {
	case err != nil && found:
		logger.Warn("discarding malformed session",
			zap.String("profile", profile.ID()),
			zap.Error(err),
		)
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	case found && stored.Token != "" && stored.UserID > 0:
		s.current = &stored
	}
	return s, nil
}

// Normalize derives a session from a login payload. The user is the nested
// user object when present, else the top-level fields. The user id is userId,
// falling back to id at the top level and then on the nested user.
func Normalize(resp backend.LoginResponse) (Session, error) {
	var user backend.User
	if resp.User != nil {
		user = *resp.User
	} else {
		user = backend.User{
			Email: resp.Email,
			Name:  resp.Name,
			Phone: resp.Phone,
			Role:  resp.Role,
		}
		if resp.ID != nil {
			user.ID = *resp.ID
		}
	}

	var userID int64
	switch {
	case resp.UserID != nil:
		userID = *resp.UserID
	case resp.ID != nil:
		userID = *resp.ID
	case resp.User != nil:
		userID = resp.User.ID
	}

	if resp.Token == "" || userID <= 0 {
		return Session{}, ErrInvalidLoginPayload
	}
	if user.ID == 0 {
		user.ID = userID
	}
	return Session{User: user, Token: resp.Token, UserID: userID}, nil
}

// Login replaces the session with one derived from resp
func (s *Store) Login(ctx context.Context, resp backend.LoginResponse) error {
	sess, err := Normalize(resp)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &sess
	if err := s.profile.SetJSON(ctx, store.KeyUser, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout clears the session in memory and in storage
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.profile.Remove(ctx, store.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the session, if any
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Store) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return 0
	}
	return s.current.UserID
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.User.IsAdmin()
}
