package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chronoluxe/rental-frontend/storage"
	"github.com/chronoluxe/rental-frontend/token"
	"github.com/chronoluxe/rental-frontend/users"
)

// Store holds the live session and keeps it in sync with the persisted copy
// under StorageKey.
type Store struct {
	storage storage.Store
	nowTime func() time.Time // nowTime function (injectable for testing)

	mu      sync.RWMutex
	current Session
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore creates a session store over the given persistence boundary.
func NewStore(store storage.Store, options ...StoreOption) (*Store, error) {
	if store == nil {
		return nil, errors.New("[session NewStore] storage is required")
	}

	s := &Store{
		storage: store,
		nowTime: time.Now,
		current: Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Initialize rehydrates the session from storage. It runs once, at mount:
// an absent blob leaves the default session, a malformed blob is discarded,
// and an expired (or undecodable) token clears storage and falls back to the
// default. Expiry is not re-checked on a timer afterwards; the next explicit
// check (a 401 or the next Initialize) catches staleness.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.storage.Read(StorageKey)
	if err != nil {
		s.current = Default()
		return
	}

	var persisted Session
	if err := json.Unmarshal(blob, &persisted); err != nil {
		log.Warn().Err(err).Msg("discarding malformed persisted session")
		s.current = Default()
		return
	}

	if persisted.User == nil || persisted.Token == "" || !token.Valid(persisted.Token, s.nowTime()) {
		if err := s.storage.Remove(StorageKey); err != nil {
			log.Warn().Err(err).Msg("failed to clear expired session")
		}
		s.current = Default()
		return
	}

	persisted.IsAuthenticated = true
	s.current = persisted
}

// Login adopts a backend-returned identity and persists it immediately.
func (s *Store) Login(user users.User, bearerToken string) error {
	if bearerToken == "" {
		return errors.New("[session Login] token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := Session{
		IsAuthenticated: true,
		User:            &user,
		Token:           bearerToken,
	}
	blob, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "[session Login] marshal session")
	}
	if err := s.storage.Write(StorageKey, blob); err != nil {
		return errors.Wrap(err, "[session Login] persist session")
	}
	s.current = next
	return nil
}

// Logout resets to the default session and removes the persisted entry.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Default()
	if err := s.storage.Remove(StorageKey); err != nil {
		return errors.Wrap(err, "[session Logout] remove persisted session")
	}
	return nil
}

// Current returns a copy of the live session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// IsAdmin returns true iff the current user holds the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User != nil && s.current.User.IsAdmin()
}

// IsTokenValid returns true iff a token is present and its decoded exp claim
// is in the future. This is a UX heuristic, not a security boundary: the
// signature is never checked client-side, and a 401 from the backend always
// overrules a locally "valid" token.
func (s *Store) IsTokenValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Token == "" {
		return false
	}
	return token.Valid(s.current.Token, s.nowTime())
}

// Invalidate handles the backend telling us the session is no longer good
// (typically a 401 on an authenticated call).
func (s *Store) Invalidate() {
	if err := s.Logout(); err != nil {
		log.Warn().Err(err).Msg("failed to clear invalidated session")
	}
}
