package token

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-jobportal-client/sessions"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Keys the session is persisted under
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	UserKey         = "user"
)

var sessionKeys = []string{AccessTokenKey, RefreshTokenKey, UserKey}

// KV is the durable key-value backend behind the Store.
type KV interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)
	// Set writes all values in one operation, overwriting existing keys
	Set(values map[string]string) error
	// Delete removes the keys; missing keys are not an error
	Delete(keys ...string) error
}

// ConditionalKV is implemented by backends shared between processes. The write happens
// only while guardKey holds expected, and the check and the write are atomic in the
// backend. It reports whether the write happened.
type ConditionalKV interface {
	SetIf(guardKey, expected string, values map[string]string) (bool, error)
	DeleteIf(guardKey, expected string, keys ...string) (bool, error)
}

// Store persists the access token, refresh token and current user. It never surfaces
// errors: backend failures are logged and reads degrade to "no session".
type Store struct {
	kv     KV
	logger zerolog.Logger
	mu     sync.Mutex
}

type StoreOption func(*Store)

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(kv KV, options ...StoreOption) *Store {
	s := &Store{
		kv:     kv,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Save overwrites the persisted session with the given tokens and user.
func (s *Store) Save(accessToken, refreshToken string, user *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.logger.Warn().Msg("token store: refusing to save a session without a user")
		return
	}

	encoded, err := user.Encode()
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to encode user")
		return
	}

	if err := s.kv.Set(map[string]string{
		AccessTokenKey:  accessToken,
		RefreshTokenKey: refreshToken,
		UserKey:         encoded,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to save session")
	}
}

// Load returns the persisted session, or an empty session if any of the three keys is
// missing or the user record does not decode.
func (s *Store) Load() sessions.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(sessionKeys))
	for _, key := range sessionKeys {
		value, ok, err := s.kv.Get(key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("token store: failed to read session")
			return sessions.Empty
		}
		if !ok || value == "" {
			return sessions.Empty
		}
		values[key] = value
	}

	user, err := users.Decode([]byte(values[UserKey]))
	if err != nil || strings.TrimSpace(values[UserKey]) == "null" {
		s.logger.Debug().Err(err).Msg("token store: ignoring undecodable user record")
		return sessions.Empty
	}

	return sessions.Session{
		AccessToken:  values[AccessTokenKey],
		RefreshToken: values[RefreshTokenKey],
		User:         user,
	}
}

// SaveUser replaces the stored user record and keeps the tokens. It reports false and
// writes nothing when no session is stored.
func (s *Store) SaveUser(user *users.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		return false
	}
	if refresh, ok, err := s.kv.Get(RefreshTokenKey); err != nil || !ok || refresh == "" {
		return false
	}

	encoded, err := user.Encode()
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to encode user")
		return false
	}
	if err := s.kv.Set(map[string]string{UserKey: encoded}); err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to save user")
		return false
	}
	return true
}

// Clear removes all persisted session keys.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(sessionKeys...); err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to clear session")
	}
}

// ReplaceTokens swaps in a rotated token pair, keeping the stored user, but only while
// the stored refresh token is still expectedRefresh. It reports whether the swap happened;
// false means the session was cleared or replaced since the refresh started.
func (s *Store) ReplaceTokens(expectedRefresh, accessToken, refreshToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := map[string]string{
		AccessTokenKey:  accessToken,
		RefreshTokenKey: refreshToken,
	}
	if ckv, ok := s.kv.(ConditionalKV); ok {
		if expectedRefresh == "" {
			return false
		}
		swapped, err := ckv.SetIf(RefreshTokenKey, expectedRefresh, values)
		if err != nil {
			s.logger.Warn().Err(err).Msg("token store: failed to save rotated tokens")
		}
		return swapped
	}

	if !s.refreshTokenIs(expectedRefresh) {
		return false
	}
	if err := s.kv.Set(values); err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to save rotated tokens")
	}
	return true
}

// ClearIf clears the session only while the stored refresh token is still refreshToken.
func (s *Store) ClearIf(refreshToken string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ckv, ok := s.kv.(ConditionalKV); ok {
		if refreshToken == "" {
			return false
		}
		cleared, err := ckv.DeleteIf(RefreshTokenKey, refreshToken, sessionKeys...)
		if err != nil {
			s.logger.Warn().Err(err).Msg("token store: failed to clear session")
		}
		return cleared
	}

	if !s.refreshTokenIs(refreshToken) {
		return false
	}
	if err := s.kv.Delete(sessionKeys...); err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to clear session")
	}
	return true
}

func (s *Store) refreshTokenIs(expected string) bool {
	current, ok, err := s.kv.Get(RefreshTokenKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to read refresh token")
		return false
	}
	return ok && current != "" && current == expected
}

// Token returns the stored credentials as an oauth2.Token, or nil when no access token
// is stored. Expiry is only known for JWT access tokens; opaque tokens never expire
// from the client's point of view.
func (s *Store) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, ok, err := s.kv.Get(AccessTokenKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to read access token")
		return nil
	}
	if !ok || access == "" {
		return nil
	}

	refresh, _, err := s.kv.Get(RefreshTokenKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store: failed to read refresh token")
	}

	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       ExpiryOf(access),
	}
}
