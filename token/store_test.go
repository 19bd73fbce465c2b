package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-jobportal-client/sessions"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/memstore"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/stretchr/testify/require"
)

func testUser() *users.User {
	return &users.User{ID: "1", Name: "A", Email: "a@b.com", Role: users.RoleJobSeeker}
}

func TestStore_RoundTrip(t *testing.T) {
	s := token.NewStore(memstore.New())
	u := testUser()

	s.Save("AT1", "RT1", u)

	require.Equal(t, sessions.Session{AccessToken: "AT1", RefreshToken: "RT1", User: u}, s.Load())
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := token.NewStore(memstore.New())
	s.Save("AT1", "RT1", testUser())

	hr := &users.User{ID: "2", Name: "H", Email: "h@b.com", Role: users.RoleHR}
	s.Save("AT2", "RT2", hr)

	got := s.Load()
	require.Equal(t, "AT2", got.AccessToken)
	require.Equal(t, "RT2", got.RefreshToken)
	require.Equal(t, hr, got.User)
}

func TestStore_LoadIsIdempotent(t *testing.T) {
	s := token.NewStore(memstore.New())
	s.Save("AT1", "RT1", testUser())

	first := s.Load()
	second := s.Load()
	require.Equal(t, first, second)
}

func TestStore_PartialOrCorruptDataIsNoSession(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "nothing stored", values: map[string]string{}},
		{name: "missing user", values: map[string]string{token.AccessTokenKey: "AT", token.RefreshTokenKey: "RT"}},
		{name: "missing refresh token", values: map[string]string{token.AccessTokenKey: "AT", token.UserKey: `{"id":1}`}},
		{name: "empty access token", values: map[string]string{token.AccessTokenKey: "", token.RefreshTokenKey: "RT", token.UserKey: `{"id":1}`}},
		{name: "corrupt user", values: map[string]string{token.AccessTokenKey: "AT", token.RefreshTokenKey: "RT", token.UserKey: `{"id":`}},
		{name: "null user", values: map[string]string{token.AccessTokenKey: "AT", token.RefreshTokenKey: "RT", token.UserKey: `null`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memstore.New()
			require.NoError(t, kv.Set(tt.values))

			got := token.NewStore(kv).Load()
			require.True(t, got.IsEmpty())
			require.False(t, got.IsAuthenticated())
		})
	}
}

func TestStore_Clear(t *testing.T) {
	kv := memstore.New()
	s := token.NewStore(kv)
	s.Save("AT1", "RT1", testUser())

	s.Clear()

	require.True(t, s.Load().IsEmpty())
	require.Nil(t, s.Token())
	require.Zero(t, kv.Len())
}

func TestStore_SaveWithoutUserIsIgnored(t *testing.T) {
	kv := memstore.New()
	s := token.NewStore(kv)

	s.Save("AT1", "RT1", nil)

	require.Zero(t, kv.Len())
	require.True(t, s.Load().IsEmpty())
}

func TestStore_ReplaceTokens(t *testing.T) {
	s := token.NewStore(memstore.New())
	s.Save("AT1", "RT1", testUser())

	require.False(t, s.ReplaceTokens("RT-other", "AT2", "RT2"), "stale refresh token must not win")
	require.Equal(t, "AT1", s.Load().AccessToken)

	require.True(t, s.ReplaceTokens("RT1", "AT2", "RT2"))
	got := s.Load()
	require.Equal(t, "AT2", got.AccessToken)
	require.Equal(t, "RT2", got.RefreshToken)
	require.Equal(t, testUser(), got.User)

	s.Clear()
	require.False(t, s.ReplaceTokens("RT2", "AT3", "RT3"), "a cleared session stays cleared")
	require.True(t, s.Load().IsEmpty())
}

func TestStore_ClearIf(t *testing.T) {
	s := token.NewStore(memstore.New())
	s.Save("AT1", "RT1", testUser())

	require.False(t, s.ClearIf("RT-old"))
	require.False(t, s.Load().IsEmpty())

	require.True(t, s.ClearIf("RT1"))
	require.True(t, s.Load().IsEmpty())
	require.False(t, s.ClearIf("RT1"))
}

func TestStore_SaveUser(t *testing.T) {
	s := token.NewStore(memstore.New())
	require.False(t, s.SaveUser(testUser()), "nothing to attach the user to")

	s.Save("AT1", "RT1", testUser())
	verified := testUser()
	verified.IsEmailVerified = true

	require.True(t, s.SaveUser(verified))
	got := s.Load()
	require.Equal(t, "AT1", got.AccessToken)
	require.True(t, got.User.IsEmailVerified)
	require.False(t, s.SaveUser(nil))
}

type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("disk on fire") }
func (failingKV) Set(map[string]string) error      { return errors.New("disk on fire") }
func (failingKV) Delete(...string) error           { return errors.New("disk on fire") }

func TestStore_BackendErrorsAreNotSurfaced(t *testing.T) {
	s := token.NewStore(failingKV{})

	require.NotPanics(t, func() {
		s.Save("AT1", "RT1", testUser())
		s.Clear()
	})
	require.True(t, s.Load().IsEmpty())
	require.Nil(t, s.Token())
}

func TestStore_Token(t *testing.T) {
	t.Run("opaque token has no expiry", func(t *testing.T) {
		s := token.NewStore(memstore.New())
		s.Save("AT1", "RT1", testUser())

		tok := s.Token()
		require.NotNil(t, tok)
		require.Equal(t, "AT1", tok.AccessToken)
		require.Equal(t, "RT1", tok.RefreshToken)
		require.Equal(t, "Bearer", tok.Type())
		require.True(t, tok.Expiry.IsZero())
		require.True(t, tok.Valid())
	})

	t.Run("expired jwt", func(t *testing.T) {
		raw := signedJWT(t, time.Now().Add(-time.Minute))
		s := token.NewStore(memstore.New())
		s.Save(raw, "RT1", testUser())

		tok := s.Token()
		require.NotNil(t, tok)
		require.False(t, tok.Expiry.IsZero())
		require.False(t, tok.Valid())
	})
}

func TestExpiryOf(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	require.True(t, token.ExpiryOf("AT1").IsZero())
	require.True(t, token.ExpiryOf("").IsZero())
	require.True(t, exp.Equal(token.ExpiryOf(signedJWT(t, exp))))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.True(t, token.ExpiryOf(noExp).IsZero())
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}
