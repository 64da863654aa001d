package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/auth"
	"github.com/velotaller/repair-service/internal/config"
)

type stubProvider struct {
	err   error
	calls int
}

func (p *stubProvider) SignInWithPassword(context.Context, string, string) error {
	p.calls++
	return p.err
}

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		AllowedDomain:   "gmail.com",
	}
}

func newTestSession(provider SessionProvider) *SessionService {
	return NewSessionService(sessionConfig(), provider, nil, zap.NewNop())
}

func authCode(t *testing.T, err error) AuthCode {
	t.Helper()
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	return authErr.Code
}

func TestSessionService_SignInSuccess(t *testing.T) {
	provider := &stubProvider{}
	s := newTestSession(provider)

	token, exp, err := s.SignIn(context.Background(), "taller@gmail.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.Equal(t, 1, provider.calls)

	claims, err := s.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "taller@gmail.com", claims.Email)
}

func TestSessionService_PreValidationNeverReachesProvider(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		want     AuthCode
	}{
		{"empty email", "", "secret123", AuthInvalidEmail},
		{"whitespace email", "   ", "secret123", AuthInvalidEmail},
		{"malformed email", "taller-gmail.com", "secret123", AuthInvalidEmail},
		{"wrong domain", "taller@hotmail.com", "secret123", AuthInvalidEmail},
		{"empty password", "taller@gmail.com", "", AuthWrongPassword},
		{"short password", "taller@gmail.com", "12345", AuthWrongPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{}
			s := newTestSession(provider)

			_, _, err := s.SignIn(context.Background(), tc.email, tc.password)
			assert.Equal(t, tc.want, authCode(t, err))
			assert.Zero(t, provider.calls)
		})
	}
}

func TestSessionService_ProviderCodeMapping(t *testing.T) {
	cases := []struct {
		code string
		want AuthCode
	}{
		{"auth/invalid-email", AuthInvalidEmail},
		{"auth/user-disabled", AuthUserDisabled},
		{"auth/user-not-found", AuthUserNotFound},
		{"auth/wrong-password", AuthWrongPassword},
		{"auth/too-many-requests", AuthTooManyRequests},
		{"auth/network-request-failed", AuthUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			s := newTestSession(&stubProvider{err: &ProviderError{Code: tc.code}})
			_, _, err := s.SignIn(context.Background(), "taller@gmail.com", "secret123")
			assert.Equal(t, tc.want, authCode(t, err))
		})
	}
}

func TestSessionService_UnclassifiedProviderErrorIsUnknown(t *testing.T) {
	s := newTestSession(&stubProvider{err: errors.New("socket closed")})
	_, _, err := s.SignIn(context.Background(), "taller@gmail.com", "secret123")
	assert.Equal(t, AuthUnknown, authCode(t, err))
}

func TestLocalSessionProvider(t *testing.T) {
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		p := NewLocalSessionProvider("taller@gmail.com", hash, false)
		assert.NoError(t, p.SignInWithPassword(context.Background(), "taller@gmail.com", "secret123"))
	})

	t.Run("unknown account", func(t *testing.T) {
		p := NewLocalSessionProvider("taller@gmail.com", hash, false)
		err := p.SignInWithPassword(context.Background(), "otro@gmail.com", "secret123")
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "auth/user-not-found", perr.Code)
	})

	t.Run("disabled account", func(t *testing.T) {
		p := NewLocalSessionProvider("taller@gmail.com", hash, true)
		err := p.SignInWithPassword(context.Background(), "taller@gmail.com", "secret123")
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "auth/user-disabled", perr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		p := NewLocalSessionProvider("taller@gmail.com", hash, false)
		err := p.SignInWithPassword(context.Background(), "taller@gmail.com", "wrong-pass")
		var perr *ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "auth/wrong-password", perr.Code)
	})
}
