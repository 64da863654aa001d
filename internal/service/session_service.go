package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/velotaller/repair-service/internal/auth"
	"github.com/velotaller/repair-service/internal/config"
	"github.com/velotaller/repair-service/internal/domain"
)

// AuthCode classifies sign-in failures into the closed, user-facing set.
type AuthCode string

const (
	AuthInvalidEmail    AuthCode = "INVALID_EMAIL"
	AuthUserDisabled    AuthCode = "USER_DISABLED"
	AuthUserNotFound    AuthCode = "USER_NOT_FOUND"
	AuthWrongPassword   AuthCode = "WRONG_PASSWORD"
	AuthTooManyRequests AuthCode = "TOO_MANY_REQUESTS"
	AuthUnknown         AuthCode = "UNKNOWN"
)

// AuthError carries a classified sign-in failure.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sign-in failed (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("sign-in failed (%s)", e.Code)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProviderError is the provider-specific failure surfaced by
// SignInWithPassword; Code is the raw provider error code string.
type ProviderError struct {
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// providerCodes maps raw provider codes onto the closed set. Anything
// unrecognized classifies as AuthUnknown.
var providerCodes = map[string]AuthCode{
	"auth/invalid-email":     AuthInvalidEmail,
	"auth/user-disabled":     AuthUserDisabled,
	"auth/user-not-found":    AuthUserNotFound,
	"auth/wrong-password":    AuthWrongPassword,
	"auth/too-many-requests": AuthTooManyRequests,
}

// SessionProvider abstracts the upstream credential check.
type SessionProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) error
}

// SessionService wraps sign-in: local pre-validation, attempt throttling,
// the provider call, and session token issue. Pre-validation failures never
// reach the provider.
type SessionService struct {
	provider SessionProvider
	tokens   *auth.TokenManager
	limiter  *redis.Client
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewSessionService builds the service. limiter may be nil, which disables
// throttling.
func NewSessionService(cfg config.SessionConfig, provider SessionProvider, limiter *redis.Client, logger *zap.Logger) *SessionService {
	return &SessionService{
		provider: provider,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}
}

// SignIn authenticates the shop account and returns a session token with its
// expiry. All failures are *AuthError.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return s.fail(AuthInvalidEmail, errors.New("email is required"))
	}
	if !domain.ValidEmail(email) {
		return s.fail(AuthInvalidEmail, errors.New("email is malformed"))
	}
	if s.cfg.AllowedDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+s.cfg.AllowedDomain) {
		return s.fail(AuthInvalidEmail, fmt.Errorf("email must belong to %s", s.cfg.AllowedDomain))
	}
	if password == "" {
		return s.fail(AuthWrongPassword, errors.New("password is required"))
	}
	if len(password) < 6 {
		return s.fail(AuthWrongPassword, errors.New("password must be at least 6 characters"))
	}

	if err := s.registerAttempt(ctx, email); err != nil {
		return "", time.Time{}, err
	}

	if err := s.provider.SignInWithPassword(ctx, email, password); err != nil {
		code := AuthUnknown
		var perr *ProviderError
		if errors.As(err, &perr) {
			if mapped, ok := providerCodes[perr.Code]; ok {
				code = mapped
			}
		}
		return s.fail(code, err)
	}

	s.clearAttempts(ctx, email)

	token, exp, err := s.tokens.GenerateToken(email)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *SessionService) fail(code AuthCode, err error) (string, time.Time, error) {
	return "", time.Time{}, &AuthError{Code: code, Err: err}
}

// registerAttempt counts sign-in attempts per account inside a rolling redis
// window. An unreachable redis disables throttling rather than blocking
// sign-in.
func (s *SessionService) registerAttempt(ctx context.Context, email string) error {
	if s.limiter == nil || s.cfg.MaxAttempts <= 0 {
		return nil
	}
	key := attemptKey(email)
	attempts, err := s.limiter.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("sign-in throttle unavailable", zap.Error(err))
		return nil
	}
	if attempts == 1 {
		window := time.Duration(s.cfg.AttemptWindowSeconds) * time.Second
		s.limiter.Expire(ctx, key, window)
	}
	if attempts > int64(s.cfg.MaxAttempts) {
		return &AuthError{Code: AuthTooManyRequests, Err: errors.New("too many attempts, try again later")}
	}
	return nil
}

func (s *SessionService) clearAttempts(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	s.limiter.Del(ctx, attemptKey(email))
}

func attemptKey(email string) string {
	return "signin_attempts:" + strings.ToLower(email)
}
