package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/velotaller/repair-service/pkg/util"
)

const sessionKey = "session_email"

// Middleware validates bearer session tokens.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces a valid session for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(sessionKey, claims.Email)
	return c.Next()
}

// SessionEmail retrieves the authenticated account email, if any.
func SessionEmail(c *fiber.Ctx) (string, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return "", false
	}
	email, ok := val.(string)
	return email, ok
}
