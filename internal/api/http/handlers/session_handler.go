package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/velotaller/repair-service/internal/api/dto"
	"github.com/velotaller/repair-service/internal/service"
	apperrors "github.com/velotaller/repair-service/pkg/util"
)

// SessionHandler exposes sign-in for the shop account.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, exp, err := h.sessions.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			return authError(authErr)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Token: token, ExpiresAt: exp}})
}

// authError maps the closed sign-in failure set onto transport errors. Every
// code carries a fixed user-facing message.
func authError(err *service.AuthError) *apperrors.DomainError {
	code := string(err.Code)
	switch err.Code {
	case service.AuthInvalidEmail:
		return &apperrors.DomainError{Code: code, Message: "The email address is invalid.", HTTPStatus: fiber.StatusBadRequest, Err: err}
	case service.AuthUserDisabled:
		return &apperrors.DomainError{Code: code, Message: "This account has been disabled.", HTTPStatus: fiber.StatusForbidden, Err: err}
	case service.AuthUserNotFound:
		return &apperrors.DomainError{Code: code, Message: "No account matches that email.", HTTPStatus: fiber.StatusUnauthorized, Err: err}
	case service.AuthWrongPassword:
		return &apperrors.DomainError{Code: code, Message: "The password is incorrect.", HTTPStatus: fiber.StatusUnauthorized, Err: err}
	case service.AuthTooManyRequests:
		return &apperrors.DomainError{Code: code, Message: "Too many attempts. Try again later.", HTTPStatus: fiber.StatusTooManyRequests, Err: err}
	default:
		return &apperrors.DomainError{Code: string(service.AuthUnknown), Message: "Sign-in failed. Try again.", HTTPStatus: fiber.StatusUnauthorized, Err: err}
	}
}
