package routes

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/models"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

// Authenticator verifies credentials and issues a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth     Authenticator
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		validate: validator.New(),
		logger:   logger,
	}
}

// Login authenticates a user and returns a signed token.
//
// Requests that fail shape validation are rejected before the credential
// service, and therefore the user store, is ever touched.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		parseErr := apperrors.NewAppError(apperrors.CodeBadRequest, "invalid request body", err)
		return c.Status(parseErr.HTTPStatus()).JSON(fiber.Map{
			"error": parseErr.Message,
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		valErr := apperrors.NewAppError(apperrors.CodeBadRequest, "email must be valid and password at least 6 characters", err)
		h.logger.WithError(valErr).Warn("Login request failed validation")
		return c.Status(valErr.HTTPStatus()).JSON(fiber.Map{
			"error": valErr.Message,
		})
	}

	token, err := h.auth.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Login failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": apperrors.MessageOf(err),
		})
	}

	return c.JSON(models.LoginResponse{Token: token})
}
