// Package auth implements credential verification and bearer token
// issuance for the gateway.
package auth

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/car-leasing/core-api/internal/metrics"
	"github.com/car-leasing/core-api/internal/models"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

// UserStore is the read-only user lookup the service depends on.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service authenticates users against the store and issues tokens.
type Service struct {
	store  UserStore
	issuer *TokenIssuer
	logger *logrus.Logger
}

// NewService creates a credential service.
func NewService(store UserStore, issuer *TokenIssuer, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		logger: logger,
	}
}

// Authenticate looks up the user, verifies the password against the
// stored bcrypt hash, and returns a signed token. The client-facing
// message never distinguishes an unknown user from a wrong password;
// that detail only reaches the logs.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		metrics.RecordLoginAttempt("error")
		return "", apperrors.NewAppError(apperrors.CodeStoreError, "user lookup failed", err)
	}

	if user == nil {
		s.logger.WithField("email", email).Warn("Login attempt for unknown user")
		metrics.RecordLoginAttempt("invalid_credentials")
		return "", apperrors.NewAppError(apperrors.CodeInvalidCredentials, "invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   email,
		}).Warn("Login attempt with wrong password")
		metrics.RecordLoginAttempt("invalid_credentials")
		return "", apperrors.NewAppError(apperrors.CodeInvalidCredentials, "invalid credentials", nil)
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		metrics.RecordLoginAttempt("error")
		return "", apperrors.NewAppError(apperrors.CodeInternalError, "failed to issue token", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User logged in")
	metrics.RecordLoginAttempt("success")

	return token, nil
}
