package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/car-leasing/core-api/internal/models"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

type fakeStore struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.calls++
	return f.user, f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Authenticate_Success(t *testing.T) {
	store := &fakeStore{
		user: &models.User{
			ID:           "user-1",
			Email:        "driver@example.com",
			PasswordHash: hashPassword(t, "hunter22"),
		},
	}
	issuer := NewTokenIssuer("test-secret", 3600)
	svc := NewService(store, issuer, quietLogger())

	token, err := svc.Authenticate(context.Background(), "driver@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "driver@example.com", claims["email"])
}

func TestService_Authenticate_UnknownUser(t *testing.T) {
	store := &fakeStore{user: nil}
	svc := NewService(store, NewTokenIssuer("test-secret", 3600), quietLogger())

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	assert.Equal(t, "invalid credentials", apperrors.MessageOf(err))
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	store := &fakeStore{
		user: &models.User{
			ID:           "user-1",
			Email:        "driver@example.com",
			PasswordHash: hashPassword(t, "hunter22"),
		},
	}
	svc := NewService(store, NewTokenIssuer("test-secret", 3600), quietLogger())

	_, err := svc.Authenticate(context.Background(), "driver@example.com", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))

	// The client-facing message never says which part was wrong.
	assert.Equal(t, "invalid credentials", apperrors.MessageOf(err))
}

func TestService_Authenticate_StoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := NewService(store, NewTokenIssuer("test-secret", 3600), quietLogger())

	_, err := svc.Authenticate(context.Background(), "driver@example.com", "hunter22")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeStoreError, apperrors.CodeOf(err))
}
