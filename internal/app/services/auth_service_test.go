package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/pkg/apperrors"
	"github.com/idms/ems/internal/pkg/auth"
)

type fakeUserReader struct {
	users []*models.User
}

func (f *fakeUserReader) GetByIdentity(_ context.Context, identity string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == identity || strings.EqualFold(u.Email, identity) {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserReader) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func newTestAuthService(t *testing.T) (*AuthService, *auth.JWTService) {
	t.Helper()

	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)

	users := &fakeUserReader{users: []*models.User{{
		ID:           1,
		Username:     "admin",
		Email:        "admin@idms.com",
		PasswordHash: hash,
	}}}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "ems.test",
	})

	return NewAuthService(users, jwtService, zerolog.Nop()), jwtService
}

func TestLogin_ByUsername(t *testing.T) {
	svc, jwtService := newTestAuthService(t)

	token, user, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "admin", user.Username)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
}

func TestLogin_ByEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, user, err := svc.Login(context.Background(), "Admin@IDMS.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownIdentityLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), "nobody", "admin123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Me(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "admin@idms.com", user.Email)

	_, err = svc.Me(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
