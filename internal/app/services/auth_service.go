package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/pkg/apperrors"
	"github.com/idms/ems/internal/pkg/auth"
)

// UserReader is the slice of the user repository the auth service needs
type UserReader interface {
	GetByIdentity(ctx context.Context, identity string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService handles authentication operations
type AuthService struct {
	users  UserReader
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserReader, jwt *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		jwt:    jwt,
		logger: logger,
	}
}

// Login verifies the credentials and returns a signed token plus the
// user. Identity is a username or an email address. Unknown identity and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identity, password string) (string, *models.User, error) {
	user, err := s.users.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("identity", identity).Msg("Password mismatch on login")
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Me returns the user for an authenticated principal
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
