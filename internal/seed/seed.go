package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/idms/ems/internal/app/models"
	appRepos "github.com/idms/ems/internal/app/repositories"
	"github.com/idms/ems/internal/config"
	"github.com/idms/ems/internal/pkg/auth"
)

// CreateAdminUser seeds the administrator account from configuration if
// no user with that username or email exists yet.
func CreateAdminUser(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByUsernameOrEmail(ctx, cfg.Admin.Username, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		lgr.Debug().Str("username", cfg.Admin.Username).Msg("Admin user already present, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &appModels.User{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		PasswordHash: passwordHash,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	lgr.Info().Str("username", admin.Username).Msg("Seeded admin user")
	return nil
}
