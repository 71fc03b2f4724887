package identity

import (
	"context"
	"errors"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SuperAdminSeed carries the credentials for the first super administrator
// account. Registration is restricted to administrative actors, so a fresh
// database has no path to a first login without this seed.
type SuperAdminSeed struct {
	ServiceNumber string
	Name          string
	Email         string
	Password      string
}

// EnsureSuperAdmin seeds the super administrator account on startup if no
// account with that role exists yet. The seeded account is created verified
// and without a command location; it is system-generated, so CreatedBy stays
// empty. Safe to run on every startup and from multiple instances at once.
func EnsureSuperAdmin(ctx context.Context, users identity.UserRepository, seed SuperAdminSeed, logger *zap.Logger) error {
	exists, err := users.ExistsByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to check for super administrator", err)
	}
	if exists {
		logger.Debug("Super administrator already exists, skipping seed")
		return nil
	}

	user, err := identity.NewUser(seed.ServiceNumber, seed.Name, seed.Email, seed.Password,
		identity.RoleSuperAdmin, nil, nil)
	if err != nil {
		return err
	}
	user.Verified = true
	user.ClearDomainEvents()

	if err := users.Save(ctx, user); err != nil {
		// Another instance won the race; the account is there either way
		if errors.Is(err, shared.ErrAlreadyExists) {
			logger.Debug("Super administrator seeded concurrently by another instance")
			return nil
		}
		return err
	}

	logger.Info("Super administrator seeded",
		zap.String("service_number", user.ServiceNumber),
		zap.String("email", user.Email))
	return nil
}
