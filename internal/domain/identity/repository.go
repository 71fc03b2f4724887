package identity

import (
	"context"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByServiceNumber(ctx context.Context, serviceNumber string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByServiceNumber(ctx context.Context, serviceNumber string) (bool, error)
	ExistsByRole(ctx context.Context, role Role) (bool, error)
}
