package location

import (
	"context"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for command location persistence.
// Name and code are unique case-insensitively; Save returns
// shared.ErrAlreadyExists on a duplicate.
type Repository interface {
	Save(ctx context.Context, location *CommandLocation) error
	Update(ctx context.Context, location *CommandLocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*CommandLocation, error)
	FindByCode(ctx context.Context, code string) (*CommandLocation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CommandLocation, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
