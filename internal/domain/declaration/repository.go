package declaration

import (
	"context"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VisibilityScope restricts which declarations a query may return.
// A nil field means no restriction on that dimension.
type VisibilityScope struct {
	CreatedBy         *uuid.UUID
	CommandLocationID *uuid.UUID
}

// Unrestricted returns a scope with no visibility restrictions
func Unrestricted() VisibilityScope {
	return VisibilityScope{}
}

// ScopedToCreator returns a scope limited to declarations created by the given user
func ScopedToCreator(userID uuid.UUID) VisibilityScope {
	return VisibilityScope{CreatedBy: &userID}
}

// ScopedToLocation returns a scope limited to declarations of the given command location
func ScopedToLocation(locationID uuid.UUID) VisibilityScope {
	return VisibilityScope{CommandLocationID: &locationID}
}

// Allows reports whether a declaration falls inside the scope
func (s VisibilityScope) Allows(d *Declaration) bool {
	if s.CreatedBy != nil && d.CreatedBy != *s.CreatedBy {
		return false
	}
	if s.CommandLocationID != nil && d.CommandLocationID != *s.CommandLocationID {
		return false
	}
	return true
}

// Repository defines the interface for declaration persistence.
// Save and Update must enforce unique constraints on the customs reference
// number and assessment serial, returning shared.ErrReferenceConflict when a
// duplicate is detected so callers can distinguish races from other failures.
type Repository interface {
	Save(ctx context.Context, d *Declaration) error
	Update(ctx context.Context, d *Declaration) error
	FindByID(ctx context.Context, id uuid.UUID) (*Declaration, error)
	FindByCustomsReference(ctx context.Context, reference string) (*Declaration, error)
	ExistsWithReference(ctx context.Context, customsReference, assessmentSerial string) (bool, error)
	FindAll(ctx context.Context, scope VisibilityScope, filter shared.Filter) ([]Declaration, int64, error)
}

// SequenceRepository provides an atomic increment-and-read on a keyed durable
// counter. The first increment of a new key returns 1; concurrent increments
// of the same key never return the same value twice. Current reads the last
// value handed out without consuming one; a key never incremented reports 0.
type SequenceRepository interface {
	Increment(ctx context.Context, key string) (int64, error)
	Current(ctx context.Context, key string) (int64, error)
}
