package identity

import (
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserVerified        = "UserVerified"
	EventTypeUserSuspended       = "UserSuspended"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
)

// UserCreatedEvent is raised when a new user account is registered
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID `json:"user_id"`
	ServiceNumber string    `json:"service_number"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, u.ID, AggregateTypeUser),
		UserID:          u.ID,
		ServiceNumber:   u.ServiceNumber,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserVerifiedEvent is raised when a user confirms their email address
type UserVerifiedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserVerifiedEvent creates a new UserVerifiedEvent
func NewUserVerifiedEvent(u *User) *UserVerifiedEvent {
	return &UserVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserVerified, u.ID, AggregateTypeUser),
		UserID:          u.ID,
		Email:           u.Email,
	}
}

// UserSuspendedEvent is raised when an account is suspended
type UserSuspendedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID `json:"user_id"`
	ServiceNumber string    `json:"service_number"`
}

// NewUserSuspendedEvent creates a new UserSuspendedEvent
func NewUserSuspendedEvent(u *User) *UserSuspendedEvent {
	return &UserSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserSuspended, u.ID, AggregateTypeUser),
		UserID:          u.ID,
		ServiceNumber:   u.ServiceNumber,
	}
}

// UserPasswordChangedEvent is raised when a user's password is changed or reset
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, u.ID, AggregateTypeUser),
		UserID:          u.ID,
	}
}
