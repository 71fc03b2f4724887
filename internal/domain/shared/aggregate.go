package shared

import (
	"github.com/google/uuid"
)

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// DropLastDomainEvent discards the most recently added pending event. Used
// when a transition is rolled back before it was persisted.
func (a *BaseAggregateRoot) DropLastDomainEvent() {
	if n := len(a.domainEvents); n > 0 {
		a.domainEvents = a.domainEvents[:n-1]
	}
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// AuditedAggregateRoot extends BaseAggregateRoot with creator/modifier tracking
type AuditedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null;index"`
	LastModifiedBy *uuid.UUID `gorm:"type:uuid"`
}

// NewAuditedAggregateRoot creates a new aggregate root stamped with its creator
func NewAuditedAggregateRoot(createdBy uuid.UUID) AuditedAggregateRoot {
	modifier := createdBy
	return AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
		LastModifiedBy:    &modifier,
	}
}

// Touch records the user responsible for the latest modification
func (a *AuditedAggregateRoot) Touch(userID uuid.UUID) {
	a.LastModifiedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (a *AuditedAggregateRoot) GetCreatedBy() uuid.UUID {
	return a.CreatedBy
}
