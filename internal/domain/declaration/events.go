package declaration

import (
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeDeclaration = "Declaration"

// Event type constants
const (
	EventTypeDeclarationCreated   = "DeclarationCreated"
	EventTypeDeclarationAssessed  = "DeclarationAssessed"
	EventTypeDeclarationAmended   = "DeclarationAmended"
	EventTypeDeclarationCancelled = "DeclarationCancelled"
)

// DeclarationCreatedEvent is raised when a new declaration is stored
type DeclarationCreatedEvent struct {
	shared.BaseDomainEvent
	DeclarationID     uuid.UUID `json:"declaration_id"`
	CommandLocationID uuid.UUID `json:"command_location_id"`
	CreatedBy         uuid.UUID `json:"created_by"`
	PassportNumber    string    `json:"passport_number"`
	TotalItems        int       `json:"total_items"`
}

// NewDeclarationCreatedEvent creates a new DeclarationCreatedEvent
func NewDeclarationCreatedEvent(d *Declaration) *DeclarationCreatedEvent {
	return &DeclarationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeclarationCreated, d.ID, AggregateTypeDeclaration),
		DeclarationID:     d.ID,
		CommandLocationID: d.CommandLocationID,
		CreatedBy:         d.CreatedBy,
		PassportNumber:    d.Details.PassportNumber,
		TotalItems:        d.TotalItems,
	}
}

// DeclarationAssessedEvent is raised when a declaration is assessed and a
// reference pair has been bound to it
type DeclarationAssessedEvent struct {
	shared.BaseDomainEvent
	DeclarationID          uuid.UUID `json:"declaration_id"`
	CustomsReferenceNumber string    `json:"customs_reference_number"`
	AssessmentSerial       string    `json:"assessment_serial"`
	AssessedBy             uuid.UUID `json:"assessed_by"`
}

// NewDeclarationAssessedEvent creates a new DeclarationAssessedEvent
func NewDeclarationAssessedEvent(d *Declaration) *DeclarationAssessedEvent {
	evt := &DeclarationAssessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeclarationAssessed, d.ID, AggregateTypeDeclaration),
		DeclarationID:   d.ID,
	}
	if d.CustomsReferenceNumber != nil {
		evt.CustomsReferenceNumber = *d.CustomsReferenceNumber
	}
	if d.AssessmentSerial != nil {
		evt.AssessmentSerial = *d.AssessmentSerial
	}
	if d.AssessedBy != nil {
		evt.AssessedBy = *d.AssessedBy
	}
	return evt
}

// DeclarationAmendedEvent is raised when declaration content is updated
type DeclarationAmendedEvent struct {
	shared.BaseDomainEvent
	DeclarationID uuid.UUID `json:"declaration_id"`
	TotalItems    int       `json:"total_items"`
}

// NewDeclarationAmendedEvent creates a new DeclarationAmendedEvent
func NewDeclarationAmendedEvent(d *Declaration) *DeclarationAmendedEvent {
	return &DeclarationAmendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeclarationAmended, d.ID, AggregateTypeDeclaration),
		DeclarationID:   d.ID,
		TotalItems:      d.TotalItems,
	}
}

// DeclarationCancelledEvent is raised when a declaration is cancelled
type DeclarationCancelledEvent struct {
	shared.BaseDomainEvent
	DeclarationID  uuid.UUID         `json:"declaration_id"`
	PreviousStatus DeclarationStatus `json:"previous_status"`
	Reason         string            `json:"reason"`
}

// NewDeclarationCancelledEvent creates a new DeclarationCancelledEvent
func NewDeclarationCancelledEvent(d *Declaration, from DeclarationStatus) *DeclarationCancelledEvent {
	return &DeclarationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeclarationCancelled, d.ID, AggregateTypeDeclaration),
		DeclarationID:   d.ID,
		PreviousStatus:  from,
		Reason:          d.Cancellation.Reason,
	}
}
