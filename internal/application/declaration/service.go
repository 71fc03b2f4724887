package declaration

import (
	"context"

	"github.com/customs/backend/internal/domain/declaration"
	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeclarationService handles declaration lifecycle operations.
// Every operation takes the authenticated actor and enforces the role and
// visibility rules before touching the aggregate.
type DeclarationService struct {
	declarations   declaration.Repository
	coordinator    *AssessmentCoordinator
	eventPublisher shared.EventPublisher
}

// NewDeclarationService creates a new DeclarationService
func NewDeclarationService(declarations declaration.Repository, coordinator *AssessmentCoordinator) *DeclarationService {
	return &DeclarationService{
		declarations: declarations,
		coordinator:  coordinator,
	}
}

// SetEventPublisher sets the event publisher for downstream integration
func (s *DeclarationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create submits a new declaration. Officers of either kind may create; the
// declaration is attached to the actor's command location. When the request
// asks for ASSESSED status, a reference pair is acquired and persisted
// atomically with the declaration.
func (s *DeclarationService) Create(ctx context.Context, actor identity.Actor, req CreateDeclarationRequest) (*DeclarationResponse, error) {
	if !actor.Role.CanCreateDeclaration() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only operational or cancellation officers can submit declarations")
	}
	if actor.CommandLocationID == nil || *actor.CommandLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Command location is required")
	}

	d, err := declaration.NewDeclaration(actor.ID, *actor.CommandLocationID, req.toDomainDetails(), req.toDomainItems())
	if err != nil {
		return nil, err
	}

	if req.Status == string(declaration.StatusAssessed) {
		_, err = s.coordinator.Execute(ctx, func(pair declaration.ReferencePair) error {
			if err := d.Assess(actor.ID, pair); err != nil {
				return err
			}
			if err := s.declarations.Save(ctx, d); err != nil {
				// Roll the aggregate back, history and event included, so a
				// retry can bind a fresh pair without duplicating the audit
				// trail
				d.RevertAssessment()
				return err
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.declarations.Save(ctx, d); err != nil {
			return nil, err
		}
	}

	s.publishEvents(d)

	response := ToDeclarationResponse(d)
	return &response, nil
}

// Assess transitions a STORED declaration to ASSESSED, acquiring a unique
// reference pair for it
func (s *DeclarationService) Assess(ctx context.Context, actor identity.Actor, declarationID uuid.UUID) (*DeclarationResponse, error) {
	if !actor.Role.CanAssessDeclaration() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only operational or cancellation officers can assess declarations")
	}

	d, err := s.loadVisible(ctx, actor, declarationID)
	if err != nil {
		return nil, err
	}
	if !d.IsStored() {
		return nil, shared.WrapDomainError("INVALID_TRANSITION",
			"Only stored declarations can be assessed", shared.ErrInvalidTransition)
	}

	_, err = s.coordinator.Execute(ctx, func(pair declaration.ReferencePair) error {
		if err := d.Assess(actor.ID, pair); err != nil {
			return err
		}
		if err := s.declarations.Update(ctx, d); err != nil {
			d.RevertAssessment()
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(d)

	response := ToDeclarationResponse(d)
	return &response, nil
}

// Update amends the content of a declaration. Stored declarations may be
// amended by either officer role; assessed ones only by a cancellation
// officer. Status and reference fields are never touched here.
func (s *DeclarationService) Update(ctx context.Context, actor identity.Actor, declarationID uuid.UUID, req UpdateDeclarationRequest) (*DeclarationResponse, error) {
	d, err := s.loadVisible(ctx, actor, declarationID)
	if err != nil {
		return nil, err
	}

	if !actor.Role.CanAmendDeclaration(d.IsAssessed()) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not permitted to amend this declaration")
	}

	if err := d.Amend(actor.ID, req.toDomainDetails(), req.toDomainItems()); err != nil {
		return nil, err
	}
	if err := s.declarations.Update(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(d)

	response := ToDeclarationResponse(d)
	return &response, nil
}

// Cancel cancels a declaration. Reserved for cancellation officers; allowed
// from STORED or ASSESSED status.
func (s *DeclarationService) Cancel(ctx context.Context, actor identity.Actor, declarationID uuid.UUID, reason string) (*DeclarationResponse, error) {
	if !actor.Role.CanCancelDeclaration() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only cancellation officers can cancel declarations")
	}

	d, err := s.loadVisible(ctx, actor, declarationID)
	if err != nil {
		return nil, err
	}

	if err := d.Cancel(actor.ID, reason); err != nil {
		return nil, err
	}
	if err := s.declarations.Update(ctx, d); err != nil {
		return nil, err
	}

	s.publishEvents(d)

	response := ToDeclarationResponse(d)
	return &response, nil
}

// GetByID retrieves a declaration visible to the actor
func (s *DeclarationService) GetByID(ctx context.Context, actor identity.Actor, declarationID uuid.UUID) (*DeclarationResponse, error) {
	d, err := s.loadVisible(ctx, actor, declarationID)
	if err != nil {
		return nil, err
	}
	response := ToDeclarationResponse(d)
	return &response, nil
}

// List retrieves declarations within the actor's visibility scope
func (s *DeclarationService) List(ctx context.Context, actor identity.Actor, filter ListDeclarationsFilter) ([]DeclarationResponse, int64, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		status := declaration.DeclarationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid status filter")
		}
		domainFilter.Filters["status"] = filter.Status
	}

	declarations, total, err := s.declarations.FindAll(ctx, scope, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DeclarationResponse, 0, len(declarations))
	for idx := range declarations {
		responses = append(responses, ToDeclarationResponse(&declarations[idx]))
	}
	return responses, total, nil
}

// SequenceStatus reports the current year's reference counter for
// administrative monitoring. The counter only moves forward; gaps against the
// assessed declaration count come from attempts that lost a uniqueness race.
func (s *DeclarationService) SequenceStatus(ctx context.Context, actor identity.Actor) (*SequenceStatusResponse, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}

	year, lastIssued, err := s.coordinator.SequenceStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &SequenceStatusResponse{Year: year, LastIssued: lastIssued}, nil
}

// loadVisible fetches a declaration and enforces the actor's read scope
func (s *DeclarationService) loadVisible(ctx context.Context, actor identity.Actor, declarationID uuid.UUID) (*declaration.Declaration, error) {
	d, err := s.declarations.FindByID(ctx, declarationID)
	if err != nil {
		return nil, err
	}

	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(d) {
		return nil, shared.NewDomainError("FORBIDDEN", "Access to this declaration is denied")
	}

	return d, nil
}

// scopeFor maps the actor's role to a visibility scope: operational officers
// see only their own declarations, cancellation officers everything in their
// command location, administrators everything.
func scopeFor(actor identity.Actor) (declaration.VisibilityScope, error) {
	switch actor.Role {
	case identity.RoleOperationalOfficer:
		return declaration.ScopedToCreator(actor.ID), nil
	case identity.RoleCancellationOfficer:
		if actor.CommandLocationID == nil {
			return declaration.VisibilityScope{}, shared.NewDomainError("FORBIDDEN", "Officer has no command location")
		}
		return declaration.ScopedToLocation(*actor.CommandLocationID), nil
	case identity.RoleAdmin, identity.RoleSuperAdmin:
		return declaration.Unrestricted(), nil
	}
	return declaration.VisibilityScope{}, shared.NewDomainError("FORBIDDEN", "Role has no declaration access")
}

func (s *DeclarationService) publishEvents(d *declaration.Declaration) {
	if s.eventPublisher == nil {
		d.ClearDomainEvents()
		return
	}
	for _, event := range d.GetDomainEvents() {
		_ = s.eventPublisher.Publish(event)
	}
	d.ClearDomainEvents()
}
