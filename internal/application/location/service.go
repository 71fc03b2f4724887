package location

import (
	"context"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/location"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateLocationRequest contains the input for creating a command location
type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// UpdateLocationRequest contains the input for renaming a command location
type UpdateLocationRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListLocationsFilter contains filtering options for listing locations
type ListLocationsFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
}

// LocationResponse is the transport representation of a command location
type LocationResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// CommandLocationService manages the command location register. Locations
// are created by administrators; officers only reference them.
type CommandLocationService struct {
	locations location.Repository
	logger    *zap.Logger
}

// NewCommandLocationService creates a new command location service
func NewCommandLocationService(locations location.Repository, logger *zap.Logger) *CommandLocationService {
	return &CommandLocationService{
		locations: locations,
		logger:    logger,
	}
}

// Create registers a new command location
func (s *CommandLocationService) Create(ctx context.Context, actor identity.Actor, req CreateLocationRequest) (*LocationResponse, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}

	loc, err := location.NewCommandLocation(req.Name, req.Code)
	if err != nil {
		return nil, err
	}

	if err := s.locations.Save(ctx, loc); err != nil {
		s.logger.Error("Failed to save command location", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Command location created",
		zap.String("code", loc.Code),
		zap.String("created_by", actor.ServiceNumber))

	return toResponse(loc), nil
}

// Update renames a command location. Codes are immutable; declarations and
// officers reference locations by ID, so a rename is always safe.
func (s *CommandLocationService) Update(ctx context.Context, actor identity.Actor, locationID uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}

	loc, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Command location not found")
	}

	if err := loc.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, loc); err != nil {
		s.logger.Error("Failed to update command location", zap.Error(err))
		return nil, err
	}

	return toResponse(loc), nil
}

// GetByID retrieves a single command location
func (s *CommandLocationService) GetByID(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	loc, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Command location not found")
	}
	return toResponse(loc), nil
}

// GetByCode retrieves a command location by its code
func (s *CommandLocationService) GetByCode(ctx context.Context, code string) (*LocationResponse, error) {
	loc, err := s.locations.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Command location not found")
	}
	return toResponse(loc), nil
}

// List retrieves command locations. Any authenticated user may list them;
// officers need the register when filling declarations.
func (s *CommandLocationService) List(ctx context.Context, filter ListLocationsFilter) ([]LocationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	locations, total, err := s.locations.FindAll(ctx, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "name",
		OrderDir: "asc",
		Search:   filter.Search,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LocationResponse, 0, len(locations))
	for idx := range locations {
		responses = append(responses, *toResponse(&locations[idx]))
	}
	return responses, total, nil
}

// Delete removes a command location
func (s *CommandLocationService) Delete(ctx context.Context, actor identity.Actor, locationID uuid.UUID) error {
	if actor.Role != identity.RoleSuperAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only a super administrator can delete command locations")
	}

	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return shared.NewDomainError("NOT_FOUND", "Command location not found")
	}

	if err := s.locations.Delete(ctx, locationID); err != nil {
		s.logger.Error("Failed to delete command location", zap.Error(err))
		return err
	}

	s.logger.Info("Command location deleted",
		zap.String("location_id", locationID.String()),
		zap.String("deleted_by", actor.ServiceNumber))

	return nil
}

func toResponse(loc *location.CommandLocation) *LocationResponse {
	return &LocationResponse{
		ID:   loc.ID,
		Name: loc.Name,
		Code: loc.Code,
	}
}
