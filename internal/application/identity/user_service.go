package identity

import (
	"context"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles account administration. All operations require an
// administrative actor; Register on AuthService is the only way accounts
// are created.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetByID retrieves a single account
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, userID uuid.UUID) (*UserInfo, error) {
	if err := requireAdministrative(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := ToUserInfo(user)
	return &info, nil
}

// List retrieves accounts with pagination and optional role filtering
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter ListUsersFilter) ([]UserInfo, int64, error) {
	if err := requireAdministrative(actor); err != nil {
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
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		if !role.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid role filter")
		}
		domainFilter.Filters["role"] = filter.Role
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, 0, len(users))
	for idx := range users {
		infos = append(infos, ToUserInfo(&users[idx]))
	}
	return infos, total, nil
}

// Update changes an account's name, email, or command location
func (s *UserService) Update(ctx context.Context, actor identity.Actor, userID uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	if err := requireAdministrative(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if err := s.requireAuthorityOver(actor, user); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to check email", err)
		}
		if exists {
			return nil, shared.WrapDomainError("ALREADY_EXISTS", "Email is already registered", shared.ErrAlreadyExists)
		}
		user.Email = *input.Email
	}
	if input.CommandLocationID != nil {
		if err := user.AssignCommandLocation(*input.CommandLocationID); err != nil {
			return nil, err
		}
	}
	user.IncrementVersion()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User updated",
		zap.String("user_id", userID.String()),
		zap.String("updated_by", actor.ServiceNumber))

	info := ToUserInfo(user)
	return &info, nil
}

// Suspend blocks an account from logging in
func (s *UserService) Suspend(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if err := requireAdministrative(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return shared.NewDomainError("INVALID_INPUT", "Cannot suspend your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if err := s.requireAuthorityOver(actor, user); err != nil {
		return err
	}

	if err := user.Suspend(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to suspend user", zap.Error(err))
		return err
	}

	s.logger.Info("User suspended",
		zap.String("user_id", userID.String()),
		zap.String("suspended_by", actor.ServiceNumber))

	return nil
}

// Reinstate lifts a suspension
func (s *UserService) Reinstate(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if err := requireAdministrative(actor); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if err := s.requireAuthorityOver(actor, user); err != nil {
		return err
	}

	if err := user.Reinstate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reinstate user", zap.Error(err))
		return err
	}

	s.logger.Info("User reinstated",
		zap.String("user_id", userID.String()),
		zap.String("reinstated_by", actor.ServiceNumber))

	return nil
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if actor.Role != identity.RoleSuperAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only a super administrator can delete accounts")
	}
	if userID == actor.ID {
		return shared.NewDomainError("INVALID_INPUT", "Cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return err
	}

	s.logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("deleted_by", actor.ServiceNumber))

	return nil
}

// requireAdministrative rejects actors without an administrative role
func requireAdministrative(actor identity.Actor) error {
	if !actor.Role.IsAdministrative() {
		return shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}
	return nil
}

// requireAuthorityOver rejects managing an account whose role the actor could
// not have created: an Admin cannot touch other administrators.
func (s *UserService) requireAuthorityOver(actor identity.Actor, target *identity.User) error {
	if actor.Role == identity.RoleSuperAdmin {
		return nil
	}
	if !actor.Role.CanCreateUserWithRole(target.Role) {
		return shared.NewDomainError("FORBIDDEN", "Not permitted to manage this account")
	}
	return nil
}
