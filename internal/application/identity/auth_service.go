package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/customs/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mailer sends account lifecycle emails
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	mailer     Mailer
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer Mailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates a new account. Only administrators may register accounts,
// and the role they may grant is bounded by their own: a SuperAdmin can create
// any non-SuperAdmin account, an Admin only officer accounts. The new account
// starts unverified and receives a verification email.
func (s *AuthService) Register(ctx context.Context, actor identity.Actor, input RegisterInput) (*UserInfo, error) {
	role := identity.Role(input.Role)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid role")
	}
	if !actor.Role.CanCreateUserWithRole(role) {
		s.logger.Warn("Unauthorized registration attempt",
			zap.String("actor", actor.ServiceNumber),
			zap.String("requested_role", input.Role))
		return nil, shared.NewDomainError("FORBIDDEN", "Not permitted to create accounts with this role")
	}

	if exists, err := s.userRepo.ExistsByServiceNumber(ctx, input.ServiceNumber); err != nil {
		return nil, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to check service number", err)
	} else if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Service number is already registered", shared.ErrAlreadyExists)
	}
	if exists, err := s.userRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to check email", err)
	} else if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Email is already registered", shared.ErrAlreadyExists)
	}

	createdBy := actor.ID
	user, err := identity.NewUser(input.ServiceNumber, input.Name, input.Email, input.Password, role, input.CommandLocationID, &createdBy)
	if err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate verification token", err)
	}
	if err := user.IssueEmailVerificationToken(token); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		// The account exists; the token can be re-sent later
		s.logger.Error("Failed to send verification email",
			zap.String("service_number", user.ServiceNumber),
			zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("service_number", user.ServiceNumber),
		zap.String("role", input.Role),
		zap.String("created_by", actor.ServiceNumber))

	info := ToUserInfo(user)
	return &info, nil
}

// Login authenticates a user by service number and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("service_number", input.ServiceNumber))

	user, err := s.userRepo.FindByServiceNumber(ctx, input.ServiceNumber)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("service_number", input.ServiceNumber))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid service number or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("service_number", input.ServiceNumber))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid service number or password")
	}

	if !user.CanLogin() {
		if user.IsSuspended {
			s.logger.Warn("Login attempt for suspended account", zap.String("service_number", input.ServiceNumber))
			return nil, shared.NewDomainError("ACCOUNT_SUSPENDED", "Account has been suspended. Contact an administrator")
		}
		s.logger.Warn("Login attempt for unverified account", zap.String("service_number", input.ServiceNumber))
		return nil, shared.NewDomainError("ACCOUNT_UNVERIFIED", "Email address has not been verified")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInputFor(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Don't fail the login, just log the error
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("service_number", user.ServiceNumber),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  ToUserInfo(user),
	}, nil
}

// VerifyEmail confirms an account using its emailed verification token
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, input.Token)
	if err != nil {
		return shared.NewDomainError("INVALID_TOKEN", "Verification token is invalid")
	}

	if err := user.VerifyEmail(input.Token); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after email verification", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}

	s.logger.Info("Email verified", zap.String("service_number", user.ServiceNumber))
	return nil
}

// ForgotPassword issues a password reset token and emails it. An unknown
// email returns success to avoid leaking which addresses have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to look up account", err)
	}

	token, err := generateToken()
	if err != nil {
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate reset token", err)
	}
	if err := user.IssuePasswordResetToken(token); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to store password reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to issue reset token")
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Error("Failed to send password reset email",
			zap.String("service_number", user.ServiceNumber),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to send reset email")
	}

	s.logger.Info("Password reset token issued", zap.String("service_number", user.ServiceNumber))
	return nil
}

// ResetPassword completes a password reset using the emailed token
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.FindByResetToken(ctx, input.Token)
	if err != nil {
		return shared.NewDomainError("INVALID_TOKEN", "Reset token is invalid")
	}

	if err := user.ResetPassword(input.Token, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Password reset completed", zap.String("service_number", user.ServiceNumber))
	return nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	if s.blacklist != nil {
		if blacklisted, err := s.blacklist.IsBlacklisted(ctx, refreshClaims.ID); err == nil && blacklisted {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("user_id", userID.String()))
			return nil, shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
		}
		if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, userID.String(), refreshClaims.GetIssuedAtTime()); err == nil && invalidated {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
		}
	}

	// Re-read the account so role or location changes take effect
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, tokenInputFor(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented token by blacklisting its JTI for the
// remainder of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}

	ttl := time.Until(input.TokenExpires)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
	}

	return nil
}

// GetCurrentUser retrieves the authenticated user's account
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// tokenInputFor builds the JWT claim snapshot for a user
func tokenInputFor(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID:            user.ID,
		ServiceNumber:     user.ServiceNumber,
		Name:              user.Name,
		Role:              user.Role.String(),
		CommandLocationID: user.CommandLocationID,
	}
}

// mapTokenError maps JWT errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}

// generateToken produces a random URL-safe token for email verification and
// password reset links
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
