package identity

import (
	"time"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for registering a new account
type RegisterInput struct {
	ServiceNumber     string     `json:"serviceNumber" binding:"required"`
	Name              string     `json:"name" binding:"required"`
	Email             string     `json:"email" binding:"required,email"`
	Password          string     `json:"password" binding:"required,min=8"`
	Role              string     `json:"role" binding:"required,oneof=Admin OperationalOfficer CancellationOfficer"`
	CommandLocationID *uuid.UUID `json:"commandLocation,omitempty"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	ServiceNumber string `json:"serviceNumber" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID                uuid.UUID  `json:"id"`
	ServiceNumber     string     `json:"serviceNumber"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	CommandLocationID *uuid.UUID `json:"commandLocation,omitempty"`
	Verified          bool       `json:"verified"`
	IsSuspended       bool       `json:"isSuspended"`
	LastLoginAt       *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	TokenExpires time.Time
}

// VerifyEmailInput contains the input for email verification
type VerifyEmailInput struct {
	Token string `json:"token" binding:"required"`
}

// ForgotPasswordInput contains the input for requesting a password reset
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput contains the input for completing a password reset
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateUserInput contains the fields an administrator may change on an account
type UpdateUserInput struct {
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty" binding:"omitempty,email"`
	CommandLocationID *uuid.UUID `json:"commandLocation,omitempty"`
}

// ListUsersFilter contains filtering options for listing users
type ListUsersFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Role     string `form:"role"`
	Search   string `form:"search"`
}

// ToUserInfo maps a domain user to its transport representation
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:                u.ID,
		ServiceNumber:     u.ServiceNumber,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role.String(),
		CommandLocationID: u.CommandLocationID,
		Verified:          u.Verified,
		IsSuspended:       u.IsSuspended,
		LastLoginAt:       u.LastLoginAt,
		CreatedAt:         u.CreatedAt,
	}
}
