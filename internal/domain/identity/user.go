package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Token validity windows
const (
	EmailVerificationTTL = 24 * time.Hour
	PasswordResetTTL     = 1 * time.Hour
)

// User represents an officer or administrator account.
// It is the aggregate root for user-related operations.
type User struct {
	shared.BaseAggregateRoot
	ServiceNumber                 string
	Name                          string
	Email                         string
	PasswordHash                  string
	Role                          Role
	CommandLocationID             *uuid.UUID
	IsSuspended                   bool
	Verified                      bool
	EmailVerificationToken        string
	EmailVerificationTokenExpires *time.Time
	PasswordResetToken            string
	PasswordResetTokenExpires     *time.Time
	CreatedBy                     *uuid.UUID
	LastLoginAt                   *time.Time
}

// NewUser creates a new unverified user account
func NewUser(serviceNumber, name, email, password string, role Role, commandLocationID *uuid.UUID, createdBy *uuid.UUID) (*User, error) {
	serviceNumber = strings.TrimSpace(serviceNumber)
	if serviceNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_NUMBER", "Service number cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid user role")
	}
	if role.RequiresCommandLocation() && (commandLocationID == nil || *commandLocationID == uuid.Nil) {
		return nil, shared.NewDomainError("COMMAND_LOCATION_REQUIRED", "Officers must be attached to a command location")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ServiceNumber:     serviceNumber,
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Role:              role,
		CommandLocationID: commandLocationID,
		CreatedBy:         createdBy,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword sets a new password and invalidates any pending reset token
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.PasswordResetToken = ""
	u.PasswordResetTokenExpires = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// IssueEmailVerificationToken stores a verification token with its expiry
func (u *User) IssueEmailVerificationToken(token string) error {
	if token == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Verification token cannot be empty")
	}
	if u.Verified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}

	expires := time.Now().Add(EmailVerificationTTL)
	u.EmailVerificationToken = token
	u.EmailVerificationTokenExpires = &expires
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// VerifyEmail marks the account as verified if the token matches and has not expired
func (u *User) VerifyEmail(token string) error {
	if u.Verified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}
	if u.EmailVerificationToken == "" || u.EmailVerificationToken != token {
		return shared.NewDomainError("INVALID_TOKEN", "Verification token is invalid")
	}
	if u.EmailVerificationTokenExpires == nil || time.Now().After(*u.EmailVerificationTokenExpires) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Verification token has expired")
	}

	u.Verified = true
	u.EmailVerificationToken = ""
	u.EmailVerificationTokenExpires = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserVerifiedEvent(u))

	return nil
}

// IssuePasswordResetToken stores a reset token with its expiry
func (u *User) IssuePasswordResetToken(token string) error {
	if token == "" {
		return shared.NewDomainError("INVALID_TOKEN", "Reset token cannot be empty")
	}

	expires := time.Now().Add(PasswordResetTTL)
	u.PasswordResetToken = token
	u.PasswordResetTokenExpires = &expires
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ResetPassword sets a new password if the reset token matches and has not expired
func (u *User) ResetPassword(token, newPassword string) error {
	if u.PasswordResetToken == "" || u.PasswordResetToken != token {
		return shared.NewDomainError("INVALID_TOKEN", "Reset token is invalid")
	}
	if u.PasswordResetTokenExpires == nil || time.Now().After(*u.PasswordResetTokenExpires) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Reset token has expired")
	}
	return u.SetPassword(newPassword)
}

// Suspend suspends the account
func (u *User) Suspend() error {
	if u.IsSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "User is already suspended")
	}

	u.IsSuspended = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserSuspendedEvent(u))

	return nil
}

// Reinstate lifts a suspension
func (u *User) Reinstate() error {
	if !u.IsSuspended {
		return shared.NewDomainError("NOT_SUSPENDED", "User is not suspended")
	}

	u.IsSuspended = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// AssignCommandLocation moves the officer to a different command location
func (u *User) AssignCommandLocation(locationID uuid.UUID) error {
	if !u.Role.RequiresCommandLocation() {
		return shared.NewDomainError("INVALID_ROLE", "Only officers carry a command location")
	}
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMMAND_LOCATION", "Command location cannot be empty")
	}

	u.CommandLocationID = &locationID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RecordLogin stores the last successful login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// CanLogin returns true if the account may authenticate
func (u *User) CanLogin() bool {
	return u.Verified && !u.IsSuspended
}

// ToActor builds the request principal for this user
func (u *User) ToActor() Actor {
	return Actor{
		ID:                u.ID,
		ServiceNumber:     u.ServiceNumber,
		Role:              u.Role,
		CommandLocationID: u.CommandLocationID,
	}
}

// Validation functions

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
