package models

import (
	"time"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	ServiceNumber                 string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                          string        `gorm:"type:varchar(200);not null"`
	Email                         string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash                  string        `gorm:"type:varchar(255);not null"`
	Role                          identity.Role `gorm:"type:varchar(30);not null;index"`
	CommandLocationID             *uuid.UUID    `gorm:"type:uuid;index"`
	IsSuspended                   bool          `gorm:"not null;default:false"`
	Verified                      bool          `gorm:"not null;default:false"`
	EmailVerificationToken        string        `gorm:"type:varchar(100);index"`
	EmailVerificationTokenExpires *time.Time
	PasswordResetToken            string `gorm:"type:varchar(100);index"`
	PasswordResetTokenExpires     *time.Time
	CreatedBy                     *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt                   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		ServiceNumber:                 m.ServiceNumber,
		Name:                          m.Name,
		Email:                         m.Email,
		PasswordHash:                  m.PasswordHash,
		Role:                          m.Role,
		CommandLocationID:             m.CommandLocationID,
		IsSuspended:                   m.IsSuspended,
		Verified:                      m.Verified,
		EmailVerificationToken:        m.EmailVerificationToken,
		EmailVerificationTokenExpires: m.EmailVerificationTokenExpires,
		PasswordResetToken:            m.PasswordResetToken,
		PasswordResetTokenExpires:     m.PasswordResetTokenExpires,
		CreatedBy:                     m.CreatedBy,
		LastLoginAt:                   m.LastLoginAt,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.ServiceNumber = u.ServiceNumber
	m.Name = u.Name
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.CommandLocationID = u.CommandLocationID
	m.IsSuspended = u.IsSuspended
	m.Verified = u.Verified
	m.EmailVerificationToken = u.EmailVerificationToken
	m.EmailVerificationTokenExpires = u.EmailVerificationTokenExpires
	m.PasswordResetToken = u.PasswordResetToken
	m.PasswordResetTokenExpires = u.PasswordResetTokenExpires
	m.CreatedBy = u.CreatedBy
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
