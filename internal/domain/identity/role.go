package identity

import (
	"github.com/google/uuid"
)

// Role represents a user's role in the service hierarchy
type Role string

const (
	RoleSuperAdmin          Role = "SuperAdmin"
	RoleAdmin               Role = "Admin"
	RoleOperationalOfficer  Role = "OperationalOfficer"
	RoleCancellationOfficer Role = "CancellationOfficer"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleOperationalOfficer, RoleCancellationOfficer:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// IsOfficer returns true for field-officer roles
func (r Role) IsOfficer() bool {
	return r == RoleOperationalOfficer || r == RoleCancellationOfficer
}

// IsAdministrative returns true for administrative roles
func (r Role) IsAdministrative() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// RequiresCommandLocation returns true if users with this role must be
// attached to a command location
func (r Role) RequiresCommandLocation() bool {
	return r.IsOfficer()
}

// CanCreateUserWithRole checks whether this role may register a user of the
// target role. SuperAdmin creates admins and officers; Admin creates officers.
func (r Role) CanCreateUserWithRole(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return target != RoleSuperAdmin
	case RoleAdmin:
		return target.IsOfficer()
	}
	return false
}

// CanCreateDeclaration checks whether this role may create a declaration
func (r Role) CanCreateDeclaration() bool {
	return r.IsOfficer()
}

// CanAssessDeclaration checks whether this role may assess a declaration
func (r Role) CanAssessDeclaration() bool {
	return r.IsOfficer()
}

// CanCancelDeclaration checks whether this role may cancel a declaration
func (r Role) CanCancelDeclaration() bool {
	return r == RoleCancellationOfficer
}

// CanAmendDeclaration checks whether this role may amend a declaration in the
// given lifecycle stage. Assessed declarations may only be amended by a
// cancellation officer; stored ones by any officer.
func (r Role) CanAmendDeclaration(assessed bool) bool {
	if assessed {
		return r == RoleCancellationOfficer
	}
	return r.IsOfficer()
}

// Actor is the authenticated principal attached to a request.
// The identity middleware builds it from verified token claims; downstream
// services trust it without re-deriving.
type Actor struct {
	ID                uuid.UUID
	ServiceNumber     string
	Role              Role
	CommandLocationID *uuid.UUID
}

// HasUnrestrictedRead returns true if the actor reads declarations without
// visibility filtering
func (a Actor) HasUnrestrictedRead() bool {
	return a.Role.IsAdministrative()
}
