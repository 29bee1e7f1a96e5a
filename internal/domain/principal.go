package domain

import "github.com/google/uuid"

// Role is an organization-scoped access level.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ValidRoles is the canonical set of known roles.
var ValidRoles = []Role{RoleOwner, RoleAdmin, RoleEditor, RoleViewer} //nolint:gochecknoglobals // canonical enum list

// ValidateRole reports whether r is a known role.
func ValidateRole(r Role) bool {
	for _, known := range ValidRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Principal identifies the actor behind an operation. Every state-machine
// operation takes one explicitly; capability checks are pure functions of
// the principal, never derived from ambient state.
type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   Role
}

// Elevated reports whether the principal holds an owner/admin role, the
// level required to approve, publish and seal.
func (p Principal) Elevated() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin
}

// CanEdit reports whether the principal may create or modify entities.
func (p Principal) CanEdit() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin || p.Role == RoleEditor
}

// CanDelete reports whether the principal may delete entities.
func (p Principal) CanDelete() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin
}

// CanApprove reports whether the principal may resolve approval requests.
func (p Principal) CanApprove() bool {
	return p.Elevated()
}

// CanView reports whether the principal may read entities. All members of
// the organization can read; the NDA gate is checked separately for sealed
// classified secrets.
func (p Principal) CanView() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin || p.Role == RoleEditor || p.Role == RoleViewer
}
