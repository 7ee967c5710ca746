package auth

import "github.com/whatsthatbrick/whatsthatbrick/internal/types"

// Identity is the resolved caller of a request: a live user row condensed
// to what access checks need.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == types.RoleAdmin
}

// HasRole reports whether the identity's role is one of roles.
func HasRole(identity Identity, roles ...string) bool {
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}

// OwnerOrAdmin passes when the identity is an admin or matches the owner
// reference. A nil owner never satisfies ownership: a brick whose creator
// was deleted is only editable by admins.
func OwnerOrAdmin(identity Identity, ownerID *uint) bool {
	if identity.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == identity.ID
}
