package rbac

import (
	"strings"

	"github.com/souls-console/souls-console/internal/db/models"
)

// Role is the closed set of coarse user categories used to gate console features.
type Role int

const (
	// RoleUser is the least-privileged default role. Every account holds it.
	RoleUser Role = iota
	// RoleTrainer can run training sessions on souls.
	RoleTrainer
	// RoleCounselor can work the flagged-chat review queue.
	RoleCounselor
	// RoleAdmin implicitly satisfies every permission check.
	RoleAdmin
)

// String returns the display name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleCounselor:
		return "Counselor"
	case RoleTrainer:
		return "Trainer"
	default:
		return "User"
	}
}

// ParseRole maps a raw role name to a Role. Matching is case-insensitive
// and unknown names map to RoleUser.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin", "super_admin":
		return RoleAdmin
	case "counselor":
		return RoleCounselor
	case "trainer":
		return RoleTrainer
	default:
		return RoleUser
	}
}

// Resolve derives the role for a user record. A nil record resolves to
// RoleUser. Accounts created before named roles carry only the legacy
// superuser flag; those resolve to RoleAdmin when the role name itself
// does not grant more than RoleUser.
func Resolve(user *models.User) Role {
	if user == nil {
		return RoleUser
	}

	role := ParseRole(user.Role)
	if role == RoleUser && user.Superuser {
		return RoleAdmin
	}

	return role
}
