package rbac

import (
	"github.com/souls-console/souls-console/internal/db/models"
)

// Table maps each known permission to the single role required to hold it.
// A Table is built once at startup and never mutated afterwards; every guard
// shares the same handle. Permissions missing from the table are denied for
// every role except RoleAdmin, which bypasses the table entirely.
type Table struct {
	required map[string]Role
}

// NewTable builds an immutable permission table from an explicit mapping.
// The input map is copied, so later changes to it do not leak into the table.
func NewTable(required map[string]Role) *Table {
	copied := make(map[string]Role, len(required))
	for perm, role := range required {
		copied[perm] = role
	}

	return &Table{required: copied}
}

// DefaultTable returns the fine-grained permission table used by the console.
func DefaultTable() *Table {
	return NewTable(map[string]Role{
		PermChatWithSouls: RoleUser,
		PermViewDashboard: RoleUser,

		PermAccessTraining:      RoleTrainer,
		PermManageTrainingPlans: RoleTrainer,

		PermAccessCounselorQueue: RoleCounselor,
		PermReviewFlaggedChats:   RoleCounselor,

		PermManageUsers:    RoleAdmin,
		PermManageSouls:    RoleAdmin,
		PermManageSettings: RoleAdmin,
	})
}

// CoarseTable returns the coarse admin/user variant of the table. Earlier
// deployments gated only on "is this an admin"; this configuration keeps
// that behavior available without changing the checking mechanism.
func CoarseTable() *Table {
	return NewTable(map[string]Role{
		PermChatWithSouls: RoleUser,
		PermViewDashboard: RoleUser,

		PermAccessTraining:      RoleUser,
		PermManageTrainingPlans: RoleUser,

		PermAccessCounselorQueue: RoleUser,
		PermReviewFlaggedChats:   RoleUser,

		PermManageUsers:    RoleAdmin,
		PermManageSouls:    RoleAdmin,
		PermManageSettings: RoleAdmin,
	})
}

// Allowed reports whether the given role holds the permission. RoleAdmin
// short-circuits before the table lookup; for every other role the table
// must map the permission to exactly that role. Unknown permissions are
// denied.
func (t *Table) Allowed(role Role, permission string) bool {
	if role == RoleAdmin {
		return true
	}

	required, ok := t.required[permission]
	if !ok {
		return false
	}

	return role == required
}

// Check resolves the user's role and evaluates the permission against the
// table, returning the full decision for rendering. It never fails: absent
// or malformed users resolve to RoleUser and deny gracefully.
func (t *Table) Check(user *models.User, permission string) Decision {
	role := Resolve(user)

	return Decision{
		Allowed:    t.Allowed(role, permission),
		Role:       role,
		Permission: permission,
	}
}
