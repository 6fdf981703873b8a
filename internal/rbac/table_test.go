package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souls-console/souls-console/internal/db/models"
)

func TestTable_AdminBypassesTable(t *testing.T) {
	table := DefaultTable()

	// Admin is allowed every permission, including ones no table knows about.
	for _, perm := range []string{
		PermChatWithSouls,
		PermAccessTraining,
		PermAccessCounselorQueue,
		PermManageUsers,
		"no_such_permission",
	} {
		assert.True(t, table.Allowed(RoleAdmin, perm), perm)
	}

	// Even an empty table cannot deny an admin.
	empty := NewTable(nil)
	assert.True(t, empty.Allowed(RoleAdmin, PermManageUsers))
}

func TestTable_UnknownPermissionDenied(t *testing.T) {
	table := DefaultTable()

	for _, role := range []Role{RoleUser, RoleTrainer, RoleCounselor} {
		assert.False(t, table.Allowed(role, "no_such_permission"), role.String())
		assert.False(t, table.Allowed(role, ""), role.String())
	}
}

func TestTable_RoleEquality(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name string
		role Role
		perm string
		want bool
	}{
		{"trainer can train", RoleTrainer, PermAccessTraining, true},
		{"trainer cannot manage users", RoleTrainer, PermManageUsers, false},
		{"trainer does not hold basic user permission", RoleTrainer, PermChatWithSouls, false},
		{"counselor can enter queue", RoleCounselor, PermAccessCounselorQueue, true},
		{"counselor cannot train", RoleCounselor, PermAccessTraining, false},
		{"user can chat", RoleUser, PermChatWithSouls, true},
		{"user cannot train", RoleUser, PermAccessTraining, false},
		{"user cannot manage users", RoleUser, PermManageUsers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Allowed(tt.role, tt.perm))
		})
	}
}

func TestTable_Check(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name    string
		user    *models.User
		perm    string
		allowed bool
		role    Role
	}{
		{"trainer allowed training", &models.User{Role: "trainer"}, PermAccessTraining, true, RoleTrainer},
		{"trainer denied user management", &models.User{Role: "trainer"}, PermManageUsers, false, RoleTrainer},
		{"legacy superuser allowed user management", &models.User{Superuser: true}, PermManageUsers, true, RoleAdmin},
		{"nil user allowed chat", nil, PermChatWithSouls, true, RoleUser},
		{"nil user denied training", nil, PermAccessTraining, false, RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := table.Check(tt.user, tt.perm)

			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, !tt.allowed, decision.Denied())
			assert.Equal(t, tt.role, decision.Role)
			assert.Equal(t, tt.perm, decision.Permission)
		})
	}
}

func TestTable_CheckIdempotent(t *testing.T) {
	table := DefaultTable()
	user := &models.User{Role: "counselor"}

	first := table.Check(user, PermReviewFlaggedChats)
	second := table.Check(user, PermReviewFlaggedChats)

	assert.Equal(t, first, second)
}

func TestNewTable_CopiesInput(t *testing.T) {
	src := map[string]Role{PermChatWithSouls: RoleUser}
	table := NewTable(src)

	require.True(t, table.Allowed(RoleUser, PermChatWithSouls))

	// Mutating the source map after construction must not change the table.
	src[PermChatWithSouls] = RoleCounselor
	delete(src, PermChatWithSouls)

	assert.True(t, table.Allowed(RoleUser, PermChatWithSouls))
}

func TestCoarseTable(t *testing.T) {
	table := CoarseTable()

	// The coarse variant collapses the non-admin roles: plain users reach
	// every non-admin surface, admin surfaces still require Admin.
	assert.True(t, table.Allowed(RoleUser, PermAccessTraining))
	assert.True(t, table.Allowed(RoleUser, PermAccessCounselorQueue))
	assert.False(t, table.Allowed(RoleUser, PermManageUsers))
	assert.False(t, table.Allowed(RoleUser, PermManageSettings))
	assert.True(t, table.Allowed(RoleAdmin, PermManageUsers))
}
