package rbac

import (
	"strings"

	"github.com/souls-console/souls-console/internal/db/models"
)

// Routes maps request path prefixes to the permission required to enter them.
// Like Table it is built once and shared immutably. Paths that match no
// prefix fall back to the basic chat permission, so whole-page gating stays
// least-restrictive for pages nobody thought to map.
type Routes struct {
	required map[string]string
}

// NewRoutes builds an immutable route table from an explicit mapping of
// path prefix to permission name.
func NewRoutes(required map[string]string) *Routes {
	copied := make(map[string]string, len(required))
	for prefix, perm := range required {
		copied[prefix] = perm
	}

	return &Routes{required: copied}
}

// DefaultRoutes returns the route table for the console's page layout.
func DefaultRoutes() *Routes {
	return NewRoutes(map[string]string{
		"/dashboard": PermViewDashboard,
		"/chat":      PermChatWithSouls,
		"/training":  PermAccessTraining,
		"/counselor": PermAccessCounselorQueue,

		"/admin/user":     PermManageUsers,
		"/admin/soul":     PermManageSouls,
		"/admin/settings": PermManageSettings,
		"/admin":          PermManageUsers,
	})
}

// PermissionForPath maps a request path to the permission guarding it using
// longest-prefix matching. Unmapped paths default to PermChatWithSouls.
func (r *Routes) PermissionForPath(path string) string {
	path = strings.ToLower(path)

	var (
		bestLen  = -1
		bestPerm = PermChatWithSouls
	)

	for prefix, perm := range r.required {
		if !strings.HasPrefix(path, prefix) {
			continue
		}

		// a prefix match must end at a path boundary
		if len(path) > len(prefix) && path[len(prefix)] != '/' {
			continue
		}

		if len(prefix) > bestLen {
			bestLen = len(prefix)
			bestPerm = perm
		}
	}

	return bestPerm
}

// CheckPath maps the path to its permission and delegates to the table.
// Same purity and fail-closed guarantees as Table.Check.
func (r *Routes) CheckPath(t *Table, user *models.User, path string) Decision {
	return t.Check(user, r.PermissionForPath(path))
}
