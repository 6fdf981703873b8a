package rbac

// Decision is the outcome of a permission or route check. It carries enough
// information for a denial panel to tell the user what happened: the role
// that was resolved for them and the permission the gate required.
type Decision struct {
	// Allowed reports whether access was granted.
	Allowed bool
	// Role is the role resolved for the checked user.
	Role Role
	// Permission is the permission name the check evaluated.
	Permission string
}

// Denied reports whether access was refused.
func (d Decision) Denied() bool {
	return !d.Allowed
}
