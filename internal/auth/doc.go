// Package auth provides local credential authentication and the Fiber-side
// rendering adapters for the rbac package's pure permission checks. The
// decision logic lives in internal/rbac; this package only resolves the
// session user, asks for a decision, and turns a denial into the Access
// Denied panel.
package auth
