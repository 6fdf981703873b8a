// Package rbac implements the role-based access-control core of the console.
//
// The package is pure: role resolution, permission checks and route checks
// are synchronous functions over an already-loaded user record and an
// immutable permission table. Nothing here touches the database, the network
// or the request context, which keeps every decision unit-testable without a
// web harness. Unknown roles, unknown permissions and absent users are not
// errors; they resolve to the most restrictive outcome (fail-closed).
package rbac
