package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/session"
)

const (
	// DeniedTemplate is the template rendered when a permission check fails.
	DeniedTemplate = "denied"

	// DeniedLayout is the layout used for the Access Denied panel.
	DeniedLayout = "layouts/base"
)

// CurrentUser resolves the user record for the request's session cookie.
// It returns nil for missing, expired or malformed sessions; the rbac
// package treats a nil user as the least-privileged role.
func CurrentUser(c *fiber.Ctx) *models.User {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return nil
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return nil
	}

	if sessionData.User.ID == 0 {
		return nil
	}

	return &sessionData.User
}

// RenderDenied renders the Access Denied panel for a denial decision.
// The panel names the user's resolved role and the permission the gate
// required, so a denied user can see why they were stopped.
func RenderDenied(c *fiber.Ctx, decision rbac.Decision) error {
	return c.Status(fiber.StatusForbidden).Render(DeniedTemplate, fiber.Map{
		"Role":       decision.Role.String(),
		"Permission": decision.Permission,
	}, DeniedLayout)
}

// RequirePermission creates Fiber middleware that gates a route behind a
// single permission. The check itself is the pure table lookup; this
// middleware only supplies the session user and renders the outcome.
func RequirePermission(table *rbac.Table, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := table.Check(CurrentUser(c), permission)
		if decision.Denied() {
			log.Warn().
				Str("role", decision.Role.String()).
				Str("permission", permission).
				Str("path", c.Path()).
				Msg("permission denied")

			return RenderDenied(c, decision)
		}

		return c.Next()
	}
}

// RouteGuard creates Fiber middleware that gates every request by mapping
// its path to a permission through the route table. Unmapped paths fall
// back to the basic access permission, so the guard stays out of the way
// for pages that need no special role.
func RouteGuard(table *rbac.Table, routes *rbac.Routes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := routes.CheckPath(table, CurrentUser(c), c.Path())
		if decision.Denied() {
			log.Warn().
				Str("role", decision.Role.String()).
				Str("permission", decision.Permission).
				Str("path", c.Path()).
				Msg("route denied")

			return RenderDenied(c, decision)
		}

		return c.Next()
	}
}

// AddRoleToLocals is Fiber middleware that exposes the resolved role and a
// "can" helper to templates, for conditional rendering of navigation
// entries and action buttons.
func AddRoleToLocals(table *rbac.Table) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			user = CurrentUser(c)
			role = rbac.Resolve(user)
		)

		c.Locals("CurrentRole", role.String())
		c.Locals("can", func(permission string) bool {
			return table.Allowed(role, permission)
		})

		return c.Next()
	}
}

// Can checks a single permission for the request's session user. Useful for
// conditional logic inside handlers.
func Can(c *fiber.Ctx, table *rbac.Table, permission string) bool {
	return table.Check(CurrentUser(c), permission).Allowed
}
