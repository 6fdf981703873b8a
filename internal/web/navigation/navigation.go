// Package navigation provides utilities for managing navigation state,
// breadcrumbs and the permission-filtered main menu.
package navigation

import "github.com/souls-console/souls-console/internal/rbac"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// MenuItem represents one entry in the main menu. An entry is only shown
// to users holding its permission.
type MenuItem struct {
	Title      string
	URL        string
	Section    string
	Permission string
}

// DefaultMenu returns the console's main menu entries in display order.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Title: "Dashboard", URL: "/dashboard", Section: "dashboard", Permission: rbac.PermViewDashboard},
		{Title: "Chat", URL: "/chat", Section: "chat", Permission: rbac.PermChatWithSouls},
		{Title: "Training", URL: "/training", Section: "training", Permission: rbac.PermAccessTraining},
		{Title: "Counselor Queue", URL: "/counselor", Section: "counselor", Permission: rbac.PermAccessCounselorQueue},
		{Title: "Users", URL: "/admin/user", Section: "admin", Permission: rbac.PermManageUsers},
		{Title: "Souls", URL: "/admin/soul", Section: "admin", Permission: rbac.PermManageSouls},
		{Title: "Settings", URL: "/admin/settings", Section: "admin", Permission: rbac.PermManageSettings},
	}
}

// VisibleMenu filters menu entries down to those the can callback allows.
// The callback is the rbac table lookup bound to the current user's role.
func VisibleMenu(items []MenuItem, can func(permission string) bool) []MenuItem {
	visible := make([]MenuItem, 0, len(items))

	for _, item := range items {
		if can(item.Permission) {
			visible = append(visible, item)
		}
	}

	return visible
}
