// Package settings provides handlers for editing console settings in admin area.
package settings

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/controller/setting"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/handler"
	"github.com/souls-console/souls-console/internal/web/handler/dashboard"
	"github.com/souls-console/souls-console/internal/web/navigation"
)

const (
	// Path is the path to the settings page.
	Path = handler.RootPath + "admin/settings"

	// TemplateName is the name of the settings template.
	TemplateName = "admin/settings/settings"
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get("/", auth.RequirePermission(table, rbac.PermManageSettings), s.Get)
		router.Post("/", auth.RequirePermission(table, rbac.PermManageSettings), s.Post)
	})
}

// Get renders the settings form with current values.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "")
}

type settingsForm struct {
	Title         string `form:"title"`
	ChatGreeting  string `form:"chat_greeting"`
	QueuePageSize string `form:"queue_page_size"`
}

// Post stores the submitted settings.
func (s *Service) Post(c *fiber.Ctx) error {
	var form settingsForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderWithStatus(c, fiber.StatusBadRequest, "Invalid form data")
	}

	if size := strings.TrimSpace(form.QueuePageSize); size != "" {
		parsed, err := strconv.Atoi(size)
		if err != nil || parsed < 1 || parsed > 100 {
			return s.renderWithStatus(c, fiber.StatusBadRequest, "Queue page size must be a number between 1 and 100")
		}
	}

	values := map[string]string{
		setting.NameConsoleTitle:  strings.TrimSpace(form.Title),
		setting.NameChatGreeting:  strings.TrimSpace(form.ChatGreeting),
		setting.NameQueuePageSize: strings.TrimSpace(form.QueuePageSize),
	}

	for name, value := range values {
		if err := setting.SetString(s.db, name, value); err != nil {
			log.Error().Err(err).Str("setting", name).Msg("failed to store setting")

			return s.renderWithStatus(c, fiber.StatusInternalServerError, "Failed to store settings: "+err.Error())
		}
	}

	log.Info().Msg("Console settings updated")

	return c.Redirect(Path)
}

func (s *Service) render(c *fiber.Ctx, errMsg string) error {
	return s.renderWithStatus(c, fiber.StatusOK, errMsg)
}

func (s *Service) renderWithStatus(c *fiber.Ctx, status int, errMsg string) error {
	nav := navigation.NewContext("Settings", "admin", "settings").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Settings", Path, true)

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Navigation":    nav,
		"Error":         errMsg,
		"Title":         setting.GetString(s.db, setting.NameConsoleTitle, s.cfg.Title),
		"ChatGreeting":  setting.GetString(s.db, setting.NameChatGreeting, ""),
		"QueuePageSize": setting.GetString(s.db, setting.NameQueuePageSize, ""),
	}, handler.BaseLayout)
}
