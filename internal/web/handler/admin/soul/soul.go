// Package soul provides handlers for managing souls (CRUD) in admin area.
package soul

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/handler"
	"github.com/souls-console/souls-console/internal/web/handler/dashboard"
	"github.com/souls-console/souls-console/internal/web/navigation"
)

const (
	// Path is the base path for soul management.
	Path = handler.RootPath + "admin/soul"

	// TemplateList is the template for listing souls.
	TemplateList = "admin/soul/list"
	// TemplateForm is the template for creating/updating a soul.
	TemplateForm = "admin/soul/form"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
)

// Statuses lists the assignable soul statuses in form display order.
var Statuses = []models.SoulStatus{
	models.SoulStatusActive,
	models.SoulStatusTraining,
	models.SoulStatusRetired,
}

// Service provides CRUD operations for souls.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// Routes
	app.Get(Path,
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.List,
	)
	app.Get(Path+"/new",
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.New,
	)
	app.Post(Path,
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.Create,
	)
	app.Get(Path+"/:id/edit",
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.Edit,
	)
	app.Post(Path+"/:id",
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.Update,
	)
	app.Post(Path+"/:id/retire",
		auth.RequirePermission(table, rbac.PermManageSouls),
		s.Retire,
	)
}

// List shows souls with simple pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.NewContext("Souls", "admin", "soul").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Souls", Path, true)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = DefaultPageSize
	}

	search := c.Query("search", "")

	var (
		souls      []models.Soul
		totalCount int64
		tx         = s.db.Model(&models.Soul{})
	)

	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("name LIKE ? OR archetype LIKE ?", like, like)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count souls failed")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load souls",
			"Search":     search,
		}, handler.BaseLayout)
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("id DESC").Limit(pageSize).Offset(offset).Find(&souls).Error; err != nil {
		log.Error().Err(err).Msg("query souls failed")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load souls",
			"Search":     search,
		}, handler.BaseLayout)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": nav,
		"Souls":      souls,
		"Search":     search,
		"Page":       page,
		"PageSize":   pageSize,
		"TotalItems": totalCount,
		"TotalPages": totalPages,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Soul", "admin", "soul").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Souls", Path, false).
		AddBreadcrumb("New", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Soul":       models.Soul{Status: models.SoulStatusActive},
		"IsCreate":   true,
		"Statuses":   Statuses,
	}, handler.BaseLayout)
}

type soulForm struct {
	Name        string `form:"name"        validate:"required,min=2,max=100"`
	Archetype   string `form:"archetype"   validate:"required,max=100"`
	Temperament string `form:"temperament" validate:"max=100"`
	Status      string `form:"status"      validate:"required,oneof=active training retired"`
}

// Create creates a new soul.
func (s *Service) Create(c *fiber.Ctx) error {
	var in soulForm

	if err := c.BodyParser(&in); err != nil {
		nav := navigation.NewContext("Souls", "admin", "soul").
			AddBreadcrumb("Home", dashboard.Path, false).
			AddBreadcrumb("Admin", "#", false).
			AddBreadcrumb("Souls", Path, true)

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		nav := navigation.NewContext("Souls", "admin", "soul").
			AddBreadcrumb("Home", dashboard.Path, false).
			AddBreadcrumb("Admin", "#", false).
			AddBreadcrumb("Souls", Path, true)

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	soul := models.Soul{
		Name:        in.Name,
		Archetype:   in.Archetype,
		Temperament: in.Temperament,
		Status:      models.SoulStatus(in.Status),
	}

	if err := s.db.Create(&soul).Error; err != nil {
		nav := navigation.NewContext("Souls", "admin", "soul").
			AddBreadcrumb("Home", dashboard.Path, false).
			AddBreadcrumb("Admin", "#", false).
			AddBreadcrumb("Souls", Path, true)

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to create soul: " + err.Error(),
		}, handler.BaseLayout)
	}

	log.Info().
		Uint64("soul_id", soul.ID).
		Str("name", soul.Name).
		Str("archetype", soul.Archetype).
		Msg("Soul created")

	return c.Redirect(Path)
}

// Edit shows the edit form for a soul.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var soul models.Soul
	if err := s.db.First(&soul, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load soul",
		}, handler.BaseLayout)
	}

	nav := navigation.NewContext("Edit Soul", "admin", "soul").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Admin", "#", false).
		AddBreadcrumb("Souls", Path, false).
		AddBreadcrumb("Edit", Path+"/"+strconv.Itoa(id)+"/edit", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Soul":       soul,
		"IsCreate":   false,
		"Statuses":   Statuses,
	}, handler.BaseLayout)
}

// Update updates a soul.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	var in soulForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Invalid form data",
		}, handler.BaseLayout)
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Please correct the highlighted errors",
		}, handler.BaseLayout)
	}

	var soul models.Soul
	if err := s.db.First(&soul, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect(Path)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateForm, fiber.Map{
			"Error": "Failed to load soul",
		}, handler.BaseLayout)
	}

	soul.Name = in.Name
	soul.Archetype = in.Archetype
	soul.Temperament = in.Temperament
	soul.Status = models.SoulStatus(in.Status)

	if err := s.db.Save(&soul).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).Render(TemplateForm, fiber.Map{
			"Error": "Failed to update soul: " + err.Error(),
		}, handler.BaseLayout)
	}

	return c.Redirect(Path)
}

// Retire moves a soul out of rotation without deleting its history.
func (s *Service) Retire(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Redirect(Path)
	}

	err = s.db.Model(&models.Soul{}).
		Where("id = ?", id).
		Update("status", models.SoulStatusRetired).Error
	if err != nil {
		nav := navigation.NewContext("Souls", "admin", "soul").
			AddBreadcrumb("Home", dashboard.Path, false).
			AddBreadcrumb("Admin", "#", false).
			AddBreadcrumb("Souls", Path, true)

		return c.Status(fiber.StatusBadRequest).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to retire soul: " + err.Error(),
		}, handler.BaseLayout)
	}

	log.Info().Int("soul_id", id).Msg("Soul retired")

	return c.Redirect(Path)
}
