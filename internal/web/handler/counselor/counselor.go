// Package counselor provides the flagged chat review queue.
package counselor

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/controller/setting"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/handler"
	"github.com/souls-console/souls-console/internal/web/navigation"
)

const (
	// Path is the path to the counselor queue page.
	Path = handler.RootPath + "counselor"

	// TemplateName is the name of the counselor queue template.
	TemplateName = "counselor/queue"

	// DefaultQueuePageSize is used when no page size is configured.
	DefaultQueuePageSize = 20
)

// Sentinel errors for flag transitions.
var (
	ErrFlagNotFound     = errors.New("flagged chat not found")
	ErrFlagNotClaimable = errors.New("flagged chat is not open")
	ErrFlagNotClaimed   = errors.New("flagged chat is not claimed")
	ErrNotFlagOwner     = errors.New("flagged chat is claimed by another counselor")
	ErrEmptyResolution  = errors.New("resolution must not be empty")
)

// Service is the counselor handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the counselor handler.
var Handler = Service{}

// Init initializes the counselor handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get("/", auth.RequirePermission(table, rbac.PermAccessCounselorQueue), s.Get)
		router.Post("/:flagID/claim", auth.RequirePermission(table, rbac.PermReviewFlaggedChats), s.Claim)
		router.Post("/:flagID/resolve", auth.RequirePermission(table, rbac.PermReviewFlaggedChats), s.Resolve)
	})
}

// Get renders the queue of open and claimed flags.
func (s *Service) Get(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	nav := navigation.NewContext("Counselor Queue", "counselor", "queue").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Counselor Queue", Path, true)

	pageSize := s.queuePageSize()

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var totalOpen int64

	err := s.db.Model(&models.FlaggedChat{}).
		Where("status = ?", models.FlagStatusOpen).
		Count(&totalOpen).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to count open flags")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load queue: " + err.Error())
	}

	var openFlags []models.FlaggedChat

	err = s.db.Preload("Soul").
		Where("status = ?", models.FlagStatusOpen).
		Order("created_at").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&openFlags).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to load open flags")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load queue: " + err.Error())
	}

	var mine []models.FlaggedChat

	if user != nil {
		err = s.db.Preload("Soul").
			Where("status = ? AND claimed_by_id = ?", models.FlagStatusClaimed, user.ID).
			Order("updated_at").
			Find(&mine).Error
		if err != nil {
			log.Error().Err(err).Msg("failed to load claimed flags")

			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load queue: " + err.Error())
		}
	}

	totalPages := (int(totalOpen) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":  nav,
		"OpenFlags":   openFlags,
		"MyFlags":     mine,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"TotalOpen":   totalOpen,
	}, handler.BaseLayout)
}

// Claim assigns an open flag to the current counselor.
func (s *Service) Claim(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Redirect(Path)
	}

	flagID, err := strconv.ParseUint(c.Params("flagID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Flag not found")
	}

	if err := s.claimFlag(flagID, user.ID); err != nil {
		log.Warn().Err(err).Uint64("flag_id", flagID).Msg("failed to claim flag")

		return c.Status(fiber.StatusBadRequest).SendString("Failed to claim flag: " + err.Error())
	}

	log.Info().
		Uint64("flag_id", flagID).
		Uint64("counselor_id", user.ID).
		Msg("Flag claimed")

	return c.Redirect(Path)
}

type resolveForm struct {
	Resolution string `form:"resolution"`
}

// Resolve closes a claimed flag with a resolution note.
func (s *Service) Resolve(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Redirect(Path)
	}

	flagID, err := strconv.ParseUint(c.Params("flagID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Flag not found")
	}

	var form resolveForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to parse form: " + err.Error())
	}

	if err := s.resolveFlag(flagID, user.ID, form.Resolution); err != nil {
		log.Warn().Err(err).Uint64("flag_id", flagID).Msg("failed to resolve flag")

		return c.Status(fiber.StatusBadRequest).SendString("Failed to resolve flag: " + err.Error())
	}

	log.Info().
		Uint64("flag_id", flagID).
		Uint64("counselor_id", user.ID).
		Msg("Flag resolved")

	return c.Redirect(Path)
}

func (s *Service) queuePageSize() int {
	raw := setting.GetString(s.db, setting.NameQueuePageSize, "")
	if raw == "" {
		return DefaultQueuePageSize
	}

	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 || size > 100 {
		return DefaultQueuePageSize
	}

	return size
}

// claimFlag moves an open flag to claimed for the given counselor.
func (s *Service) claimFlag(flagID, counselorID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var flag models.FlaggedChat
		if err := tx.First(&flag, flagID).Error; err != nil {
			return ErrFlagNotFound
		}

		if flag.Status != models.FlagStatusOpen {
			return ErrFlagNotClaimable
		}

		flag.Status = models.FlagStatusClaimed
		flag.ClaimedByID = &counselorID

		return tx.Save(&flag).Error
	})
}

// resolveFlag closes a claimed flag. Only the claiming counselor may resolve it.
func (s *Service) resolveFlag(flagID, counselorID uint64, resolution string) error {
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return ErrEmptyResolution
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var flag models.FlaggedChat
		if err := tx.First(&flag, flagID).Error; err != nil {
			return ErrFlagNotFound
		}

		if flag.Status != models.FlagStatusClaimed {
			return ErrFlagNotClaimed
		}

		if flag.ClaimedByID == nil || *flag.ClaimedByID != counselorID {
			return ErrNotFlagOwner
		}

		flag.Status = models.FlagStatusResolved
		flag.Resolution = resolution

		return tx.Save(&flag).Error
	})
}
