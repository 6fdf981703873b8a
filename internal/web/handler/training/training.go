// Package training provides the training session pages for trainers.
package training

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/auth"
	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
	"github.com/souls-console/souls-console/internal/web/handler"
	"github.com/souls-console/souls-console/internal/web/navigation"
)

const (
	// Path is the path to the training overview page.
	Path = handler.RootPath + "training"

	// TemplateName is the name of the training overview template.
	TemplateName = "training/training"

	// MinScore is the lowest valid session score.
	MinScore = 0

	// MaxScore is the highest valid session score.
	MaxScore = 100
)

// Sentinel errors for training session transitions.
var (
	ErrSessionNotFound  = errors.New("training session not found")
	ErrSessionClosed    = errors.New("training session already completed")
	ErrSoulNotTrainable = errors.New("soul can not enter training")
	ErrInvalidScore     = errors.New("score out of range")
)

// Service is the training handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the training handler.
var Handler = Service{}

// Init initializes the training handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get("/", auth.RequirePermission(table, rbac.PermAccessTraining), s.Get)
		router.Post("/start", auth.RequirePermission(table, rbac.PermManageTrainingPlans), s.Start)
		router.Post("/:sessionID/complete", auth.RequirePermission(table, rbac.PermManageTrainingPlans), s.Complete)
	})
}

// Get renders the training overview with open sessions and trainable souls.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Training", "training", "sessions").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Training", Path, true)

	var openSessions []models.TrainingSession

	err := s.db.Preload("Soul").Preload("Trainer").
		Where("completed_at IS NULL").
		Order("started_at").
		Find(&openSessions).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to load open training sessions")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load sessions: " + err.Error())
	}

	var recentSessions []models.TrainingSession

	err = s.db.Preload("Soul").Preload("Trainer").
		Where("completed_at IS NOT NULL").
		Order("completed_at DESC").
		Limit(20).
		Find(&recentSessions).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to load completed training sessions")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load sessions: " + err.Error())
	}

	var trainableSouls []models.Soul

	err = s.db.Where("status = ?", models.SoulStatusActive).Order("name").Find(&trainableSouls).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to load trainable souls")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load souls: " + err.Error())
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":     nav,
		"OpenSessions":   openSessions,
		"RecentSessions": recentSessions,
		"TrainableSouls": trainableSouls,
	}, handler.BaseLayout)
}

type startForm struct {
	SoulID uint64 `form:"soul_id"`
	Focus  string `form:"focus"`
}

// Start opens a new training session and moves the soul into training.
func (s *Service) Start(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Redirect(Path)
	}

	var form startForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to parse form: " + err.Error())
	}

	session, err := s.startSession(form.SoulID, user.ID, form.Focus)
	if err != nil {
		log.Warn().Err(err).Uint64("soul_id", form.SoulID).Msg("failed to start training session")

		return c.Status(fiber.StatusBadRequest).SendString("Failed to start session: " + err.Error())
	}

	log.Info().
		Uint64("session_id", session.ID).
		Uint64("soul_id", session.SoulID).
		Uint64("trainer_id", session.TrainerID).
		Str("focus", session.Focus).
		Msg("Training session started")

	return c.Redirect(Path)
}

type completeForm struct {
	Notes string `form:"notes"`
	Score int    `form:"score"`
}

// Complete closes a training session with notes and a score.
func (s *Service) Complete(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Redirect(Path)
	}

	sessionID, err := strconv.ParseUint(c.Params("sessionID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Session not found")
	}

	var form completeForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to parse form: " + err.Error())
	}

	if err := s.completeSession(sessionID, form.Notes, form.Score); err != nil {
		log.Warn().Err(err).Uint64("session_id", sessionID).Msg("failed to complete training session")

		return c.Status(fiber.StatusBadRequest).SendString("Failed to complete session: " + err.Error())
	}

	log.Info().
		Uint64("session_id", sessionID).
		Int("score", form.Score).
		Msg("Training session completed")

	return c.Redirect(Path)
}

// startSession opens a session for an active soul and flips the soul into training.
func (s *Service) startSession(soulID, trainerID uint64, focus string) (*models.TrainingSession, error) {
	var session models.TrainingSession

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var soul models.Soul
		if err := tx.First(&soul, soulID).Error; err != nil {
			return ErrSoulNotTrainable
		}

		if soul.Status != models.SoulStatusActive {
			return ErrSoulNotTrainable
		}

		session = models.TrainingSession{
			SoulID:    soul.ID,
			TrainerID: trainerID,
			Focus:     focus,
			StartedAt: time.Now(),
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		soul.Status = models.SoulStatusTraining
		soul.SessionCount++

		return tx.Save(&soul).Error
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// completeSession closes a session and returns the soul to active when no
// other open sessions remain for it.
func (s *Service) completeSession(sessionID uint64, notes string, score int) error {
	if score < MinScore || score > MaxScore {
		return ErrInvalidScore
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var session models.TrainingSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			return ErrSessionNotFound
		}

		if !session.Open() {
			return ErrSessionClosed
		}

		now := time.Now()
		session.CompletedAt = &now
		session.Notes = notes
		session.Score = score

		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		var openCount int64

		err := tx.Model(&models.TrainingSession{}).
			Where("soul_id = ? AND completed_at IS NULL", session.SoulID).
			Count(&openCount).Error
		if err != nil {
			return err
		}

		if openCount == 0 {
			err = tx.Model(&models.Soul{}).
				Where("id = ? AND status = ?", session.SoulID, models.SoulStatusTraining).
				Update("status", models.SoulStatusActive).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
