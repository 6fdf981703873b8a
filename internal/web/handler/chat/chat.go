// Package chat provides the chat pages for talking with souls.
package chat

import (
	"fmt"
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
	// Path is the path to the chat overview page.
	Path = handler.RootPath + "chat"

	// ListTemplateName is the name of the soul picker template.
	ListTemplateName = "chat/list"

	// ConversationTemplateName is the name of the conversation template.
	ConversationTemplateName = "chat/conversation"

	// TranscriptLimit caps the number of messages loaded per conversation.
	TranscriptLimit = 200

	// DefaultGreeting is used when no greeting is configured.
	DefaultGreeting = "Hello, I am %s. What is on your mind?"
)

// ErrSoulNotFound is returned when the requested soul does not exist.
var ErrSoulNotFound = errors.New("soul not found")

// Service is the chat handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the chat handler.
var Handler = Service{}

// Init initializes the chat handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get("/", auth.RequirePermission(table, rbac.PermChatWithSouls), s.List)
		router.Get("/:soulID", auth.RequirePermission(table, rbac.PermChatWithSouls), s.Conversation)
		router.Post("/:soulID", auth.RequirePermission(table, rbac.PermChatWithSouls), s.Post)
	})
}

// List renders the soul picker with all active souls.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.NewContext("Chat", "chat", "souls").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Chat", Path, true)

	var souls []models.Soul
	if err := s.db.Where("status = ?", models.SoulStatusActive).Order("name").Find(&souls).Error; err != nil {
		log.Error().Err(err).Msg("failed to load active souls")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load souls: " + err.Error())
	}

	return c.Render(ListTemplateName, fiber.Map{
		"Navigation": nav,
		"Souls":      souls,
	}, handler.BaseLayout)
}

// Conversation renders the transcript between the current user and a soul.
func (s *Service) Conversation(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	soul, err := s.loadSoul(c.Params("soulID"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Soul not found")
	}

	nav := navigation.NewContext("Chat", "chat", "conversation").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Chat", Path, false).
		AddBreadcrumb(soul.Name, fmt.Sprintf("%s/%d", Path, soul.ID), true)

	messages, err := s.loadTranscript(soul.ID, user)
	if err != nil {
		log.Error().Err(err).Uint64("soul_id", soul.ID).Msg("failed to load transcript")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load transcript: " + err.Error())
	}

	return c.Render(ConversationTemplateName, fiber.Map{
		"Navigation": nav,
		"Soul":       soul,
		"Messages":   messages,
	}, handler.BaseLayout)
}

type messageForm struct {
	Body string `form:"body"`
}

// Post stores a user message and the soul's reply, then redirects back to the conversation.
func (s *Service) Post(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)
	if user == nil {
		return c.Redirect(Path)
	}

	soul, err := s.loadSoul(c.Params("soulID"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Soul not found")
	}

	var form messageForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to parse message: " + err.Error())
	}

	body := strings.TrimSpace(form.Body)
	if body == "" {
		return c.Redirect(fmt.Sprintf("%s/%d", Path, soul.ID))
	}

	reply := s.composeReply(soul, body)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		userMsg := models.ChatMessage{
			SoulID: soul.ID,
			UserID: user.ID,
			Sender: models.ChatSenderUser,
			Body:   body,
		}
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}

		soulMsg := models.ChatMessage{
			SoulID: soul.ID,
			UserID: user.ID,
			Sender: models.ChatSenderSoul,
			Body:   reply,
		}

		return tx.Create(&soulMsg).Error
	})
	if err != nil {
		log.Error().Err(err).Uint64("soul_id", soul.ID).Msg("failed to store chat messages")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to store message: " + err.Error())
	}

	log.Debug().
		Uint64("soul_id", soul.ID).
		Uint64("user_id", user.ID).
		Int("body_len", len(body)).
		Msg("Chat message stored")

	return c.Redirect(fmt.Sprintf("%s/%d", Path, soul.ID))
}

func (s *Service) loadSoul(rawID string) (*models.Soul, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, ErrSoulNotFound
	}

	var soul models.Soul
	if err := s.db.First(&soul, id).Error; err != nil {
		return nil, ErrSoulNotFound
	}

	return &soul, nil
}

func (s *Service) loadTranscript(soulID uint64, user *models.User) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	query := s.db.Where("soul_id = ?", soulID)
	if user != nil {
		query = query.Where("user_id = ?", user.ID)
	}

	err := query.Order("created_at").Limit(TranscriptLimit).Find(&messages).Error

	return messages, err
}

// composeReply builds the soul's canned reply from the configured greeting
// and the soul's temperament.
func (s *Service) composeReply(soul *models.Soul, body string) string {
	if isGreeting(body) {
		greeting := setting.GetString(s.db, setting.NameChatGreeting, DefaultGreeting)

		if strings.Contains(greeting, "%s") {
			return fmt.Sprintf(greeting, soul.Name)
		}

		return greeting
	}

	switch soul.Temperament {
	case "stern":
		return "Noted. Continue."
	case "cheerful":
		return "Oh, that sounds wonderful! Tell me more."
	default:
		return "I hear you. Tell me more about that."
	}
}

func isGreeting(body string) bool {
	lower := strings.ToLower(strings.TrimSpace(body))

	for _, word := range []string{"hello", "hi", "hey"} {
		if lower == word || strings.HasPrefix(lower, word+" ") || strings.HasPrefix(lower, word+",") {
			return true
		}
	}

	return false
}
