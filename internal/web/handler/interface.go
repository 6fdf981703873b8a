package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/rbac"
)

// Service is the interface for a web handler service. Handlers register
// their own routes behind the shared permission table.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, table *rbac.Table)
}
