package daemon

import (
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/rbac"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// Create default admin user
		// change this password right after the first login

		db.Create(
			&models.User{
				Username: "admin",
				Email:    "admin@localhost",
				Password: models.HashPassword("changeme"),
				Active:   true,
				Role:     rbac.RoleAdmin.String(),
			},
		)

		log.Warn().Msg("seeded default admin account with password 'changeme'")
	}

	// Seed a starter roster so the console is not empty on first run
	db.Model(&models.Soul{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Soul{
			{Name: "Aurora", Archetype: "mentor", Temperament: "calm", Status: models.SoulStatusActive},
			{Name: "Brick", Archetype: "companion", Temperament: "cheerful", Status: models.SoulStatusActive},
			{Name: "Cinder", Archetype: "mentor", Temperament: "stern", Status: models.SoulStatusTraining},
		})
	}
}
