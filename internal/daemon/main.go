// Package daemon wires the database, session storage and web service together.
package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/souls-console/souls-console/internal/config"
	"github.com/souls-console/souls-console/internal/db/dsn"
	"github.com/souls-console/souls-console/internal/db/models"
	"github.com/souls-console/souls-console/internal/web"
	"github.com/souls-console/souls-console/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start(addr string) error {
	return d.webService.Start(addr)
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Soul{},
		&models.TrainingSession{},
		&models.FlaggedChat{},
		&models.ChatMessage{},
		&models.Setting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(openSessionStorage(cfg))

	return &Daemon{
		webService: *web.New(cfg, db),
	}
}

// openDialector picks the gorm driver for the configured engine. SQLite is
// the default so the console runs without an external database.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.MySQL(cfg))
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Postgres(cfg))
	default:
		return sqlite.Open(dsn.SQLite(cfg))
	}
}

// openSessionStorage creates the fiber session storage matching the database
// engine. The SQLite engine keeps sessions in memory, so a restart logs
// everyone out.
func openSessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         "sessions",
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         "sessions",
		})
	default:
		return sessionmemory.New()
	}
}
