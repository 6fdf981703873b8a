// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/souls-console/souls-console/internal/config"
)

// MySQL builds the Data Source Name for a MySQL connection.
func MySQL(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// Postgres builds the Data Source Name for a PostgreSQL connection.
func Postgres(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// SQLite returns the database file path for the embedded sqlite engine.
// An unset path defaults to a file in the working directory.
func SQLite(cfg *config.Config) string {
	if cfg.DB.Path == "" {
		return "./souls-console.db"
	}

	return cfg.DB.Path
}
