package config

// Supported database engines.
const (
	// EngineSQLite selects the embedded sqlite database (default, dev-friendly).
	EngineSQLite = "sqlite"
	// EngineMySQL selects a MySQL server.
	EngineMySQL = "mysql"
	// EnginePostgres selects a PostgreSQL server.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // sqlite, mysql or postgres
	Path     string // database file path (sqlite only)
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
