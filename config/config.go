package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppHost string
	AppPort int

	DBDriver       string
	MigrationsPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	SQLitePath string

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	AdminBotToken string
	AdminID       int64
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "taxiservice"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppHost = cast.ToString(getOrReturnDefault("APP_HOST", "0.0.0.0"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.DBDriver = cast.ToString(getOrReturnDefault("DB_DRIVER", DriverPostgres))
	cfg.MigrationsPath = cast.ToString(getOrReturnDefault("MIGRATIONS_PATH", ""))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "taxiservice"))

	cfg.SQLitePath = cast.ToString(getOrReturnDefault("SQLITE_PATH", "taxiservice.db"))

	cfg.SessionSecret = cast.ToString(getOrReturnDefault("SESSION_SECRET", ""))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "336h"))
	cfg.SessionCookieSecure = cast.ToBool(getOrReturnDefault("SESSION_COOKIE_SECURE", false))

	cfg.AdminBotToken = cast.ToString(getOrReturnDefault("ADMIN_BOT_TOKEN", ""))
	cfg.AdminID = cast.ToInt64(getOrReturnDefault("ADMIN_ID", 0))

	return cfg
}

// minSessionSecret is the shortest accepted HS256 signing key, in bytes.
const minSessionSecret = 32

var ErrWeakSessionSecret = errors.New("SESSION_SECRET must be set to a random value of at least 32 bytes")

// Validate rejects settings the web server must not start with.
func (c Config) Validate() error {
	if len(c.SessionSecret) < minSessionSecret {
		return ErrWeakSessionSecret
	}
	return nil
}

// PostgresURL is shared by the pgx pool and the migrate driver.
func (c Config) PostgresURL() string {
	return "postgres://" + c.PostgresUser + ":" + c.PostgresPassword + "@" +
		c.PostgresHost + ":" + c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
