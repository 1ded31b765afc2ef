package config

import (
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port    string `envconfig:"PORT" default:"8888"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	DBDriver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	DBDSN             string        `envconfig:"DB_DSN" default:"host=localhost user=postgres password=postgres dbname=postgres port=5432 sslmode=disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`

	// Session tokens are verified against the JWKS when set, otherwise the shared secret.
	AuthJWTSecret string `envconfig:"AUTH_JWT_SECRET" default:""`
	AuthJWKSURL   string `envconfig:"AUTH_JWKS_URL" default:""`
	SessionCookie string `envconfig:"SESSION_COOKIE" default:"sb-access-token"`
	CookieSecure  bool   `envconfig:"COOKIE_SECURE" default:"false"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	MaintenanceAPIKey string   `envconfig:"MAINTENANCE_API_KEY" default:""`
	AllowedOrigins    []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	DisplayTimezone     string `envconfig:"DISPLAY_TIMEZONE" default:"UTC"`
	SubmitRatePerMinute int    `envconfig:"SUBMIT_RATE_PER_MINUTE" default:"10"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

func (cfg *AppConfig) LoadConfig() error {
	err := envconfig.Process("", cfg)
	if err != nil {
		log.WithError(err).Error("load env err")
	}
	return err
}

// Location returns the zone used to format dates shown to users.
func (cfg *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.DisplayTimezone).Warn("Unknown display timezone, using UTC")
		return time.UTC
	}
	return loc
}

func (cfg *AppConfig) SetupLogging() {
	log.SetOutput(os.Stdout)

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
