package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := AppConfig{}
	require.NoError(t, cfg.LoadConfig())

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "sb-access-token", cfg.SessionCookie)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "3")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := AppConfig{}
	require.NoError(t, cfg.LoadConfig())

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 3, cfg.SubmitRatePerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLocation(t *testing.T) {
	cfg := AppConfig{DisplayTimezone: "America/New_York"}
	assert.Equal(t, "America/New_York", cfg.Location().String())

	cfg.DisplayTimezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	cfg := AppConfig{LogLevel: "debug", LogFormat: "json"}
	cfg.SetupLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	cfg = AppConfig{LogLevel: "loud"}
	cfg.SetupLogging()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestConnectDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := ConnectDatabase(&AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestRedisOptionsFailFast(t *testing.T) {
	cfg := &AppConfig{RedisAddr: "127.0.0.1:1", RedisPassword: "secret", RedisDB: 2}

	opts := newRedisOptions(cfg)
	assert.Equal(t, "127.0.0.1:1", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 500*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 300*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 300*time.Millisecond, opts.WriteTimeout)
	assert.Equal(t, -1, opts.MaxRetries)

	start := time.Now()
	client := ConnectRedis(cfg)
	defer client.Close()
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 300*time.Millisecond, client.Options().ReadTimeout)
}
