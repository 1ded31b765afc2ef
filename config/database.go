package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *AppConfig) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(cfg.DBDSN), nil
	case "mysql":
		return mysql.Open(cfg.DBDSN), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// ConnectDatabase opens the pool described by cfg. The caller closes it.
func ConnectDatabase(cfg *AppConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(),
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(d, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	log.WithField("driver", cfg.DBDriver).Info("Successfully connected to the database")
	return db, nil
}

func gormLogLevel() logger.LogLevel {
	switch log.GetLevel() {
	case log.TraceLevel, log.DebugLevel:
		return logger.Info
	case log.InfoLevel, log.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

// newRedisOptions keeps timeouts short and disables retries: the revocation
// check runs on every request, so an unreachable Redis must fail fast.
func newRedisOptions(cfg *AppConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
		MaxRetries:   -1,
	}
}

// ConnectRedis returns a client for the session revocation list. A failed ping
// is logged but the client is still returned; sign-out checks degrade gracefully.
func ConnectRedis(cfg *AppConfig) *redis.Client {
	client := redis.NewClient(newRedisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("Redis not reachable, continuing without revocation checks until it is")
	}
	return client
}
