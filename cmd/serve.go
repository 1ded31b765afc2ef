package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"feedback-tool-backend/config"
	"feedback-tool-backend/handler"
	"feedback-tool-backend/limit"
	"feedback-tool-backend/router"
	"feedback-tool-backend/service"
	"feedback-tool-backend/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const submitBurst = 5

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	redisClient := config.ConnectRedis(&cfg)
	defer redisClient.Close()

	sessions, err := service.NewSessionService(ctx, cfg.AuthJWTSecret, cfg.AuthJWKSURL, service.NewRedisRevocationList(redisClient))
	if err != nil {
		return err
	}

	feedbackStore := store.NewFeedbackStore(db)
	profileStore := store.NewProfileStore(db)

	feedbackService := service.NewFeedbackService(feedbackStore, profileStore, cfg.Location())
	profileService := service.NewProfileService(profileStore)
	maintenanceService := service.NewMaintenanceService(db, store.NewAuthUserStore(db), profileStore)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	err = router.SetupRoutes(r, router.Dependencies{
		Feedback:          handler.NewFeedbackHandler(feedbackService, profileService, limit.NewSubmissionLimiter(cfg.SubmitRatePerMinute, submitBurst)),
		Profiles:          handler.NewProfileHandler(profileService),
		Auth:              handler.NewAuthHandler(sessions, cfg.SessionCookie, cfg.CookieSecure),
		Maintenance:       handler.NewMaintenanceHandler(maintenanceService, profileService),
		Health:            handler.NewHealthHandler(db, redisClient),
		Sessions:          sessions,
		SessionCookie:     cfg.SessionCookie,
		MaintenanceAPIKey: cfg.MaintenanceAPIKey,
		AllowedOrigins:    cfg.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
