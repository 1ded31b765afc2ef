package router

import (
	"net/http"
	"time"

	"feedback-tool-backend/handler"
	"feedback-tool-backend/middleware"
	"feedback-tool-backend/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies is everything SetupRoutes wires into the engine.
type Dependencies struct {
	Feedback    *handler.FeedbackHandler
	Profiles    *handler.ProfileHandler
	Auth        *handler.AuthHandler
	Maintenance *handler.MaintenanceHandler
	Health      *handler.HealthHandler

	Sessions          middleware.SessionVerifier
	SessionCookie     string
	MaintenanceAPIKey string
	AllowedOrigins    []string
}

func SetupRoutes(r *gin.Engine, deps Dependencies) error {
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	renderer, err := view.New()
	if err != nil {
		return err
	}
	r.HTMLRender = renderer

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.Metrics())
	r.Use(middleware.SessionGate(deps.Sessions, deps.SessionCookie))

	// Operational routes
	r.GET("/health", deps.Health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Sign-in
	r.GET("/auth", deps.Auth.SignInPage)
	r.POST("/auth/session", deps.Auth.CreateSession)

	// Pages; the session gate redirects to /auth without a session
	r.GET("/", deps.Feedback.Home)
	r.POST("/signout", deps.Auth.SignOut)
	r.GET("/give-feedback", deps.Profiles.GiveFeedbackSearch)
	r.GET("/give-feedback/self-report", deps.Profiles.SelfReportForm)
	r.GET("/give-feedback/:id", deps.Profiles.GiveFeedbackForm)
	r.GET("/wish-feedback", deps.Profiles.WishFeedbackSearch)
	r.GET("/wish-feedback/sent/:id", deps.Feedback.WishSentDetail)
	r.GET("/wish-feedback/:id", deps.Profiles.WishFeedbackForm)
	r.GET("/feedback/sent/:id", deps.Feedback.SentDetail)
	r.GET("/feedback/received/:id", deps.Feedback.ReceivedDetail)
	r.POST("/feedback", deps.Feedback.Submit)
	r.GET("/admin/fix-profiles", deps.Maintenance.FixProfilesPage)
	r.POST("/admin/fix-profiles", deps.Maintenance.FixProfiles)

	// JSON API
	api := r.Group("/api")
	{
		protected := api.Group("/")
		protected.Use(middleware.RequireSession())
		{
			protected.GET("/feedback", deps.Feedback.ListJSON)
			protected.GET("/feedback/:id", deps.Feedback.GetJSON)
			protected.POST("/feedback", deps.Feedback.CreateJSON)
			protected.GET("/profiles", deps.Profiles.SearchJSON)
			protected.GET("/profiles/:id", deps.Profiles.GetJSON)
			protected.GET("/me", deps.Profiles.Me)
		}

		maintenance := api.Group("/")
		maintenance.Use(middleware.MaintenanceAuth(deps.MaintenanceAPIKey))
		{
			maintenance.GET("/seed/create-function", deps.Maintenance.CreateFunctions)
			maintenance.GET("/setup-relations", deps.Maintenance.SetupRelations)
			maintenance.GET("/setup-triggers", deps.Maintenance.SetupTriggers)
			maintenance.GET("/update-profiles", deps.Maintenance.UpdateProfiles)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		if _, ok := middleware.CurrentUser(c); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.HTML(http.StatusNotFound, view.PageNotFound, view.MessagePage{Layout: view.Layout{Title: "Not found"}})
	})

	return nil
}
