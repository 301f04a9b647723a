// Package server wires handlers, middleware and routes into a gin engine.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hermela-bekele/SmartRecruit-sub000/internal/auth"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/handlers"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/logging"
	"github.com/hermela-bekele/SmartRecruit-sub000/internal/ratelimit"
)

type RateLimit struct {
	Limit  int
	Window time.Duration
}

var (
	LoginLimit       = RateLimit{Limit: 10, Window: 15 * time.Minute}
	ResetLimit       = RateLimit{Limit: 5, Window: time.Hour}
	RegisterLimit    = RateLimit{Limit: 5, Window: time.Hour}
	SubmissionLimit  = RateLimit{Limit: 20, Window: time.Hour}
	defaultCORSAllow = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
)

type Deps struct {
	Logger      logrus.FieldLogger
	Issuer      *auth.TokenIssuer
	Limiter     ratelimit.Limiter
	CORSOrigins []string

	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Dashboard    *handlers.DashboardHandler
	Auth         *handlers.AuthHandler
	Settings     *handlers.SettingsHandler
}

func NewRouter(d Deps) *gin.Engine {
	handlers.UseRequestFieldNames()

	r := gin.New()
	r.Use(logging.Middleware(d.Logger), gin.Recovery(), cors.New(corsConfig(d.CORSOrigins)))

	limit := func(scope string, rl RateLimit) gin.HandlerFunc {
		return ratelimit.Middleware(d.Limiter, scope, rl.Limit, rl.Window)
	}
	requireAuth := auth.RequireAuth(d.Issuer)

	r.GET("/health", handlers.HealthCheck)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", limit("register", RegisterLimit), auth.OptionalAuth(d.Issuer), d.Auth.Register)
		authGroup.POST("/login", limit("login", LoginLimit), d.Auth.Login)
		authGroup.POST("/reset-password", limit("reset", ResetLimit), d.Auth.RequestPasswordReset)
		authGroup.POST("/reset-password/confirm", limit("reset", ResetLimit), d.Auth.ConfirmPasswordReset)
		authGroup.GET("/me", requireAuth, d.Auth.Me)
	}

	jobs := r.Group("/jobs")
	{
		jobs.GET("", d.Jobs.ListJobs)
		jobs.GET("/public", d.Jobs.ListPublicJobs)
		jobs.GET("/:id", d.Jobs.GetJob)
		jobs.POST("", requireAuth, d.Jobs.CreateJob)
		jobs.PATCH("/:id", requireAuth, d.Jobs.UpdateJob)
		jobs.PATCH("/:id/close", requireAuth, d.Jobs.CloseJob)
		jobs.PATCH("/:id/reopen", requireAuth, d.Jobs.ReopenJob)
		jobs.DELETE("/:id", requireAuth, d.Jobs.DeleteJob)
	}

	apps := r.Group("/applications")
	{
		apps.POST("", limit("apply", SubmissionLimit), d.Applications.Submit)
		apps.GET("", requireAuth, d.Applications.List)
		apps.GET("/export", requireAuth, d.Applications.Export)
		apps.GET("/:id", requireAuth, d.Applications.Get)
		apps.GET("/:id/resume", requireAuth, d.Applications.Resume)
		apps.PUT("/:id", requireAuth, d.Applications.Update)
		apps.PATCH("/:id/status", requireAuth, d.Applications.UpdateStatus)
		apps.DELETE("/:id", requireAuth, d.Applications.Delete)
	}

	r.GET("/dashboard/stats", requireAuth, d.Dashboard.Stats)

	settings := r.Group("/settings", requireAuth)
	{
		settings.GET("/profile", d.Settings.Profile)
		settings.PUT("/profile", d.Settings.UpdateProfile)
		settings.PUT("/password", d.Settings.ChangePassword)
		settings.PUT("/notifications", d.Settings.UpdateNotifications)
		settings.POST("/2fa/enable", d.Settings.EnableTwoFactor)
		settings.POST("/2fa/verify", d.Settings.VerifyTwoFactor)
		settings.POST("/2fa/disable", d.Settings.DisableTwoFactor)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = defaultCORSAllow
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
